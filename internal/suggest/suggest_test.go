package suggest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlag(t *testing.T) {
	valid := []string{"--name", "--type", "--tablets", "--rows", "--holes"}

	tests := []struct {
		unknown string
		want    []string
	}{
		{"--tablet", []string{"--tablets"}},
		{"-row", []string{"--rows"}},
		{"--zzzzzzzzzzzz", nil},
	}
	for _, tt := range tests {
		got := Flag(tt.unknown, valid)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if got[0] != tt.want[0] {
			t.Errorf("Flag(%q) = %v, want first %v", tt.unknown, got, tt.want)
		}
	}
}

func TestNames(t *testing.T) {
	names := []string{"Ram's Horns", "Diamonds", "Diamond border", "Chevron"}

	tests := []struct {
		unknown string
		want    []string
	}{
		{"diamonds", []string{"Diamonds"}},
		{"diamond", []string{"Diamonds", "Diamond border"}},
		{"chevrons", []string{"Chevron"}},
		{"rams horns", []string{"Ram's Horns"}},
		{"completely unrelated words", nil},
	}
	for _, tt := range tests {
		got := Names(tt.unknown, names)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Names(%q) (-want +got):\n%s", tt.unknown, diff)
		}
	}
}

func TestNamesCapsResults(t *testing.T) {
	got := Names("ab", []string{"aa", "ab", "ac", "ad", "ae"})
	if len(got) != maxSuggestions || got[0] != "ab" {
		t.Errorf("Names = %v", got)
	}
}

func TestGetFlagHint(t *testing.T) {
	if GetFlagHint("--Cards") != "--tablets" {
		t.Error("expected --tablets hint for --cards")
	}
	if GetFlagHint("--nothing") != "" {
		t.Error("unexpected hint")
	}
}
