package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/analysis"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/store"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"github.com/charmbracelet/x/ansi"
)

// TestFormatTimeAgoJustNow tests times less than a minute ago
func TestFormatTimeAgoJustNow(t *testing.T) {
	now := time.Now()
	for _, tm := range []time.Time{now, now.Add(-30 * time.Second), now.Add(-59 * time.Second)} {
		if got := FormatTimeAgo(tm); got != "just now" {
			t.Errorf("FormatTimeAgo(%v) = %q, want 'just now'", tm, got)
		}
	}
}

func TestFormatTimeAgoOlder(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{5 * time.Minute, "5 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{3 * 24 * time.Hour, "3 days ago"},
	}
	for _, tc := range tests {
		got := FormatTimeAgo(time.Now().Add(-tc.duration))
		if got != tc.expected {
			t.Errorf("FormatTimeAgo(-%v) = %q, want %q", tc.duration, got, tc.expected)
		}
	}
}

func TestFormatJSONError(t *testing.T) {
	out := FormatJSONError(ErrCodeNotFound, `no pattern "x"`, map[string]interface{}{"suggestions": []string{"xy"}})

	var doc struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("not valid JSON: %v\n%s", err, out)
	}
	if doc.Error.Code != "not_found" || doc.Error.Message != `no pattern "x"` {
		t.Errorf("unexpected error doc: %+v", doc.Error)
	}
	if doc.Error.Details == nil {
		t.Error("details missing")
	}

	if strings.Contains(FormatJSONError(ErrCodeInvalidInput, "bad", nil), "details") {
		t.Error("empty details should be omitted")
	}
}

func TestFormatType(t *testing.T) {
	for _, typ := range pattern.ValidTypes {
		if got := ansi.Strip(FormatType(typ)); got != string(typ) {
			t.Errorf("FormatType(%s) = %q", typ, got)
		}
	}
	if FormatType("weird") != "weird" {
		t.Error("unknown type should render plain")
	}
}

func TestFormatTags(t *testing.T) {
	if FormatTags(nil) != "" {
		t.Error("no tags should render empty")
	}
	if got := ansi.Strip(FormatTags([]string{"belt", "sampler"})); got != "#belt #sampler" {
		t.Errorf("FormatTags = %q", got)
	}
}

func TestFormatEntryShort(t *testing.T) {
	e := store.Entry{
		ID:        "0123456789abcdef",
		Name:      "A very long pattern name indeed",
		Type:      pattern.TypeDoubleFaced,
		Holes:     4,
		Tablets:   12,
		Rows:      40,
		Tags:      []string{"belt"},
		UpdatedAt: time.Now(),
	}
	got := ansi.Strip(FormatEntryShort(e, 10))
	for _, want := range []string{"01234567", "A very lo…", "doubleFaced", "12×40 (4 holes)", "just now", "#belt"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatEntryShort missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "indeed") {
		t.Errorf("name not truncated: %q", got)
	}
}

func TestFormatPatternLong(t *testing.T) {
	p := pattern.New("Diamonds", pattern.TypeIndividual, 8, 16, 4)
	p.ID = "abcdef0123456789"
	p.Tags = []string{"sampler"}

	got := ansi.Strip(FormatPatternLong(p, "Rendered notes"))
	for _, want := range []string{"abcdef01: Diamonds", "individual", "8×16 (4 holes)", "#sampler", "Description:", "Rendered notes"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatPatternLong missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Created") {
		t.Error("unsaved pattern should not show timestamps")
	}
}

func TestIndentString(t *testing.T) {
	if got := IndentString("a\nb", 2); got != "  a\n  b" {
		t.Errorf("IndentString = %q", got)
	}
	if IndentString("", 4) != "" {
		t.Error("empty string should stay empty")
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	got, err := RenderMarkdownWithWidth("   ", 40)
	if err != nil || got != "" {
		t.Errorf("blank markdown = %q, %v", got, err)
	}
}

func TestRenderDescription(t *testing.T) {
	got := ansi.Strip(RenderDescription("Weave **tightly**."))
	if !strings.Contains(got, "tightly") {
		t.Errorf("RenderDescription lost text: %q", got)
	}
}

// --- Charts ---

func TestThreadingChart(t *testing.T) {
	p := pattern.New("Chart", pattern.TypeIndividual, 3, 2, 4)
	p.Threading[3][2] = pattern.EmptyHole
	p.Orientations[1] = weaving.OrientationZ

	lines := strings.Split(ansi.Strip(ThreadingChart(p)), "\n")
	if len(lines) != 6 {
		t.Fatalf("want ruler + 4 holes + orientations, got %d lines:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.HasPrefix(lines[1], "A") || !strings.HasPrefix(lines[4], "D") {
		t.Errorf("hole labels wrong: %q %q", lines[1], lines[4])
	}
	if !strings.HasSuffix(lines[4], emptyCell) {
		t.Errorf("empty hole not drawn: %q", lines[4])
	}
	if got := strings.TrimSpace(lines[5]); got != `/ \ /` {
		t.Errorf("orientations = %q", got)
	}
}

func TestPickGlyph(t *testing.T) {
	tests := []struct {
		o    weaving.Orientation
		pick weaving.Turn
		want string
	}{
		{weaving.OrientationS, weaving.Turn{Direction: weaving.Forward, NumberOfTurns: 1}, "//"},
		{weaving.OrientationS, weaving.Turn{Direction: weaving.Backward, NumberOfTurns: 1}, `\\`},
		{weaving.OrientationZ, weaving.Turn{Direction: weaving.Forward, NumberOfTurns: 2}, `\\`},
		{weaving.OrientationZ, weaving.Turn{Direction: weaving.Backward, NumberOfTurns: 1}, "//"},
		{weaving.OrientationS, weaving.Turn{Direction: weaving.Backward, NumberOfTurns: 0}, idleCell},
	}
	for _, tt := range tests {
		if got := PickGlyph(tt.o, tt.pick); got != tt.want {
			t.Errorf("PickGlyph(%s, %+v) = %q, want %q", tt.o, tt.pick, got, tt.want)
		}
	}
}

func TestWeavingChart(t *testing.T) {
	p := pattern.New("Chart", pattern.TypeAllTogether, 2, 3, 4)
	p.AllTogether[2] = weaving.Backward

	lines := strings.Split(ansi.Strip(WeavingChart(p, p.ComputePicks())), "\n")
	if len(lines) != 4 {
		t.Fatalf("want ruler + 3 rows, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[1], "////") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasSuffix(lines[3], `\\\\`) {
		t.Errorf("row 3 = %q", lines[3])
	}
}

func TestPickTable(t *testing.T) {
	p := pattern.New("Table", pattern.TypeIndividual, 2, 3, 4)
	p.Picks[1][1] = pattern.Step{Direction: weaving.Backward, NumberOfTurns: 1}

	got := ansi.Strip(PickTable(p, p.ComputePicks()))
	for _, want := range []string{"Tablet", "Running total", "1 2 3", "1 0 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("PickTable missing %q:\n%s", want, got)
		}
	}
}

func TestTwistReport(t *testing.T) {
	p := pattern.New("Twisty", pattern.TypeIndividual, 2, 4, 4)
	r := analysis.Analyze(p, 3)

	got := ansi.Strip(TwistReport(r))
	if !strings.Contains(got, "Twisty") || !strings.Contains(got, "Max twist") {
		t.Errorf("report header missing:\n%s", got)
	}
	if !strings.Contains(got, "2 tablet(s) twist past the warning threshold: 1, 2") {
		t.Errorf("warnings missing:\n%s", got)
	}

	balanced := pattern.New("Flat", pattern.TypeAllTogether, 1, 2, 4)
	balanced.AllTogether[1] = weaving.Backward
	if !strings.Contains(ansi.Strip(TwistReport(analysis.Analyze(balanced, 0))), "Balanced") {
		t.Error("balanced pattern not reported")
	}
}
