package weaving

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTurnTablet(t *testing.T) {
	tests := []struct {
		name string
		in   Turn
		want Turn
	}{
		{"forward adds", Turn{Forward, 2, 1}, Turn{Forward, 2, 3}},
		{"backward subtracts", Turn{Backward, 4, 3}, Turn{Backward, 4, -1}},
		{"default total", Turn{Direction: Forward, NumberOfTurns: 3}, Turn{Forward, 3, 3}},
		{"zero turns forward", Turn{Forward, 0, 7}, Turn{Forward, 0, 7}},
		{"zero turns backward", Turn{Backward, 0, -7}, Turn{Backward, 0, -7}},
		{"negative total", Turn{Forward, 1, -5}, Turn{Forward, 1, -4}},
		{"out of range turns accepted", Turn{Forward, 9, 0}, Turn{Forward, 9, 9}},
		{"negative turns accepted", Turn{Backward, -2, 0}, Turn{Backward, -2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TurnTablet(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TurnTablet(%+v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestTurnTabletArithmetic(t *testing.T) {
	for total := -20; total <= 20; total++ {
		for n := 0; n <= 6; n++ {
			f := TurnTablet(Turn{Forward, n, total})
			if f.TotalTurns != total+n {
				t.Fatalf("forward n=%d t=%d: got %d", n, total, f.TotalTurns)
			}
			b := TurnTablet(Turn{Backward, n, total})
			if b.TotalTurns != total-n {
				t.Fatalf("backward n=%d t=%d: got %d", n, total, b.TotalTurns)
			}
			if f.Direction != Forward || b.Direction != Backward {
				t.Fatalf("direction not echoed")
			}
			if f.NumberOfTurns != n || b.NumberOfTurns != n {
				t.Fatalf("numberOfTurns not echoed")
			}
		}
	}
}

func TestAccumulateTurns(t *testing.T) {
	steps := []Turn{
		{Direction: Forward, NumberOfTurns: 1},
		{Direction: Backward, NumberOfTurns: 1},
		{Direction: Forward, NumberOfTurns: 2},
	}
	got := AccumulateTurns(steps, 0)
	want := []Turn{
		{Forward, 1, 1},
		{Backward, 1, 0},
		{Forward, 2, 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fold mismatch (-want +got):\n%s", diff)
	}
	if FinalTotal(got, 0) != 2 {
		t.Errorf("final total = %d, want 2", FinalTotal(got, 0))
	}
	for i := range steps {
		if steps[i].TotalTurns != 0 {
			t.Fatalf("input step %d was modified: %+v", i, steps[i])
		}
	}
}

func TestAccumulateTurnsIgnoresInputTotals(t *testing.T) {
	steps := []Turn{{Forward, 1, 100}, {Forward, 1, -100}}
	got := AccumulateTurns(steps, 5)
	if got[0].TotalTurns != 6 || got[1].TotalTurns != 7 {
		t.Errorf("got totals %d, %d; want 6, 7", got[0].TotalTurns, got[1].TotalTurns)
	}
}

func TestAccumulateTurnsEmpty(t *testing.T) {
	got := AccumulateTurns(nil, 3)
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if FinalTotal(got, 3) != 3 {
		t.Errorf("final total of no picks should be the start")
	}
}

func TestTurnTabletConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got := TurnTablet(Turn{Forward, 3, i})
			if got.TotalTurns != i+3 {
				t.Errorf("goroutine %d: got %d", i, got.TotalTurns)
			}
		}(i)
	}
	wg.Wait()
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"F", "f", "forward", " Forward "} {
		d, err := ParseDirection(s)
		if err != nil || d != Forward {
			t.Errorf("ParseDirection(%q) = %v, %v", s, d, err)
		}
	}
	for _, s := range []string{"B", "back", "BACKWARD"} {
		d, err := ParseDirection(s)
		if err != nil || d != Backward {
			t.Errorf("ParseDirection(%q) = %v, %v", s, d, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestDirectionHelpers(t *testing.T) {
	if Forward.Opposite() != Backward || Backward.Opposite() != Forward {
		t.Error("Opposite is wrong")
	}
	if Forward.Sign() != 1 || Backward.Sign() != -1 {
		t.Error("Sign is wrong")
	}
	if Direction("X").IsValid() {
		t.Error("X should not be a valid direction")
	}
}
