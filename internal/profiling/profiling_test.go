package profiling

import (
	"testing"
	"time"
)

func record(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	mu.Unlock()
}

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	stop := Track("pipeline.Evaluate")
	time.Sleep(time.Millisecond)
	stop()
	Track("pipeline.Evaluate")()

	snap := Snapshot()
	if snap["pipeline.Evaluate"] < time.Millisecond {
		t.Errorf("tracked %v, want at least 1ms", snap["pipeline.Evaluate"])
	}
	ResetFrame()
	if len(Snapshot()) != 0 {
		t.Errorf("ResetFrame left %v", Snapshot())
	}
}

func TestSumWithPrefix(t *testing.T) {
	ResetFrame()
	record("pipeline.Evaluate", 2*time.Millisecond)
	record("pipeline.Extract", 3*time.Millisecond)
	record("glfw.SwapBuffers", 5*time.Millisecond)
	if got := SumWithPrefix("pipeline."); got != 5*time.Millisecond {
		t.Errorf("SumWithPrefix = %v, want 5ms", got)
	}
}

func TestTopN(t *testing.T) {
	ResetFrame()
	record("a", 4200*time.Microsecond)
	record("b", 2*time.Millisecond)
	record("c", 100*time.Microsecond)
	if got, want := TopN(2), "a:4.2ms, b:2ms"; got != want {
		t.Errorf("TopN(2) = %q, want %q", got, want)
	}
	if got, want := TopN(10), "a:4.2ms, b:2ms, c:0.1ms"; got != want {
		t.Errorf("TopN(10) = %q, want %q", got, want)
	}
}

func TestTopNNonPositive(t *testing.T) {
	ResetFrame()
	record("a", time.Millisecond)
	for _, n := range []int{0, -1, -100} {
		if got := TopN(n); got != "" {
			t.Errorf("TopN(%d) = %q, want empty", n, got)
		}
	}
}

func TestSortedBreaksTiesByName(t *testing.T) {
	ResetFrame()
	record("pipeline.Extract", time.Millisecond)
	record("pipeline.Evaluate", time.Millisecond)
	record("pipeline.Draw", 3*time.Millisecond)

	got := Sorted()
	want := []string{"pipeline.Draw", "pipeline.Evaluate", "pipeline.Extract"}
	if len(got) != len(want) {
		t.Fatalf("Sorted() = %v", got)
	}
	for i, e := range got {
		if e.Name != want[i] {
			t.Errorf("Sorted()[%d] = %s, want %s", i, e.Name, want[i])
		}
	}
	if s := got[0].String(); s != "pipeline.Draw:3ms" {
		t.Errorf("Entry.String() = %q", s)
	}
}
