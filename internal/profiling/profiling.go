package profiling

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-frame CPU timing for pipeline stages.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
)

// Entry is one named total of the current frame.
type Entry struct {
	Name string
	Dur  time.Duration
}

func (e Entry) String() string { return e.Name + ":" + formatMs(e.Dur) }

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("pipeline.Extract")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame clears the totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return maps.Clone(frameTotals)
}

// SumWithPrefix totals every entry whose name starts with prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range frameTotals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// Sorted lists the current totals longest first, ties by name.
func Sorted() []Entry {
	ss := Snapshot()
	list := make([]Entry, 0, len(ss))
	for k, v := range ss {
		list = append(list, Entry{Name: k, Dur: v})
	}
	slices.SortFunc(list, func(a, b Entry) int {
		if c := cmp.Compare(b.Dur, a.Dur); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return list
}

// TopN formats the n longest totals.
// Example: "pipeline.Extract:4.2ms, pipeline.Evaluate:2.1ms"
func TopN(n int) string {
	list := Sorted()
	list = list[:max(0, min(n, len(list)))]
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0".
func formatMs(d time.Duration) string {
	tenths := d.Microseconds() / 100
	s := strconv.FormatInt(tenths/10, 10)
	if frac := tenths % 10; frac != 0 {
		s += "." + strconv.FormatInt(frac, 10)
	}
	return s + "ms"
}
