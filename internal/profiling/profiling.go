package profiling

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Lightweight per-frame CPU profiler for tick-level insights.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	runTotals   = make(map[string]time.Duration)
	frames      int64
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		runTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	frames++
	mu.Unlock()
}

// Reset discards all recorded timings, including the run totals.
func Reset() {
	mu.Lock()
	clear(frameTotals)
	clear(runTotals)
	frames = 0
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// SumWithPrefix adds up the current frame totals whose name starts with prefix.
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

type entry struct {
	name string
	dur  time.Duration
}

func sorted(m map[string]time.Duration) []entry {
	list := make([]entry, 0, len(m))
	for k, v := range m {
		list = append(list, entry{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	return list
}

// TopN formats top N durations from the current frame totals.
// Example: "renderer.Render:4.2ms, renderer.bloom:2.1ms"
func TopN(n int) string {
	list := sorted(Snapshot())
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		parts = append(parts, e.name+":"+formatMs(e.dur))
	}
	return strings.Join(parts, ", ")
}

// Table writes the run totals and per-frame averages as a text table.
func Table(w io.Writer) {
	mu.Lock()
	list := sorted(runTotals)
	n := frames
	mu.Unlock()

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Section", "Total", "Avg/frame"})
	for _, e := range list {
		avg := "-"
		if n > 0 {
			avg = formatMs(e.dur / time.Duration(n))
		}
		table.Append([]string{e.name, formatMs(e.dur), avg})
	}
	table.SetFooter([]string{fmt.Sprintf("%d frames", n), "", ""})
	table.Render()
}

func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("%.1f", ms)
	return strings.TrimSuffix(s, ".0") + "ms"
}
