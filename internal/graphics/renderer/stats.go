package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// PassTime is the CPU time spent issuing one pass.
type PassTime struct {
	Pass     string
	Duration time.Duration
}

// Stats describes the last rendered frame.
type Stats struct {
	Frame          uint64
	RegularObjects int
	DebugObjects   int
	PointLights    int
	TerrainDrawn   bool
	ShadowSkipped  bool
	ShadowCasters  int
	BlurPasses     int
	BloomTarget    int
	Passes         []PassTime
	Total          time.Duration
}

// Table renders the per-pass timings of s as a text table.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Time", "% of frame"})
	for _, p := range s.Passes {
		pct := 0.0
		if s.Total > 0 {
			pct = 100 * float64(p.Duration) / float64(s.Total)
		}
		table.Append([]string{p.Pass, p.Duration.String(), fmt.Sprintf("%02.1f %%", pct)})
	}
	table.SetFooter([]string{fmt.Sprintf("frame %d", s.Frame), s.Total.String(), ""})
	table.Render()
	return buf.String()
}
