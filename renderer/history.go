package renderer

import (
	"fmt"
	"strings"

	"github.com/atlasapp/atlas"
)

// HistoryMarkdown renders the portfolio value series with the change
// since the first sample of the window.
func HistoryMarkdown(values []atlas.ValuePoint, r atlas.Range) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio Value (%s)\n\n", r)
	if len(values) == 0 {
		fmt.Fprintln(&b, "No priced holdings in this range.")
		return b.String()
	}

	first, last := values[0].Value, values[len(values)-1].Value
	fmt.Fprintf(&b, "Latest: %s", usd(last))
	if first != 0 {
		fmt.Fprintf(&b, " (%s over the range)", pct((last-first)/first*100))
	}
	fmt.Fprintf(&b, "\n\n")

	fmt.Fprintln(&b, "| Date | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, v := range values {
		fmt.Fprintf(&b, "| %s | %s |\n", day(v.TS), usd(v.Value))
	}
	return b.String()
}

// ReturnsMarkdown renders the capital-normalized return series.
func ReturnsMarkdown(series []atlas.ReturnPoint, r atlas.Range) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Returns (%s)\n\n", r)
	if len(series) == 0 {
		fmt.Fprintln(&b, "No return samples in this range.")
		return b.String()
	}

	fmt.Fprintf(&b, "Latest: %s\n\n", pct(series[len(series)-1].Pct))
	fmt.Fprintln(&b, "| Date | Return |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, p := range series {
		fmt.Fprintf(&b, "| %s | %s |\n", day(p.TS), pct(p.Pct))
	}
	return b.String()
}

// AllocationMarkdown renders each long position's share of the current
// portfolio value.
func AllocationMarkdown(segments []atlas.AllocationSegment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Allocation\n\n")
	if len(segments) == 0 {
		fmt.Fprintln(&b, "No long positions to allocate.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Value | Share | Color |")
	fmt.Fprintln(&b, "|:---|---:|---:|:---|")
	for _, s := range segments {
		fmt.Fprintf(&b, "| %s | %s | %.2f%% | %s |\n", s.Symbol, usd(s.Value), s.Pct, s.Color)
	}
	return b.String()
}
