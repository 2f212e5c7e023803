package heightmap

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
)

// A tick is a labelled position along an axis.
type tick struct {
	value float64
	label string
}

// majorTicks returns the labelled ticks chosen by plot.DefaultTicks for the
// range lo..hi. If integer is true then only integer ticks are returned.
func majorTicks(lo, hi float64, integer bool) []tick {
	switch {
	case !isFinite(lo) || !isFinite(hi):
		return nil
	case hi < lo:
		lo, hi = hi, lo
	}
	switch {
	case hi == lo:
		if integer && lo != math.Round(lo) {
			return nil
		}
		return []tick{newTick(lo)}
	case !isFinite(hi - lo):
		return []tick{newTick(lo), newTick(hi)}
	}

	var ticks []tick
	for _, t := range (plot.DefaultTicks{}).Ticks(lo, hi) {
		if t.IsMinor() {
			continue
		}
		if !integer {
			ticks = append(ticks, tick{value: t.Value, label: trimNegativeZero(t.Label)})
			continue
		}
		value := math.Round(t.Value)
		if math.Abs(t.Value-value) > 1e-9*max(math.Abs(value), 1) {
			continue
		}
		ticks = append(ticks, newTick(value))
	}
	if len(ticks) == 0 && integer {
		if value := math.Ceil(lo); value <= hi {
			ticks = append(ticks, newTick(value))
		}
	}
	return ticks
}

func newTick(value float64) tick {
	if value == 0 {
		value = 0 // Avoid -0.
	}
	return tick{
		value: value,
		label: strconv.FormatFloat(value, 'g', -1, 64),
	}
}

// trimNegativeZero returns label without its sign if it is a formatted zero.
func trimNegativeZero(label string) string {
	if value, err := strconv.ParseFloat(label, 64); err == nil && value == 0 {
		return strings.TrimPrefix(label, "-")
	}
	return label
}
