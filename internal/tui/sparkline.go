package tui

import "strings"

var sparklineBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws health scores on a fixed 0..100 scale so the
// line stays comparable across refreshes. When the series is longer
// than width only the most recent values are drawn; shorter series are
// left padded with spaces.
func RenderSparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	var b strings.Builder
	for i := len(values); i < width; i++ {
		b.WriteByte(' ')
	}
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		idx := int(v / 100 * float64(len(sparklineBlocks)-1))
		if idx >= len(sparklineBlocks) {
			idx = len(sparklineBlocks) - 1
		}
		b.WriteRune(sparklineBlocks[idx])
	}
	return b.String()
}
