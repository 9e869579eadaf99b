package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreSeverity(t *testing.T) {
	cases := []struct {
		name    string
		score   int
		minimum int
		want    severity
	}{
		{"well above minimum", 99, 90, severityOK},
		{"exactly at warning edge", 95, 90, severityOK},
		{"just above minimum", 92, 90, severityWarn},
		{"at minimum", 90, 90, severityWarn},
		{"below minimum", 89, 90, severityBad},
		{"zero score", 0, 90, severityBad},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreSeverity(tc.score, tc.minimum))
		})
	}
}

func TestSeverityStyles(t *testing.T) {
	assert.Equal(t, statusOKStyle, severityOK.style())
	assert.Equal(t, statusWarnStyle, severityWarn.style())
	assert.Equal(t, statusBadStyle, severityBad.style())
}
