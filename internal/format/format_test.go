package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"zero", 0, "0.0%"},
		{"one_decimal", 34.5, "34.5%"},
		{"rounds", 99.96, "100.0%"},
		{"over_hundred", 120.0, "120.0%"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatPercent(tc.input))
		})
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  string
	}{
		{"zero", 0, "0"},
		{"small", 999, "999"},
		{"one_thousand", 1000, "1,000"},
		{"millions", 12345678, "12,345,678"},
		{"negative", -4321, "-4,321"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatCount(tc.input))
		})
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{"zero", 0, "<1m"},
		{"seconds", 45 * time.Second, "<1m"},
		{"minutes", 45 * time.Minute, "45m"},
		{"hours", 3*time.Hour + 20*time.Minute, "3h"},
		{"just_under_a_day", 23 * time.Hour, "23h"},
		{"days", 12*24*time.Hour + 6*time.Hour, "12d"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatAge(tc.input))
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces", "show running-config", "show-running-config"},
		{"mixed_case", "Show Version", "show-version"},
		{"punctuation_run", "show ip route | include 0.0.0.0", "show-ip-route-include-0-0-0-0"},
		{"leading_trailing", "  show clock  ", "show-clock"},
		{"empty", "", ""},
		{"only_symbols", "***", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slug(tc.input))
		})
	}
}
