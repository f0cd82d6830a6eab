package dates_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/utils/dates"
)

func TestParse(t *testing.T) {
	t.Run("all three formats yield the same calendar date", func(t *testing.T) {
		inputs := []string{"2024-01-15", "15/01/2024", "15 Jan 2024"}
		want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

		for _, input := range inputs {
			got, ok := dates.Parse(input)
			gt.True(t, ok)
			gt.Equal(t, got.Year(), want.Year())
			gt.Equal(t, got.Month(), want.Month())
			gt.Equal(t, got.Day(), want.Day())
		}
	})

	t.Run("ISO date-time", func(t *testing.T) {
		got, ok := dates.Parse("2024-01-15T09:30:00Z")
		gt.True(t, ok)
		gt.Equal(t, got.Day(), 15)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, input := range []string{"not a date", "", "  ", "32/01/2024", "15 January 2024", "1/1/2024"} {
			_, ok := dates.Parse(input)
			gt.False(t, ok)
		}
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "absent value", input: "", want: "Not specified"},
		{name: "garbage", input: "garbage", want: "Invalid date"},
		{name: "ISO date", input: "2024-01-15", want: "15 Jan 2024"},
		{name: "slash date", input: "15/01/2024", want: "15 Jan 2024"},
		{name: "already display format", input: "15 Jan 2024", want: "15 Jan 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, dates.Format(tt.input), tt.want)
		})
	}
}

func TestToInputValue(t *testing.T) {
	gt.Equal(t, dates.ToInputValue("15 Jan 2024"), "2024-01-15")
	gt.Equal(t, dates.ToInputValue("15/01/2024"), "2024-01-15")
	gt.Equal(t, dates.ToInputValue("garbage"), "")
	gt.Equal(t, dates.ToInputValue(""), "")
}

func TestRelativeTimeAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		daysAgo int
		want    string
	}{
		{name: "one day", daysAgo: 1, want: "1 day ago"},
		{name: "under a week", daysAgo: 6, want: "6 days ago"},
		{name: "ten days buckets to weeks", daysAgo: 10, want: "1 weeks ago"},
		{name: "four weeks", daysAgo: 29, want: "4 weeks ago"},
		{name: "forty days buckets to months", daysAgo: 40, want: "1 months ago"},
		{name: "eleven months", daysAgo: 340, want: "11 months ago"},
		{name: "over a year", daysAgo: 400, want: "1 years ago"},
		{name: "several years", daysAgo: 1100, want: "3 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := now.AddDate(0, 0, -tt.daysAgo).Format("2006-01-02")
			gt.Equal(t, dates.RelativeTimeAt(input, now), tt.want)
		})
	}

	t.Run("future dates use absolute distance", func(t *testing.T) {
		input := now.AddDate(0, 0, 10).Format("2006-01-02")
		gt.Equal(t, dates.RelativeTimeAt(input, now), "1 weeks ago")
	})

	t.Run("parse failure yields empty string", func(t *testing.T) {
		gt.Equal(t, dates.RelativeTimeAt("garbage", now), "")
	})
}
