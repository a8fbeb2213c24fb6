package telegram_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kanbot/pkg/service/telegram"
)

func TestParseDueDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
		fails bool
	}{
		{
			name:  "afternoon",
			input: "15/02/2026 03:30 pm",
			want:  time.Date(2026, 2, 15, 15, 30, 0, 0, time.UTC),
		},
		{
			name:  "just after midnight",
			input: "15/02/2026 12:15 am",
			want:  time.Date(2026, 2, 15, 0, 15, 0, 0, time.UTC),
		},
		{
			name:  "noon",
			input: "15/02/2026 12:00 pm",
			want:  time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "uppercase meridiem",
			input: "01/12/2026 09:05 AM",
			want:  time.Date(2026, 12, 1, 9, 5, 0, 0, time.UTC),
		},
		{
			name:  "missing meridiem",
			input: "15/02/2026 03:30",
			fails: true,
		},
		{
			name:  "wrong separator",
			input: "2026-02-15 03:30 pm",
			fails: true,
		},
		{
			name:  "hour out of range",
			input: "15/02/2026 13:30 pm",
			fails: true,
		},
		{
			name:  "extra tokens",
			input: "15/02/2026 03:30 pm extra",
			fails: true,
		},
		{
			name:  "empty",
			input: "",
			fails: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := telegram.ParseDueDate(tc.input)
			if tc.fails {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Bool(t, got.Equal(tc.want)).True()
		})
	}
}
