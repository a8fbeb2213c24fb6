package telegram

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// dueDateLayout accepts exactly "DD/MM/YYYY hh:mm am|pm" in 12-hour time
const dueDateLayout = "02/01/2006 03:04 pm"

// ParseDueDate interprets the due-date text contract: three
// whitespace-separated tokens, date, 12-hour time, and meridiem. 12am maps
// to midnight and 12pm to noon.
func ParseDueDate(s string) (time.Time, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return time.Time{}, goerr.New("due date needs date, time and am/pm", goerr.V("input", s))
	}

	t, err := time.Parse(dueDateLayout, strings.ToLower(strings.Join(fields, " ")))
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "malformed due date", goerr.V("input", s))
	}
	return t, nil
}
