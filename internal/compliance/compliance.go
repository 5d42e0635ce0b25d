package compliance

import (
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	"github.com/shopspring/decimal"
)

const (
	timesheetSubject = "Timesheet Reminder: Incomplete Timesheets"
	approvalSubject  = "Timesheet Reminder: Pending Approvals"

	timesheetBody = "Dear friend,\n\n" +
		"You have not completed your timesheet within the past two weeks. " +
		"Please log in to %s to complete your timesheet.\n\n" +
		"This is an automated reminder."
	approvalBody = "Dear friend,\n\n" +
		"Your team has some time sheet records from the past two weeks that are waiting for your approval. " +
		"Please log in to %s to complete the process.\n\n" +
		"This is an automated reminder."
)

// Window is the inclusive range of days a compliance scan looks at: the two
// full weeks before the current one, Monday through Friday of the last.
type Window struct {
	Start time.Time
	End   time.Time
}

func WindowFor(today time.Time) Window {
	monday := workday.WeekStart(today)
	return Window{
		Start: monday.AddDate(0, 0, -14),
		End:   monday.AddDate(0, 0, -3),
	}
}

// Weekdays lists the Monday to Friday dates inside the window in order.
func (w Window) Weekdays() []time.Time {
	var out []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		if workday.IsWeekday(d) {
			out = append(out, d)
		}
	}
	return out
}

// Recipient is a user that can be reached by email.
type Recipient struct {
	UserID int64  `db:"id"`
	Email  string `db:"email"`
}

// DayTotal is the sum of one user's hours on one date.
type DayTotal struct {
	UserID int64           `db:"user_id"`
	Date   time.Time       `db:"date"`
	Hours  decimal.Decimal `db:"hours"`
}

// Result is what a scan reports back. Delivery failures land in Error rather
// than being returned.
type Result struct {
	Message  string `json:"message,omitempty"`
	Notified int    `json:"notified"`
	Error    string `json:"error,omitempty"`
}

// Status is a single user's standing for the current window.
type Status struct {
	Compliant           bool    `json:"compliant"`
	FirstIncompleteDate *string `json:"first_incomplete_date"`
}

type PendingApprovals struct {
	HasPending bool `json:"has_pending"`
}

// firstIncomplete returns the first weekday in days whose total is below a
// full work day.
func firstIncomplete(days []time.Time, totals map[time.Time]decimal.Decimal) (time.Time, bool) {
	for _, d := range days {
		if totals[d].LessThan(workday.DailyCap()) {
			return d, true
		}
	}
	return time.Time{}, false
}
