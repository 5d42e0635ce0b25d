package timesheet

import (
	"time"

	timesheetDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/timesheet"
	"github.com/shopspring/decimal"
)

type Timesheet struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	ProjectID int64           `json:"project_id"`
	Date      time.Time       `json:"date"`
	Hours     decimal.Decimal `json:"hours"`
	Verify    bool            `json:"verify"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Entry is a candidate write for one (user, project, date) key.
type Entry struct {
	UserID    int64
	ProjectID int64
	Date      time.Time
	Hours     decimal.Decimal
	Verify    bool
}

func (t *Timesheet) ToResponse() TimesheetResponse {
	return TimesheetResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		ProjectID: t.ProjectID,
		Date:      t.Date.Format("2006-01-02"),
		Hours:     t.Hours,
		Verify:    t.Verify,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func ToDataModel(t *Timesheet) *timesheetDatamodel.Timesheet {
	return &timesheetDatamodel.Timesheet{
		ID:        t.ID,
		UserID:    t.UserID,
		ProjectID: t.ProjectID,
		Date:      t.Date,
		Hours:     t.Hours,
		Verify:    t.Verify,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromDataModel(t *timesheetDatamodel.Timesheet) *Timesheet {
	return &Timesheet{
		ID:        t.ID,
		UserID:    t.UserID,
		ProjectID: t.ProjectID,
		Date:      t.Date,
		Hours:     t.Hours,
		Verify:    t.Verify,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// VerifyResult reports the outcome of verifying one user's day.
type VerifyResult struct {
	UserID     int64           `json:"user_id"`
	Date       string          `json:"date"`
	TotalHours decimal.Decimal `json:"total_hours"`
	Verified   int64           `json:"verified"`
}

// ListFilter narrows a timesheet listing. Zero values are ignored.
type ListFilter struct {
	UserIDs   []int64
	ProjectID int64
	From      time.Time
	To        time.Time
	Offset    int
	Limit     int
}
