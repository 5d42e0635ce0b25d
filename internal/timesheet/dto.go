package timesheet

import (
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

var maxEntryHours = decimal.NewFromInt(24)

type UpsertTimesheetDTO struct {
	UserID    int64           `json:"user_id"`
	ProjectID int64           `json:"project_id"`
	Date      string          `json:"date"`
	Hours     decimal.Decimal `json:"hours"`
	Verify    bool            `json:"verify"`
}

func (d UpsertTimesheetDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("project_id", d.ProjectID).Required()
	v.Field("date", d.Date).Required().Date()
	v.Field("hours", d.Hours).DecimalRange(decimal.Zero, maxEntryHours, internal.ErrCodeInvalidHours)
	return v.Validate()
}

// ToEntry validates the DTO and converts it; a missing user_id means the
// caller is logging for themselves.
func (d UpsertTimesheetDTO) ToEntry(actorID int64) (Entry, *internal.AppError) {
	if err := d.Validate(); err != nil {
		return Entry{}, err
	}
	date, err := validation.ParseDate("date", d.Date)
	if err != nil {
		return Entry{}, err
	}
	userID := d.UserID
	if userID == 0 {
		userID = actorID
	}
	return Entry{
		UserID:    userID,
		ProjectID: d.ProjectID,
		Date:      date,
		Hours:     d.Hours.Round(2),
		Verify:    d.Verify,
	}, nil
}

type BatchUpsertDTO struct {
	Entries []UpsertTimesheetDTO `json:"entries"`
}

type VerifyDayDTO struct {
	UserID int64  `json:"user_id"`
	Date   string `json:"date"`
}

func (d VerifyDayDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("user_id", d.UserID).Required()
	v.Field("date", d.Date).Required().Date()
	return v.Validate()
}

type TimesheetResponse struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	ProjectID int64           `json:"project_id"`
	Date      string          `json:"date"`
	Hours     decimal.Decimal `json:"hours"`
	Verify    bool            `json:"verify"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type TimesheetsResponse struct {
	Timesheets []TimesheetResponse `json:"timesheets"`
}
