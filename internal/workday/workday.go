package workday

import (
	"time"

	workdayDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/workday"
	"github.com/shopspring/decimal"
)

type DayType string

const (
	DayTypeWork    DayType = "WORK"
	DayTypeOff     DayType = "OFF"
	DayTypeHalfOff DayType = "HALF_OFF"
)

var (
	fullDayHours = decimal.NewFromInt(8)
	halfDayHours = decimal.NewFromInt(4)
)

func (d DayType) Valid() bool {
	switch d {
	case DayTypeWork, DayTypeOff, DayTypeHalfOff:
		return true
	}
	return false
}

// Allowance is the number of loggable hours a day of this type contributes
// to the weekly limit.
func (d DayType) Allowance() decimal.Decimal {
	switch d {
	case DayTypeWork:
		return fullDayHours
	case DayTypeHalfOff:
		return halfDayHours
	default:
		return decimal.Zero
	}
}

// DailyCap is the nominal hours of a full work day.
func DailyCap() decimal.Decimal {
	return fullDayHours
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	day := Date(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// IsWeekday reports whether t falls on Monday to Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// DefaultDayType is the calendar without exceptions: Monday to Friday are work
// days, weekends are off.
func DefaultDayType(t time.Time) DayType {
	if IsWeekday(t) {
		return DayTypeWork
	}
	return DayTypeOff
}

type WorkDay struct {
	Date    time.Time `json:"date"`
	DayType DayType   `json:"day_type"`
	Remark  string    `json:"remark"`
}

func (w *WorkDay) ToResponse() WorkDayResponse {
	return WorkDayResponse{
		Date:    w.Date.Format("2006-01-02"),
		DayType: string(w.DayType),
		Remark:  w.Remark,
	}
}

func ToDataModel(w *WorkDay) *workdayDatamodel.WorkDay {
	return &workdayDatamodel.WorkDay{
		Date:    Date(w.Date),
		DayType: string(w.DayType),
		Remark:  w.Remark,
	}
}

func FromDataModel(w *workdayDatamodel.WorkDay) *WorkDay {
	return &WorkDay{
		Date:    Date(w.Date),
		DayType: DayType(w.DayType),
		Remark:  w.Remark,
	}
}
