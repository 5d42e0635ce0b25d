package workday

import (
	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
)

type SetWorkDayDTO struct {
	Date    string `json:"date"`
	DayType string `json:"day_type"`
	Remark  string `json:"remark"`
}

func (d SetWorkDayDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("date", d.Date).Required().Date()
	v.Field("day_type", d.DayType).Required().OneOf(string(DayTypeWork), string(DayTypeOff), string(DayTypeHalfOff))
	v.Field("remark", d.Remark).MaxLength(255)
	return v.Validate()
}

type WorkDayResponse struct {
	Date    string `json:"date"`
	DayType string `json:"day_type"`
	Remark  string `json:"remark"`
}

type WorkDaysResponse struct {
	WorkDays []WorkDayResponse `json:"work_days"`
}
