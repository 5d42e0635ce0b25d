package activitylog

import (
	"time"

	activitylogDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/activitylog"
)

const (
	ActionCreateTimesheet = "CREATE_TIMESHEET"
	ActionUpdateTimesheet = "UPDATE_TIMESHEET"
	ActionVerifyTimesheet = "VERIFY_TIMESHEET"
)

type ActivityLog struct {
	ID        int64
	UserID    int64
	Username  string
	Action    string
	Details   string
	Timestamp time.Time
}

func (a *ActivityLog) ToResponse() ActivityLogResponse {
	username := a.Username
	if username == "" {
		username = "Unknown"
	}
	return ActivityLogResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Username:  username,
		Action:    a.Action,
		Details:   a.Details,
		Timestamp: a.Timestamp,
	}
}

func ToDataModel(a *ActivityLog) *activitylogDatamodel.ActivityLog {
	return &activitylogDatamodel.ActivityLog{
		ID:        a.ID,
		UserID:    a.UserID,
		Action:    a.Action,
		Details:   a.Details,
		Timestamp: a.Timestamp,
	}
}

func FromEntry(e *activitylogDatamodel.Entry) *ActivityLog {
	return &ActivityLog{
		ID:        e.ID,
		UserID:    e.UserID,
		Username:  e.Username,
		Action:    e.Action,
		Details:   e.Details,
		Timestamp: e.Timestamp,
	}
}
