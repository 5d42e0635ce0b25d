package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventTypeTimesheetUpserted    = "timesheet.upserted"
	EventTypeTimesheetDayVerified = "timesheet.day_verified"
	EventTypeActivityRecorded     = "activity.recorded"
)

type TimesheetUpsertedEvent struct {
	BaseEvent
	ActorID     int64           `json:"actor_id"`
	TimesheetID int64           `json:"timesheet_id"`
	UserID      int64           `json:"user_id"`
	ProjectID   int64           `json:"project_id"`
	ProjectName string          `json:"project_name"`
	Hours       decimal.Decimal `json:"hours"`
	Date        time.Time       `json:"date"`
	Created     bool            `json:"created"`
}

func NewTimesheetUpsertedEvent(actorID, timesheetID, userID, projectID int64, projectName string, hours decimal.Decimal, date time.Time, created bool) *TimesheetUpsertedEvent {
	return &TimesheetUpsertedEvent{
		BaseEvent:   newBaseEvent(EventTypeTimesheetUpserted),
		ActorID:     actorID,
		TimesheetID: timesheetID,
		UserID:      userID,
		ProjectID:   projectID,
		ProjectName: projectName,
		Hours:       hours,
		Date:        date,
		Created:     created,
	}
}

type TimesheetDayVerifiedEvent struct {
	BaseEvent
	ActorID  int64     `json:"actor_id"`
	UserID   int64     `json:"user_id"`
	Date     time.Time `json:"date"`
	Verified int64     `json:"verified"`
}

func NewTimesheetDayVerifiedEvent(actorID, userID int64, date time.Time, verified int64) *TimesheetDayVerifiedEvent {
	return &TimesheetDayVerifiedEvent{
		BaseEvent: newBaseEvent(EventTypeTimesheetDayVerified),
		ActorID:   actorID,
		UserID:    userID,
		Date:      date,
		Verified:  verified,
	}
}

// ActivityRecordedEvent carries a ready-made audit line from services that
// have no dedicated event type (users, projects, calendar).
type ActivityRecordedEvent struct {
	BaseEvent
	ActorID int64  `json:"actor_id"`
	Action  string `json:"action"`
	Details string `json:"details"`
}

func NewActivityRecordedEvent(actorID int64, action, details string) *ActivityRecordedEvent {
	return &ActivityRecordedEvent{
		BaseEvent: newBaseEvent(EventTypeActivityRecorded),
		ActorID:   actorID,
		Action:    action,
		Details:   details,
	}
}

// Publisher is the subset of EventBus the services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
