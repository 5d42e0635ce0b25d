package activitylog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
)

// EventHandler turns domain events into audit rows.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleTimesheetUpserted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TimesheetUpsertedEvent)
	if !ok {
		h.logger.Error("invalid event type for timesheet upserted handler", "event_type", event.EventType())
		return fmt.Errorf("expected TimesheetUpsertedEvent, got %T", event)
	}

	action, verb := ActionUpdateTimesheet, "Updated"
	if e.Created {
		action, verb = ActionCreateTimesheet, "Logged"
	}

	return h.service.Record(ctx, &ActivityLog{
		UserID:    e.ActorID,
		Action:    action,
		Details:   fmt.Sprintf("%s %sh for project '%s' (ID: %d) on %s", verb, e.Hours.String(), e.ProjectName, e.ProjectID, e.Date.Format("2006-01-02")),
		Timestamp: e.OccurredAt(),
	})
}

func (h *EventHandler) HandleTimesheetDayVerified(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TimesheetDayVerifiedEvent)
	if !ok {
		h.logger.Error("invalid event type for day verified handler", "event_type", event.EventType())
		return fmt.Errorf("expected TimesheetDayVerifiedEvent, got %T", event)
	}

	return h.service.Record(ctx, &ActivityLog{
		UserID:    e.ActorID,
		Action:    ActionVerifyTimesheet,
		Details:   fmt.Sprintf("Verified %d entries for user %d on %s", e.Verified, e.UserID, e.Date.Format("2006-01-02")),
		Timestamp: e.OccurredAt(),
	})
}

func (h *EventHandler) HandleActivityRecorded(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ActivityRecordedEvent)
	if !ok {
		h.logger.Error("invalid event type for activity handler", "event_type", event.EventType())
		return fmt.Errorf("expected ActivityRecordedEvent, got %T", event)
	}

	return h.service.Record(ctx, &ActivityLog{
		UserID:    e.ActorID,
		Action:    e.Action,
		Details:   e.Details,
		Timestamp: e.OccurredAt(),
	})
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeTimesheetUpserted, h.HandleTimesheetUpserted)
	eventBus.Subscribe(events.EventTypeTimesheetDayVerified, h.HandleTimesheetDayVerified)
	eventBus.Subscribe(events.EventTypeActivityRecorded, h.HandleActivityRecorded)

	h.logger.Info("activity log event handlers registered",
		"handlers", []string{events.EventTypeTimesheetUpserted, events.EventTypeTimesheetDayVerified, events.EventTypeActivityRecorded})
}
