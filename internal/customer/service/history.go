package service

import (
	"context"

	"titling/internal/customer/models"
	audit "titling/pkg/platform/audit"
)

func toEvents(customerID string, entries []models.ChangeLogEntry) []audit.Event {
	events := make([]audit.Event, len(entries))
	for i, e := range entries {
		events[i] = audit.Event{
			CustomerID:  customerID,
			Timestamp:   e.Timestamp,
			User:        e.User,
			Description: e.Description,
		}
	}
	return events
}

func toEntries(events []audit.Event) []models.ChangeLogEntry {
	entries := make([]models.ChangeLogEntry, len(events))
	for i, e := range events {
		entries[i] = models.ChangeLogEntry{Timestamp: e.Timestamp, User: e.User, Description: e.Description}
	}
	return entries
}

// HistoryLogger is the LOG_HISTORY side of the persistence API.
type HistoryLogger interface {
	LogHistory(ctx context.Context, customerID string, logs any) error
}

// HistoryDeliverer resubmits queued change-log batches through LOG_HISTORY.
// It satisfies the retry worker's Deliverer.
type HistoryDeliverer struct {
	logger HistoryLogger
}

func NewHistoryDeliverer(logger HistoryLogger) *HistoryDeliverer {
	return &HistoryDeliverer{logger: logger}
}

func (d *HistoryDeliverer) Deliver(ctx context.Context, batch audit.Batch) error {
	return d.logger.LogHistory(ctx, batch.CustomerID, toEntries(batch.Events))
}
