package handler

import (
	"time"

	"titling/internal/customer/models"
	"titling/internal/customer/service"
	"titling/internal/sheets"
)

// ListResponse is the body of GET /customers.
type ListResponse struct {
	Customers []models.Customer `json:"customers"`
	State     service.State     `json:"state"`
	LastSync  *time.Time        `json:"lastSync,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// CountResponse reports rows affected by a CSV upload. A negative count
// means the persistence API did not report one.
type CountResponse struct {
	Count int `json:"count"`
}

func newListResponse(customers []models.Customer, state service.State, stateErr error, lastSync time.Time) ListResponse {
	resp := ListResponse{Customers: customers, State: state}
	if !lastSync.IsZero() {
		resp.LastSync = &lastSync
	}
	if stateErr != nil {
		resp.Error = sheets.UserMessage(stateErr)
	}
	return resp
}
