package handler

import (
	"strings"

	"titling/internal/customer/models"
	"titling/internal/customer/service"
	dErrors "titling/pkg/domain-errors"
)

// PotentialStrategiesRequest is the body of PUT /customers/{id}/potential-strategies.
type PotentialStrategiesRequest struct {
	StrategyIDs []string `json:"strategyIds"`
}

// ContratoATCRequest is the body of PUT /customers/{id}/contrato-atc.
type ContratoATCRequest struct {
	ContratoATC *bool `json:"contratoATC"`
}

func (r *ContratoATCRequest) Validate() error {
	if r.ContratoATC == nil {
		return dErrors.New(dErrors.CodeValidation, "contratoATC is required")
	}
	return nil
}

// ActivateStrategyRequest is the body of POST /customers/{id}/strategies.
type ActivateStrategyRequest struct {
	StrategyID string `json:"strategyId"`
}

func (r *ActivateStrategyRequest) Validate() error {
	r.StrategyID = strings.TrimSpace(r.StrategyID)
	if r.StrategyID == "" {
		return dErrors.New(dErrors.CodeValidation, "strategyId is required")
	}
	return nil
}

// StrategyStatusRequest is the body of PUT .../strategies/{strategyID}/status.
type StrategyStatusRequest struct {
	Status string `json:"status"`
}

func (r *StrategyStatusRequest) Validate() error {
	if !models.StrategyStatus(r.Status).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown strategy status: "+r.Status)
	}
	return nil
}

// CustomDataRequest is the body of PUT .../custom-data/{key}.
type CustomDataRequest struct {
	Value any `json:"value"`
}

// AddTaskRequest is the body of POST .../tasks. DetailsToMerge carries
// customer fields written together with the task.
type AddTaskRequest struct {
	service.NewTask
	DetailsToMerge service.DetailsPatch `json:"detailsToMerge,omitempty"`
}
