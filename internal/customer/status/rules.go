// Package status derives strategy lifecycle states, the titling pathway
// percentage and the customer group from current field values.
//
// Everything here is pure domain logic: no I/O, no clock, no side effects.
package status

import (
	"math"

	"titling/internal/customer/models"
)

// DeriveStrategyStatus recomputes the lifecycle status of s.
// Rule priority (first match wins):
//  1. Manual override (On Hold, Rejected) is preserved
//  2. Completion, by type-specific evidence or all tasks done
//  3. Progress, by acceptance, tasks or type-specific evidence
//  4. Not started
func DeriveStrategyStatus(s models.CustomerStrategy) models.StrategyStatus {
	// Rule 1: operator decisions survive recomputation
	if s.Status.IsManualOverride() {
		return s.Status
	}

	// Rule 2: completion
	if isCompleted(s) {
		return models.StrategyStatusCompleted
	}

	// Rule 3: progress
	if isInProgress(s) {
		return models.StrategyStatusInProgress
	}

	return models.StrategyStatusNotStarted
}

func isCompleted(s models.CustomerStrategy) bool {
	if allTasksCompleted(s.Tasks) {
		return true
	}
	switch data := s.CustomData.(type) {
	case *models.STLData:
		return data.MontoPrestamo > 0 && data.ValidatedTotal() >= data.MontoPrestamo
	case *models.TLSData:
		last := models.LegalProcedures[len(models.LegalProcedures)-1]
		return data.Procedure(last).Status == models.ProcedureCompleted
	case *models.DPFIData:
		return data.LogroCredito
	case *models.TAIData, *models.GenericData, nil:
		return false
	default:
		return false
	}
}

func isInProgress(s models.CustomerStrategy) bool {
	if s.Accepted || len(s.Tasks) > 0 {
		return true
	}
	switch data := s.CustomData.(type) {
	case *models.STLData:
		if data.Expediente != "" || data.FirmoAdenda {
			return true
		}
		for _, a := range data.Abonos {
			if a.Realizado {
				return true
			}
		}
		return false
	case *models.TLSData:
		if data.ContactCount > 0 {
			return true
		}
		for _, ps := range data.ProcedureStatus {
			if ps.Status != models.ProcedureNotStarted {
				return true
			}
		}
		return false
	case *models.DPFIData:
		return data.FechaUltimoContacto != "" || data.Institucion != "" || data.LogroCredito
	case *models.TAIData, *models.GenericData, nil:
		return false
	default:
		return false
	}
}

func allTasksCompleted(tasks []models.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.IsCompleted {
			return false
		}
	}
	return true
}

// PathwayPercentage is round(100 * completed / 3) over the three titling
// procedures, so it only ever yields 0, 33, 67 or 100.
func PathwayPercentage(flags models.ProcedureFlags) int {
	count := 0
	for _, done := range []bool{flags.TituloPropiedad, flags.Deslinde, flags.PermisoConstruccion} {
		if done {
			count++
		}
	}
	return int(math.Round(100 * float64(count) / 3))
}

var groupByLegalStatus = map[models.LegalStatus]string{
	models.LegalStatusDeedDelivered:        "Grupo 1",
	models.LegalStatusSignedDeedInProgress: "Grupo 2",
	models.LegalStatusPendingSignature:     "Grupo 3",
	models.LegalStatusNoPayment:            "Grupo 4",
}

// GroupFor maps a legal status to its group label. ok is false for statuses
// without a mapping, in which case the caller keeps the current group.
func GroupFor(legal models.LegalStatus) (group string, ok bool) {
	group, ok = groupByLegalStatus[legal]
	return group, ok
}

// Recalculate refreshes every derived value on c in place: strategy
// statuses and the pathway percentage.
func Recalculate(c *models.Customer) {
	for i := range c.Strategies {
		c.Strategies[i].Status = DeriveStrategyStatus(c.Strategies[i])
	}
	c.PathwayToTitling = PathwayPercentage(c.ProcedureFlags())
}
