package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"titling/internal/customer/models"
	"titling/internal/customer/status"
	dErrors "titling/pkg/domain-errors"
	"titling/pkg/platform/sentinel"
	pkgstrings "titling/pkg/platform/strings"
)

// UpdateDetails edits customer-level fields. Each field that actually
// changes gets its own history entry; a legal status with a group mapping
// also moves the customer to that group.
func (s *Service) UpdateDetails(ctx context.Context, customerID string, patch DetailsPatch) (models.Customer, error) {
	if err := patch.validate(); err != nil {
		return models.Customer{}, err
	}
	return s.mutate(ctx, "update_details", customerID, func(current models.Customer, next *models.Customer, _ time.Time) ([]models.ChangeLogEntry, error) {
		return s.applyDetails(current, next, patch), nil
	})
}

func (s *Service) applyDetails(current models.Customer, next *models.Customer, patch DetailsPatch) []models.ChangeLogEntry {
	patch.apply(next)
	keys := make([]string, 0, len(patch))
	for _, key := range DetailKeys {
		if _, ok := patch[key]; ok {
			keys = append(keys, key)
		}
	}
	entries := s.recorder.Diff(keys, current.Get, next.Get)

	if _, ok := patch["legalStatus"]; ok {
		if group, mapped := status.GroupFor(next.LegalStatus); mapped {
			if current.Group != group {
				entries = append(entries, s.recorder.GroupChanged(group))
			}
			next.Group = group
		}
	}
	return entries
}

// UpdateBasicInfo merges fields into the intake sheet.
func (s *Service) UpdateBasicInfo(ctx context.Context, customerID string, patch BasicInfoPatch) (models.Customer, error) {
	if err := patch.validate(); err != nil {
		return models.Customer{}, err
	}
	return s.mutate(ctx, "update_basic_info", customerID, func(_ models.Customer, next *models.Customer, _ time.Time) ([]models.ChangeLogEntry, error) {
		patch.apply(&next.BasicInfo)
		return []models.ChangeLogEntry{s.recorder.BasicInfoUpdated()}, nil
	})
}

// UpdatePotentialStrategies replaces the set of strategies the customer
// might adopt. Ids are trimmed and deduplicated; unknown ids are rejected.
func (s *Service) UpdatePotentialStrategies(ctx context.Context, customerID string, strategyIDs []string) (models.Customer, error) {
	ids := pkgstrings.DedupeAndTrim(strategyIDs)
	if ids == nil {
		ids = []string{}
	}
	for _, id := range ids {
		if _, ok := models.LookupStrategy(id); !ok {
			return models.Customer{}, unknownStrategy(id)
		}
	}
	return s.mutate(ctx, "update_potential_strategies", customerID, func(_ models.Customer, next *models.Customer, _ time.Time) ([]models.ChangeLogEntry, error) {
		next.PotentialStrategies = ids
		return []models.ChangeLogEntry{s.recorder.PotentialStrategiesUpdated()}, nil
	})
}

// ATC visit task added when a technical assistance contract is signed.
const (
	atcVisitDescription = "Realizar visita inicial de Asistencia Técnica"
	atcVisitAssignee    = "Equipo Técnico"
	atcVisitMarker      = "Asistencia Técnica"
	atcVisitLeadDays    = 7
)

// SetContratoATC records whether the technical assistance contract is
// signed. Signing it on a customer whose TAI strategy has no visit task yet
// schedules the initial visit a week out in the same write.
func (s *Service) SetContratoATC(ctx context.Context, customerID string, signed bool) (models.Customer, error) {
	return s.mutate(ctx, "set_contrato_atc", customerID, func(current models.Customer, next *models.Customer, now time.Time) ([]models.ChangeLogEntry, error) {
		if signed {
			if tai, ok := next.Strategy(models.StrategyTAI); ok && !hasVisitTask(tai) {
				next.ContratoATC = true
				task := NewTask{
					Description: atcVisitDescription,
					DueDate:     now.UTC().AddDate(0, 0, atcVisitLeadDays).Format(time.DateOnly),
					AssignedTo:  atcVisitAssignee,
				}
				return []models.ChangeLogEntry{s.appendTask(tai, task, now)}, nil
			}
		}
		return s.applyDetails(current, next, DetailsPatch{"contratoATC": signed}), nil
	})
}

func hasVisitTask(s *models.CustomerStrategy) bool {
	for _, t := range s.Tasks {
		if strings.Contains(t.Description, atcVisitMarker) {
			return true
		}
	}
	return false
}

// DeleteCustomer removes the customer locally and then remotely. A failed
// remote delete refetches the collection.
func (s *Service) DeleteCustomer(ctx context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	const op = "delete_customer"
	if err := s.repo.Remove(customerID); err != nil {
		s.metrics.IncrementMutation(op, "rejected")
		return notFound(err)
	}
	s.metrics.SetCustomers(s.repo.Len())

	if err := s.store.DeleteCustomer(ctx, customerID); err != nil {
		s.metrics.IncrementMutation(op, "failed")
		s.logger.Warn("deleting customer failed, refetching", zap.String("customer_id", customerID), zap.Error(err))
		_ = s.reload(ctx, "write_failure")
		return writeError(err, msgDeleteFailed)
	}
	s.repo.Synced(s.now())
	s.metrics.IncrementMutation(op, "ok")
	s.logger.Info("customer deleted", zap.String("customer_id", customerID))
	return nil
}

func unknownStrategy(id string) error {
	return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeValidation, "Estrategia desconocida: "+id)
}
