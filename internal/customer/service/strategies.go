package service

import (
	"context"
	"reflect"
	"time"

	"titling/internal/customer/models"
	"titling/internal/customer/status"
	dErrors "titling/pkg/domain-errors"
)

// ActivateStrategy starts tracking a catalog strategy for the customer with
// the strategy's default payload. A strategy can be active only once, and
// the technical assistance incentive needs a signed ATC contract.
func (s *Service) ActivateStrategy(ctx context.Context, customerID, strategyID string) (models.Customer, error) {
	def, ok := models.LookupStrategy(strategyID)
	if !ok {
		return models.Customer{}, unknownStrategy(strategyID)
	}
	return s.mutate(ctx, "activate_strategy", customerID, func(_ models.Customer, next *models.Customer, now time.Time) ([]models.ChangeLogEntry, error) {
		if _, exists := next.Strategy(def.ID); exists {
			return nil, dErrors.New(dErrors.CodeConflict, "La estrategia \""+def.Name+"\" ya está activa para este cliente.")
		}
		if def.Kind == models.KindTechnicalAssistanceIncentive && !next.ContratoATC {
			return nil, dErrors.New(dErrors.CodeValidation, "Para activar \""+def.Name+"\" primero debe registrarse el contrato ATC.")
		}
		next.Strategies = append(next.Strategies, models.NewCustomerStrategy(def.ID, now))
		return []models.ChangeLogEntry{s.recorder.StrategyActivated(def.ID)}, nil
	})
}

// UpdateStrategy edits the offer fields of an active strategy. Toggling
// acceptance is recorded in the history.
func (s *Service) UpdateStrategy(ctx context.Context, customerID, strategyID string, patch StrategyPatch) (models.Customer, error) {
	if err := patch.validate(); err != nil {
		return models.Customer{}, err
	}
	return s.mutate(ctx, "update_strategy", customerID, func(_ models.Customer, next *models.Customer, now time.Time) ([]models.ChangeLogEntry, error) {
		strategy, err := activeStrategy(next, strategyID)
		if err != nil {
			return nil, err
		}
		wasAccepted := strategy.Accepted
		patch.apply(strategy)
		strategy.LastUpdate = models.Timestamp(now)

		var entries []models.ChangeLogEntry
		if strategy.Accepted != wasAccepted {
			entries = append(entries, s.recorder.StrategyAcceptance(strategyID, strategy.Accepted))
		}
		return entries, nil
	})
}

// SetStrategyStatus applies an operator decision: pausing, rejecting, or
// reactivating a paused or rejected strategy. Reactivation hands the status
// back to derivation, so the stored result may be any derived status.
func (s *Service) SetStrategyStatus(ctx context.Context, customerID, strategyID string, target models.StrategyStatus) (models.Customer, error) {
	return s.mutate(ctx, "set_strategy_status", customerID, func(_ models.Customer, next *models.Customer, _ time.Time) ([]models.ChangeLogEntry, error) {
		strategy, err := activeStrategy(next, strategyID)
		if err != nil {
			return nil, err
		}
		previous := strategy.Status
		switch {
		case target.IsManualOverride():
			strategy.Status = target
		case target == models.StrategyStatusInProgress && previous.IsManualOverride():
			strategy.Status = target
			strategy.Status = status.DeriveStrategyStatus(*strategy)
		default:
			return nil, dErrors.New(dErrors.CodeValidation,
				"No se puede cambiar el estatus de \""+models.StrategyName(strategyID)+"\" a \""+string(target)+"\" manualmente.")
		}

		var entries []models.ChangeLogEntry
		if strategy.Status != previous {
			entries = append(entries, s.recorder.StrategyStatusChanged(strategyID, strategy.Status))
		}
		return entries, nil
	})
}

// UpdateStrategyCustomData sets one field of a strategy's payload. Keys follow
// the CSV naming: plain field names, abono_<n>_<field> for loan installments
// and <procedure>_status or <procedure>_subStatus for legal procedures.
func (s *Service) UpdateStrategyCustomData(ctx context.Context, customerID, strategyID, key string, value any) (models.Customer, error) {
	return s.mutate(ctx, "update_strategy_custom_data", customerID, func(_ models.Customer, next *models.Customer, now time.Time) ([]models.ChangeLogEntry, error) {
		strategy, err := activeStrategy(next, strategyID)
		if err != nil {
			return nil, err
		}
		if strategy.CustomData == nil {
			strategy.CustomData = models.NewCustomData(strategyID)
		}
		if _, isTLS := strategy.CustomData.(*models.TLSData); isTLS {
			if proc, _, ok := models.ParseProcedureKey(key); ok && !models.IsLegalProcedure(proc) {
				return nil, dErrors.New(dErrors.CodeValidation, "Trámite desconocido: "+proc)
			}
		}
		before := models.CustomDataValue(strategy.CustomData, key)
		if !strategy.CustomData.Set(key, value) {
			return nil, dErrors.New(dErrors.CodeValidation,
				"Campo desconocido \""+key+"\" en la estrategia \""+models.StrategyName(strategyID)+"\".")
		}
		strategy.LastUpdate = models.Timestamp(now)

		var entries []models.ChangeLogEntry
		if !reflect.DeepEqual(before, models.CustomDataValue(strategy.CustomData, key)) {
			entries = append(entries, s.recorder.StrategyDetailUpdated(strategyID))
		}
		return entries, nil
	})
}

// AddTask appends a pending task to an active strategy. detailsToMerge, if
// any, is applied to the customer in the same write without its own history
// entries.
func (s *Service) AddTask(ctx context.Context, customerID, strategyID string, task NewTask, detailsToMerge DetailsPatch) (models.Customer, error) {
	if err := task.validate(); err != nil {
		return models.Customer{}, err
	}
	if len(detailsToMerge) > 0 {
		if err := detailsToMerge.validate(); err != nil {
			return models.Customer{}, err
		}
	}
	return s.mutate(ctx, "add_task", customerID, func(_ models.Customer, next *models.Customer, now time.Time) ([]models.ChangeLogEntry, error) {
		strategy, err := activeStrategy(next, strategyID)
		if err != nil {
			return nil, err
		}
		entry := s.appendTask(strategy, task, now)
		detailsToMerge.apply(next)
		return []models.ChangeLogEntry{entry}, nil
	})
}

func (s *Service) appendTask(strategy *models.CustomerStrategy, task NewTask, now time.Time) models.ChangeLogEntry {
	strategy.Tasks = append(strategy.Tasks, models.Task{
		ID:          s.newTaskID(),
		Description: task.Description,
		DueDate:     task.DueDate,
		AssignedTo:  task.AssignedTo,
	})
	strategy.LastUpdate = models.Timestamp(now)
	return s.recorder.TaskAdded(strategy.StrategyID, task.Description)
}

// UpdateTask edits a task. Toggling completion is recorded in the history.
func (s *Service) UpdateTask(ctx context.Context, customerID, strategyID, taskID string, patch TaskPatch) (models.Customer, error) {
	if err := patch.validate(); err != nil {
		return models.Customer{}, err
	}
	return s.mutate(ctx, "update_task", customerID, func(_ models.Customer, next *models.Customer, now time.Time) ([]models.ChangeLogEntry, error) {
		strategy, err := activeStrategy(next, strategyID)
		if err != nil {
			return nil, err
		}
		task, ok := strategy.Task(taskID)
		if !ok {
			return nil, dErrors.New(dErrors.CodeNotFound, "Tarea no encontrada: "+taskID)
		}
		oldDescription, wasCompleted := task.Description, task.IsCompleted
		patch.apply(task)
		strategy.LastUpdate = models.Timestamp(now)

		var entries []models.ChangeLogEntry
		if task.IsCompleted != wasCompleted {
			entries = append(entries, s.recorder.TaskToggled(strategyID, oldDescription, task.IsCompleted))
		}
		return entries, nil
	})
}

func activeStrategy(c *models.Customer, strategyID string) (*models.CustomerStrategy, error) {
	strategy, ok := c.Strategy(strategyID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound,
			"La estrategia \""+models.StrategyName(strategyID)+"\" no está activa para este cliente.")
	}
	return strategy, nil
}
