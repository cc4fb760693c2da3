package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"titling/internal/customer/csvcodec"
	"titling/internal/customer/models"
	"titling/internal/customer/status"
	dErrors "titling/pkg/domain-errors"
)

// CSVSummary reports the outcome of a local bulk update.
type CSVSummary struct {
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}

const msgEmptyCSV = "El archivo CSV está vacío."

// ExportCSV renders every customer in the export layout.
func (s *Service) ExportCSV() string {
	return csvcodec.Export(s.repo.List())
}

// ImportCustomersCSV hands new customers to the persistence API, which
// parses the file itself, and refetches the collection. The count is the
// one the API reports, or -1 when it reports none.
func (s *Service) ImportCustomersCSV(ctx context.Context, csv string) (int, error) {
	return s.remoteCSV(ctx, "import_csv", csv, s.store.AddCustomersFromCSV)
}

// RemoteUpdateCustomersCSV sends the file to the persistence API's own
// updater. Unlike UpdateCustomersFromCSV no local routing takes place.
func (s *Service) RemoteUpdateCustomersCSV(ctx context.Context, csv string) (int, error) {
	return s.remoteCSV(ctx, "remote_update_csv", csv, s.store.UpdateCustomersFromCSV)
}

func (s *Service) remoteCSV(ctx context.Context, op, csv string, call func(context.Context, string) (int, error)) (int, error) {
	if strings.TrimSpace(csv) == "" {
		return 0, dErrors.New(dErrors.CodeValidation, msgEmptyCSV)
	}
	count, err := call(ctx, csv)
	if err != nil {
		s.metrics.IncrementMutation(op, "failed")
		s.logger.Warn("csv upload failed", zap.String("operation", op), zap.Error(err))
		return 0, writeError(err, "Error al procesar el archivo CSV. Revise el formato del CSV.")
	}
	s.metrics.IncrementMutation(op, "ok")
	if err := s.reload(ctx, "import"); err != nil {
		return count, err
	}
	return count, nil
}

// UpdateCustomersFromCSV applies an exported-layout file to existing
// customers. Rows are matched by id; rows without a known id are skipped.
// Each updated customer is written sequentially, in file order. A structural
// problem with the file aborts before any row is applied.
func (s *Service) UpdateCustomersFromCSV(ctx context.Context, csv string) (CSVSummary, error) {
	table, err := csvcodec.Parse(csv)
	if err != nil {
		return CSVSummary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	summary := CSVSummary{Skipped: []string{}, Failed: []string{}}
	for _, row := range table.Rows {
		id := row[csvcodec.IDColumn]
		if id == "" {
			continue
		}
		current, err := s.repo.Get(id)
		if err != nil {
			s.metrics.IncrementCSVRow("skipped")
			s.logger.Warn("csv row for unknown customer skipped", zap.String("customer_id", id))
			summary.Skipped = append(summary.Skipped, id)
			continue
		}

		next := current.Clone()
		csvcodec.ApplyRow(&next, table.Headers, row, s.csvRecorder)
		status.Recalculate(&next)

		if err := s.repo.Put(next); err != nil {
			summary.Skipped = append(summary.Skipped, id)
			continue
		}
		if err := s.store.UpdateCustomer(ctx, next); err != nil {
			s.metrics.IncrementCSVRow("failed")
			s.logger.Warn("csv row save failed", zap.String("customer_id", id), zap.Error(err))
			summary.Failed = append(summary.Failed, id)
			continue
		}
		s.metrics.IncrementCSVRow("updated")
		summary.Updated++
		s.recordHistory(ctx, id, []models.ChangeLogEntry{next.History[0]}, false)
	}

	if len(summary.Failed) > 0 {
		if err := s.reload(ctx, "write_failure"); err != nil {
			return summary, err
		}
		return summary, nil
	}
	if summary.Updated > 0 {
		s.repo.Synced(s.now())
	}
	s.logger.Info("csv update applied",
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", len(summary.Skipped)),
	)
	return summary, nil
}
