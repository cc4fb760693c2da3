package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"titling/internal/customer/history"
	"titling/internal/customer/metrics"
	"titling/internal/customer/migrate"
	"titling/internal/customer/models"
	"titling/internal/customer/status"
	"titling/internal/sheets"
	dErrors "titling/pkg/domain-errors"
	audit "titling/pkg/platform/audit"
	"titling/pkg/platform/sentinel"
)

// Store is the remote persistence API that holds the records of truth.
type Store interface {
	GetCustomers(ctx context.Context) ([]any, error)
	UpdateCustomer(ctx context.Context, customer any) error
	DeleteCustomer(ctx context.Context, customerID string) error
	LogHistory(ctx context.Context, customerID string, logs any) error
	AddCustomersFromCSV(ctx context.Context, csv string) (int, error)
	UpdateCustomersFromCSV(ctx context.Context, csv string) (int, error)
}

// HistoryPublisher fans accepted change-log entries out to secondary sinks.
type HistoryPublisher interface {
	Emit(ctx context.Context, events ...audit.Event) error
}

// RetryQueue keeps change-log entries the persistence API did not accept.
type RetryQueue interface {
	Enqueue(ctx context.Context, batch audit.Batch) error
}

// Service is the only writer of customer state. Every mutation reads the
// stored snapshot, derives one complete replacement, applies it to the
// repository and then persists it. A failed write discards local state by
// refetching the whole collection.
type Service struct {
	store     Store
	repo      *Repository
	publisher HistoryPublisher
	retry     RetryQueue
	metrics   *metrics.Metrics
	logger    *zap.Logger

	now       func() time.Time
	newTaskID func() string
	user      string
	csvUser   string

	recorder    *history.Recorder
	csvRecorder *history.Recorder

	// mu serializes mutations so each one sees the result of the previous.
	mu      sync.Mutex
	refetch singleflight.Group
}

type Option func(s *Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithHistoryPublisher(p HistoryPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithRetryQueue(q RetryQueue) Option {
	return func(s *Service) {
		s.retry = q
	}
}

func WithRepository(r *Repository) Option {
	return func(s *Service) {
		s.repo = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithTaskIDs overrides task id generation.
func WithTaskIDs(next func() string) Option {
	return func(s *Service) {
		s.newTaskID = next
	}
}

// WithUsers sets the names recorded on change-log entries written by
// interactive edits and by the bulk CSV updater.
func WithUsers(user, csvUser string) Option {
	return func(s *Service) {
		if user != "" {
			s.user = user
		}
		if csvUser != "" {
			s.csvUser = csvUser
		}
	}
}

// New constructs a Service. The repository starts in the Loading state until
// Refresh succeeds.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		repo:      NewRepository(),
		logger:    zap.NewNop(),
		now:       time.Now,
		newTaskID: func() string { return "TASK-" + uuid.NewString() },
		user:      history.DefaultUser,
		csvUser:   history.CSVUser,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recorder = history.New(s.user, history.WithClock(s.now))
	s.csvRecorder = history.New(s.csvUser, history.WithClock(s.now))
	return s
}

// Refresh fetches and normalizes every customer, replacing the collection.
// Concurrent callers share one fetch.
func (s *Service) Refresh(ctx context.Context) error {
	return s.reload(ctx, "refresh")
}

func (s *Service) List() []models.Customer {
	return s.repo.List()
}

func (s *Service) Get(id string) (models.Customer, error) {
	c, err := s.repo.Get(id)
	if err != nil {
		return models.Customer{}, notFound(err)
	}
	return c, nil
}

func (s *Service) State() (State, error) {
	return s.repo.State()
}

func (s *Service) LastSync() time.Time {
	return s.repo.LastSync()
}

func (s *Service) reload(ctx context.Context, trigger string) error {
	_, err, _ := s.refetch.Do("customers", func() (any, error) {
		return nil, s.load(context.WithoutCancel(ctx))
	})
	if err != nil {
		s.metrics.IncrementRefetch(trigger, "failed")
		s.logger.Warn("fetching customers failed", zap.String("trigger", trigger), zap.Error(err))
		return dErrors.Wrap(err, dErrors.CodeUnavailable, sheets.UserMessage(err))
	}
	s.metrics.IncrementRefetch(trigger, "ok")
	return nil
}

func (s *Service) load(ctx context.Context) error {
	s.repo.Loading()
	raws, err := s.store.GetCustomers(ctx)
	if err != nil {
		s.repo.Fail(err)
		s.metrics.SetCustomers(0)
		return err
	}
	customers := migrate.NormalizeAll(raws)
	s.repo.Replace(customers, s.now())
	s.metrics.SetCustomers(len(customers))
	s.logger.Info("customers loaded", zap.Int("count", len(customers)))
	return nil
}

// change derives the replacement for current by editing next, a deep copy of
// it, and returns the history entries describing the edit.
type change func(current models.Customer, next *models.Customer, now time.Time) ([]models.ChangeLogEntry, error)

// mutate runs one read-derive-apply-persist cycle for a customer.
func (s *Service) mutate(ctx context.Context, op, customerID string, fn change) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.Get(customerID)
	if err != nil {
		s.metrics.IncrementMutation(op, "rejected")
		return models.Customer{}, notFound(err)
	}

	now := s.now()
	next := current.Clone()
	entries, err := fn(current, &next, now)
	if err != nil {
		s.metrics.IncrementMutation(op, "rejected")
		return models.Customer{}, err
	}
	next.LastUpdate = models.Timestamp(now)
	next.History = history.Prepend(current.History, entries...)
	status.Recalculate(&next)

	if err := s.persist(ctx, op, next); err != nil {
		return models.Customer{}, err
	}
	s.recordHistory(ctx, next.ID, entries, true)
	return next, nil
}

// persist applies c optimistically and writes it through. On failure the
// collection is refetched and a user-legible error returned.
func (s *Service) persist(ctx context.Context, op string, c models.Customer) error {
	if err := s.repo.Put(c); err != nil {
		s.metrics.IncrementMutation(op, "rejected")
		return notFound(err)
	}
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		s.metrics.IncrementMutation(op, "failed")
		s.logger.Warn("saving customer failed, refetching",
			zap.String("operation", op),
			zap.String("customer_id", c.ID),
			zap.Error(err),
		)
		_ = s.reload(ctx, "write_failure")
		return writeError(err, msgSaveFailed)
	}
	s.repo.Synced(s.now())
	s.metrics.IncrementMutation(op, "ok")
	s.logger.Debug("customer saved", zap.String("operation", op), zap.String("customer_id", c.ID))
	return nil
}

// recordHistory submits entries through LOG_HISTORY when remote is set and
// hands them to the change-log sinks. Failures are logged, never returned.
func (s *Service) recordHistory(ctx context.Context, customerID string, entries []models.ChangeLogEntry, remote bool) {
	if len(entries) == 0 {
		return
	}
	events := toEvents(customerID, entries)

	if remote {
		if err := s.store.LogHistory(ctx, customerID, entries); err != nil {
			s.metrics.IncrementHistoryFailure()
			s.logger.Warn("logging history failed",
				zap.String("customer_id", customerID),
				zap.Int("entries", len(entries)),
				zap.Error(err),
			)
			if s.retry != nil {
				batch := audit.Batch{CustomerID: customerID, Events: events}
				if err := s.retry.Enqueue(ctx, batch); err != nil {
					s.logger.Error("queueing history for retry failed", zap.String("customer_id", customerID), zap.Error(err))
				}
			}
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Emit(ctx, events...); err != nil {
			s.logger.Warn("publishing history failed", zap.String("customer_id", customerID), zap.Error(err))
		}
	}
}

const (
	msgSaveFailed   = "No se pudieron guardar los cambios. Por favor, inténtelo de nuevo."
	msgDeleteFailed = "Error al eliminar el cliente. La lista se actualizará."
	msgNotFound     = "Cliente no encontrado."
)

func notFound(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, msgNotFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "customer lookup failed")
}

// writeError reports a failed write with the persistence API's own message
// attached.
func writeError(err error, msg string) error {
	if detail := sheets.UserMessage(err); detail != "" {
		msg += " Detalles: " + detail
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
}
