package service

import (
	"sync"
	"time"

	"titling/internal/customer/models"
	"titling/pkg/platform/sentinel"
)

// State is the lifecycle of the in-memory customer collection.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Repository owns the in-memory customer collection. It starts empty in the
// Loading state and is populated by a fetch. Readers always receive deep
// copies.
type Repository struct {
	mu        sync.RWMutex
	customers []models.Customer
	state     State
	lastErr   error
	lastSync  time.Time
}

func NewRepository() *Repository {
	return &Repository{customers: []models.Customer{}, state: StateLoading}
}

func (r *Repository) List() []models.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Customer, len(r.customers))
	for i, c := range r.customers {
		out[i] = c.Clone()
	}
	return out
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers)
}

// Get returns a copy of the customer, or sentinel.ErrNotFound.
func (r *Repository) Get(id string) (models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.customers[i].Clone(), nil
	}
	return models.Customer{}, sentinel.ErrNotFound
}

// Put replaces the customer with the same id.
func (r *Repository) Put(c models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(c.ID)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	r.customers[i] = c.Clone()
	return nil
}

func (r *Repository) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	r.customers = append(r.customers[:i:i], r.customers[i+1:]...)
	return nil
}

// Replace installs a freshly fetched collection and marks it Ready.
func (r *Repository) Replace(customers []models.Customer, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = customers
	if r.customers == nil {
		r.customers = []models.Customer{}
	}
	r.state = StateReady
	r.lastErr = nil
	r.lastSync = at
}

// Loading marks a fetch in progress. The current collection stays readable.
func (r *Repository) Loading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateLoading
}

// Fail records a failed fetch and empties the collection, since its contents
// can no longer be trusted.
func (r *Repository) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = []models.Customer{}
	r.state = StateFailed
	r.lastErr = err
}

// Synced records a successful write.
func (r *Repository) Synced(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSync = at
}

// State returns the lifecycle state and, when Failed, the fetch error.
func (r *Repository) State() (State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state, r.lastErr
}

func (r *Repository) LastSync() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSync
}

func (r *Repository) indexOf(id string) int {
	for i := range r.customers {
		if r.customers[i].ID == id {
			return i
		}
	}
	return -1
}
