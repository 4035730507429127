// Package memory holds in-memory implementations of the repository interfaces. State is shared
// through a Store so that a Transactor can snapshot and restore it.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/audit"
	"github.com/dag-industries/attendance-backend-go/internal/domain/department"
	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/domain/settings"
	"github.com/google/uuid"
)

type refreshToken struct {
	profileID string
	expiresAt int64
	revoked   bool
}

type state struct {
	profiles      map[string]profile.Profile
	departments   map[string]department.Department
	devices       map[string]device.Device
	records       map[string]attendance.Record
	corrections   map[string]attendance.Correction
	refreshTokens map[string]refreshToken
	auditLogs     []audit.Log
	settings      *settings.Stored
}

func (s state) clone() state {
	c := state{
		profiles:      maps.Clone(s.profiles),
		departments:   maps.Clone(s.departments),
		devices:       maps.Clone(s.devices),
		records:       maps.Clone(s.records),
		corrections:   maps.Clone(s.corrections),
		refreshTokens: maps.Clone(s.refreshTokens),
		auditLogs:     append([]audit.Log(nil), s.auditLogs...),
	}
	if s.settings != nil {
		stored := *s.settings
		c.settings = &stored
	}
	return c
}

// Store is the shared backing state of every memory repository.
type Store struct {
	mu       sync.Mutex
	data     state
	failures map[string]error
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: state{
			profiles:      make(map[string]profile.Profile),
			departments:   make(map[string]department.Department),
			devices:       make(map[string]device.Device),
			records:       make(map[string]attendance.Record),
			corrections:   make(map[string]attendance.Correction),
			refreshTokens: make(map[string]refreshToken),
		},
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// FailOn makes the named operation (e.g. "audit.Create") return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// fail must be called with mu held.
func (s *Store) fail(op string) error {
	return s.failures[op]
}

func (s *Store) newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SetClock replaces the time source used for created/updated timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AuditLogs returns a copy of every audit entry written so far.
func (s *Store) AuditLogs() []audit.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Log(nil), s.data.auditLogs...)
}

type txCtxKey struct{}

// Transactor snapshots the store before fn and restores it when fn fails. Nested calls join the
// outer transaction.
type Transactor struct {
	store *Store
}

func (s *Store) Transactor() *Transactor {
	return &Transactor{store: s}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txCtxKey{}) != nil {
		return fn(ctx)
	}

	t.store.mu.Lock()
	if err := t.store.fail("tx.Begin"); err != nil {
		t.store.mu.Unlock()
		return err
	}
	snapshot := t.store.data.clone()
	t.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txCtxKey{}, true)); err != nil {
		t.store.mu.Lock()
		t.store.data = snapshot
		t.store.mu.Unlock()
		return err
	}
	return nil
}
