// Package store is the asynchronous front of the record database.
//
// Every operation runs its storage call on a Dispatcher worker, so the calling
// goroutine never blocks on the database. Reads hand back a Pending result that
// can be awaited or redelivered on the main context; writes are fire-and-forget
// and give the caller no way to observe completion.
//
// Operations are independent: there is no ordering between them, no per-number
// locking and no transaction spanning more than one statement.
package store

import (
	"context"
	"errors"
	"log/slog"

	"callerinfo/models"
)

// Repository is the synchronous storage the store dispatches to.
// database.Repository implements it.
type Repository interface {
	ListCalls(ctx context.Context) ([]models.CallRecord, error)
	SaveCall(ctx context.Context, call *models.CallRecord) error
	DeleteCall(ctx context.Context, id int64) error

	ListCallers(ctx context.Context) ([]models.Caller, error)
	FindCallers(ctx context.Context, number string) ([]models.Caller, error)
	SaveCaller(ctx context.Context, caller *models.Caller) error
	DeleteCaller(ctx context.Context, id int64) error

	ListMarked(ctx context.Context) ([]models.MarkedRecord, error)
	FindMarked(ctx context.Context, number string) ([]models.MarkedRecord, error)
	SaveMarked(ctx context.Context, rec *models.MarkedRecord) error
	UpdateMarked(ctx context.Context, rec models.MarkedRecord) error
}

// Store is created once by the application and shared by reference.
type Store struct {
	repo       Repository
	dispatcher *Dispatcher
	delivery   Deliverer
	logger     *slog.Logger

	concurrency int
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMainLoop sets the context read results are redelivered on by Pending.Then.
func WithMainLoop(d Deliverer) Option {
	return func(s *Store) { s.delivery = d }
}

func WithConcurrency(n int) Option {
	return func(s *Store) { s.concurrency = n }
}

func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:        repo,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "store")
	s.dispatcher = NewDispatcher(s.concurrency, s.logger)
	return s
}

// Drain waits for every operation dispatched so far. Writes stay
// fire-and-forget for callers; this exists for shutdown and tooling.
func (s *Store) Drain(ctx context.Context) error {
	return s.dispatcher.Drain(ctx)
}

// Close stops accepting operations and waits for the running ones.
func (s *Store) Close(ctx context.Context) error {
	return s.dispatcher.Stop(ctx)
}

// ==================== CALLS ====================

// FetchCalls delivers the whole call history, newest first.
func (s *Store) FetchCalls() *Pending[[]models.CallRecord] {
	return query(s, "fetch_calls", s.repo.ListCalls)
}

// ClearCalls deletes each listed record on its own. Records not in the
// list are untouched; an empty list does nothing.
func (s *Store) ClearCalls(calls []models.CallRecord) {
	if len(calls) == 0 {
		return
	}
	ids := make([]int64, len(calls))
	for i, c := range calls {
		ids[i] = c.ID
	}

	s.exec("clear_calls", func(ctx context.Context) error {
		var errs []error
		for _, id := range ids {
			if err := s.repo.DeleteCall(ctx, id); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

func (s *Store) RemoveCall(call models.CallRecord) {
	s.exec("remove_call", func(ctx context.Context) error {
		return s.repo.DeleteCall(ctx, call.ID)
	})
}

func (s *Store) SaveCall(call models.CallRecord) {
	s.exec("save_call", func(ctx context.Context) error {
		return s.repo.SaveCall(ctx, &call)
	})
}

// ==================== CALLERS ====================

func (s *Store) FetchCallers() *Pending[[]models.Caller] {
	return query(s, "fetch_callers", s.repo.ListCallers)
}

// FindCaller delivers the most recently written caller for number, or nil.
func (s *Store) FindCaller(number string) *Pending[*models.Caller] {
	return query(s, "find_caller", func(ctx context.Context) (*models.Caller, error) {
		callers, err := s.repo.FindCallers(ctx, number)
		if err != nil || len(callers) == 0 {
			return nil, err
		}
		return &callers[0], nil
	})
}

func (s *Store) RemoveCaller(caller models.Caller) {
	s.exec("remove_caller", func(ctx context.Context) error {
		return s.repo.DeleteCaller(ctx, caller.ID)
	})
}

// SaveCaller inserts caller, or overwrites the row with the same ID.
func (s *Store) SaveCaller(caller models.Caller) {
	s.exec("save_caller", func(ctx context.Context) error {
		return s.repo.SaveCaller(ctx, &caller)
	})
}

// PromoteMarked saves a new caller entry derived from rec.
// See models.CallerFromMarked for the mapping.
func (s *Store) PromoteMarked(rec models.MarkedRecord) {
	s.exec("promote_marked", func(ctx context.Context) error {
		caller := models.CallerFromMarked(rec)
		return s.repo.SaveCaller(ctx, &caller)
	})
}

// ==================== MARKED RECORDS ====================

func (s *Store) FetchMarked() *Pending[[]models.MarkedRecord] {
	return query(s, "fetch_marked", s.repo.ListMarked)
}

// FindMarked delivers the first marked record for number in lookup order, or nil.
func (s *Store) FindMarked(number string) *Pending[*models.MarkedRecord] {
	return query(s, "find_marked", func(ctx context.Context) (*models.MarkedRecord, error) {
		records, err := s.repo.FindMarked(ctx, number)
		if err != nil || len(records) == 0 {
			return nil, err
		}
		return &records[0], nil
	})
}

func (s *Store) SaveMarked(rec models.MarkedRecord) {
	s.exec("save_marked", func(ctx context.Context) error {
		return s.repo.SaveMarked(ctx, &rec)
	})
}

// MarkReported flags the first marked record for number as reported.
// Duplicate rows for the number are logged but left as they are.
func (s *Store) MarkReported(number string) {
	s.exec("mark_reported", func(ctx context.Context) error {
		records, err := s.repo.FindMarked(ctx, number)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		if len(records) > 1 {
			s.logger.Warn("duplicate marked records for number",
				"number", number,
				"count", len(records),
			)
		}

		rec := records[0]
		rec.Reported = true
		return s.repo.UpdateMarked(ctx, rec)
	})
}

// ==================== DISPATCH ====================

// query runs fn on a worker and resolves the returned Pending with its result.
func query[T any](s *Store, name string, fn func(ctx context.Context) (T, error)) *Pending[T] {
	p := newPending[T](s.delivery)

	var zero T
	accepted := s.dispatcher.GoOrDrop(name, func(ctx context.Context) {
		var (
			val T
			err = ErrTaskFailed
		)
		// resolve even if fn panics; the dispatcher logs the panic
		defer func() { p.resolve(val, err) }()

		val, err = fn(ctx)
		if err != nil {
			s.logger.Error("store read failed", "op", name, "error", err)
		}
	}, func() { p.resolve(zero, ErrClosed) })
	if !accepted {
		p.resolve(zero, ErrClosed)
	}
	return p
}

// exec runs fn on a worker. Nobody waits for it, so failures are only logged.
func (s *Store) exec(name string, fn func(ctx context.Context) error) {
	s.dispatcher.Go(name, func(ctx context.Context) {
		if err := fn(ctx); err != nil {
			s.logger.Error("store write failed", "op", name, "error", err)
		}
	})
}
