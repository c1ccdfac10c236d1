package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/docanchor/internal/client/client"
	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docanchor/internal/logging"
	"github.com/sethvargo/go-retry"
)

var errNotVisible = errors.New("document not yet listed")

// Refresher re-pulls the authoritative document list.
type Refresher interface {
	Refresh(ctx context.Context, userID string) error
	// Schedule refreshes in the background once expectID is listed by the
	// service. The returned func cancels it.
	Schedule(ctx context.Context, userID, expectID string) (cancel func())
}

type RefreshConfig struct {
	// Delay before the first list call.
	Delay time.Duration
	// MaxAttempts bounds the number of list calls per scheduled refresh.
	MaxAttempts uint64
	// Backoff is the first wait between attempts; it doubles each time.
	Backoff time.Duration
}

// RefreshScheduler replaces the store with the service's list, either
// immediately or after a successful submit.
type RefreshScheduler struct {
	client   client.Client
	repo     documents.Repository
	explorer models.Explorer
	cfg      RefreshConfig
	log      logging.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	seq     int
	pending map[int]context.CancelFunc
	closed  bool
}

func NewRefreshScheduler(c client.Client, repo documents.Repository, explorer models.Explorer, cfg RefreshConfig, log logging.Logger) *RefreshScheduler {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if log == nil {
		log = logging.Nop()
	}
	return &RefreshScheduler{
		client:   c,
		repo:     repo,
		explorer: explorer,
		cfg:      cfg,
		log:      log,
		pending:  map[int]context.CancelFunc{},
	}
}

var _ Refresher = (*RefreshScheduler)(nil)

func (s *RefreshScheduler) Refresh(ctx context.Context, userID string) error {
	rds, err := s.client.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	return s.repo.ReplaceAll(ctx, fromRemoteAll(rds, s.explorer))
}

func (s *RefreshScheduler) Schedule(ctx context.Context, userID, expectID string) func() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	id := s.seq
	s.seq++
	s.pending[id] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.forget(id)
		defer cancel()

		if err := s.poll(ctx, userID, expectID); err != nil {
			if ctx.Err() != nil {
				s.log.Debug(ctx, "scheduled refresh canceled", "user", userID, "expect", expectID)
				return
			}
			s.log.Warn(ctx, "scheduled refresh gave up; keeping local state",
				"user", userID, "expect", expectID, "attempts", s.cfg.MaxAttempts, "error", err)
		}
	}()

	return cancel
}

func (s *RefreshScheduler) poll(ctx context.Context, userID, expectID string) error {
	t := time.NewTimer(s.cfg.Delay)
	select {
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	case <-t.C:
	}

	b := retry.WithMaxRetries(s.cfg.MaxAttempts-1, retry.NewExponential(s.cfg.Backoff))

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		rds, err := s.client.ListByUser(ctx, userID)
		if err != nil {
			s.log.Debug(ctx, "refresh attempt failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}

		if expectID != "" && !slices.ContainsFunc(rds, func(rd client.RemoteDocument) bool {
			return rd.ID.String() == expectID
		}) {
			s.log.Debug(ctx, "refresh attempt missed document", "attempt", attempt, "expect", expectID)
			return retry.RetryableError(errNotVisible)
		}

		return s.repo.ReplaceAll(ctx, fromRemoteAll(rds, s.explorer))
	})
}

func (s *RefreshScheduler) forget(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Wait blocks until every scheduled refresh has finished.
func (s *RefreshScheduler) Wait() {
	s.wg.Wait()
}

// Close cancels outstanding refreshes, waits for them and rejects new ones.
func (s *RefreshScheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for _, cancel := range s.pending {
		cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
