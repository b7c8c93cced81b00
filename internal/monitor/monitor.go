// Package monitor polls the marketplace search and reports adverts that
// were not present in any earlier poll.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finnparser/internal/apis/finn"
	"finnparser/internal/domain/models"
	"finnparser/internal/repository/seen"
)

const DefaultRefreshesPerLog = 50

type Searcher interface {
	Search(ctx context.Context, params finn.SearchParams) ([]models.SearchResult, error)
}

type State int

const (
	// Priming is the baseline pass: ids are recorded, nothing is reported.
	Priming State = iota
	Steady
)

func (s State) String() string {
	switch s {
	case Priming:
		return "priming"
	case Steady:
		return "steady"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Options struct {
	Searcher Searcher
	Seen     seen.Store
	Notifier Notifier
	Logger   *slog.Logger

	RefreshesPerLog int
	Interval        time.Duration
	MaxIterations   int // 0 = until ctx is done

	// ContinueOnError logs a failed poll and keeps going instead of
	// returning from Run.
	ContinueOnError bool

	Now func() time.Time
}

type Monitor struct {
	searcher Searcher
	seen     seen.Store
	notifier Notifier
	log      *slog.Logger

	refreshesPerLog int
	interval        time.Duration
	maxIterations   int
	continueOnError bool
	now             func() time.Time

	state State
}

func New(opts Options) (*Monitor, error) {
	if opts.Searcher == nil {
		return nil, errors.New("monitor: searcher is nil")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Seen == nil {
		opts.Seen = seen.NewMemory()
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Log: opts.Logger}
	}
	if opts.RefreshesPerLog <= 0 {
		opts.RefreshesPerLog = DefaultRefreshesPerLog
	}
	if opts.MaxIterations < 0 {
		opts.MaxIterations = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Monitor{
		searcher:        opts.Searcher,
		seen:            opts.Seen,
		notifier:        opts.Notifier,
		log:             opts.Logger,
		refreshesPerLog: opts.RefreshesPerLog,
		interval:        opts.Interval,
		maxIterations:   opts.MaxIterations,
		continueOnError: opts.ContinueOnError,
		now:             opts.Now,
		state:           Priming,
	}, nil
}

func (m *Monitor) State() State {
	return m.state
}

// Run polls until ctx is done, MaxIterations is reached, or a poll fails
// (unless ContinueOnError is set).
func (m *Monitor) Run(ctx context.Context) error {
	start := m.now()

	for index := 0; m.maxIterations == 0 || index < m.maxIterations; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := m.Poll(ctx)

		if index%m.refreshesPerLog == m.refreshesPerLog-1 {
			end := m.now()
			m.log.Info("search batch timing",
				"refreshes", m.refreshesPerLog,
				"elapsed", end.Sub(start).Round(time.Millisecond).String(),
			)
			start = end
		}

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if !m.continueOnError {
				return fmt.Errorf("poll %d: %w", index+1, err)
			}
			m.log.Warn("poll failed (continue)", "iteration", index+1, "state", m.state.String(), "err", err)
		}

		if err := sleepCtx(ctx, m.interval); err != nil {
			return err
		}
	}
	return nil
}

// Poll runs one iteration: fetch the newest adverts, walk them oldest
// first, record unseen ids and report them once the baseline is in place.
// It returns the reported adverts.
func (m *Monitor) Poll(ctx context.Context) ([]models.SearchResult, error) {
	all := ""
	results, err := m.searcher.Search(ctx, finn.SearchParams{Query: &all})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var fresh []models.SearchResult
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]

		added, err := m.seen.Add(ctx, r.ID)
		if err != nil {
			return fresh, err
		}
		if !added || m.state == Priming {
			continue
		}

		if err := m.notifier.Notify(ctx, r); err != nil {
			return fresh, fmt.Errorf("notify %s: %w", r.ID, err)
		}
		fresh = append(fresh, r)
	}

	if m.state == Priming {
		m.state = Steady
		m.log.Info("started listening for new adverts", "baseline", len(results))
	}
	return fresh, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
