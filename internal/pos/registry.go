package pos

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/kasir-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
	"go.uber.org/multierr"
)

// endedRetention is how long an ended session id keeps being refused. Requests
// that passed the session check before logout finish well inside it.
const endedRetention = 10 * time.Minute

// AliveFunc reports whether the session behind a terminal still exists.
type AliveFunc func(ctx context.Context, id string) (bool, error)

// Registry keeps one terminal per session.
type Registry struct {
	opts  Options
	clock func() time.Time
	logg  *logger.Logger

	mu        sync.Mutex
	terminals map[string]*Terminal
	ended     map[string]time.Time
}

// NewRegistry validates opts once so Get only fails on a bad or ended id.
func NewRegistry(opts Options) (*Registry, error) {
	defaults, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Registry{
		opts:      opts,
		clock:     defaults.Clock,
		logg:      defaults.Logger,
		terminals: map[string]*Terminal{},
		ended:     map[string]time.Time{},
	}, nil
}

// Get returns the terminal for id, creating it on first use. Ids whose
// session already ended are refused with a redirect to login.
func (r *Registry) Get(id string) (*Terminal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "terminal id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.terminals[id]; ok {
		return t, nil
	}
	if _, gone := r.ended[id]; gone {
		return nil, pkgerrors.New(pkgerrors.CodeRedirect, "session ended").
			WithDetails(map[string]any{"route": enums.RouteLogin})
	}
	t, err := NewTerminal(id, r.opts)
	if err != nil {
		return nil, err
	}
	r.terminals[id] = t
	return t, nil
}

// Lookup returns an existing terminal without creating one.
func (r *Registry) Lookup(id string) (*Terminal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.terminals[id]
	return t, ok
}

// Len reports how many terminals are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.terminals)
}

// Close tears down the terminal for id and marks the session as ended so a
// late request cannot open it again. Unknown ids are only marked.
func (r *Registry) Close(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	r.mu.Lock()
	t, ok := r.terminals[id]
	delete(r.terminals, id)
	r.ended[id] = r.clock()
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return t.Close(ctx)
}

// Sweep closes every terminal whose session is no longer alive and forgets
// ended ids older than the retention window. It returns how many terminals
// were closed.
func (r *Registry) Sweep(ctx context.Context, alive AliveFunc) (int, error) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.terminals))
	for id := range r.terminals {
		ids = append(ids, id)
	}
	cutoff := r.clock().Add(-endedRetention)
	for id, at := range r.ended {
		if at.Before(cutoff) {
			delete(r.ended, id)
		}
	}
	r.mu.Unlock()

	sort.Strings(ids)
	var (
		closed int
		err    error
	)
	for _, id := range ids {
		ok, aliveErr := alive(ctx, id)
		if aliveErr != nil {
			err = multierr.Append(err, aliveErr)
			continue
		}
		if ok {
			continue
		}
		if closeErr := r.Close(ctx, id); closeErr != nil {
			err = multierr.Append(err, closeErr)
		}
		closed++
	}
	return closed, err
}

// RunSweeper calls Sweep every interval until ctx ends.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration, alive AliveFunc) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			closed, err := r.Sweep(ctx, alive)
			if err != nil {
				r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "terminal.sweep_failed")
			}
			if closed > 0 {
				r.logg.Info(r.logg.WithField(ctx, "closed", closed), "terminal.swept")
			}
		}
	}
}

// CloseAll tears down every terminal and returns the combined errors.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	ids := make([]string, 0, len(r.terminals))
	terminals := make(map[string]*Terminal, len(r.terminals))
	for id, t := range r.terminals {
		ids = append(ids, id)
		terminals[id] = t
	}
	r.terminals = map[string]*Terminal{}
	r.mu.Unlock()

	sort.Strings(ids)
	var err error
	for _, id := range ids {
		err = multierr.Append(err, terminals[id].Close(ctx))
	}
	return err
}
