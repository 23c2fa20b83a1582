// Package coordinator models SPMD collective operations - broadcast,
// scatter, gather, barrier - as an explicit message-passing contract.
//
// All participants must call each collective the same number of times, in
// the same order. The in-process implementation backs the contract with
// rendezvous channels; other implementations may use processes or a real
// multi-process runtime. Broadcast values are treated as immutable once
// distributed; no rank mutates another rank's view.
package coordinator

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Root is the rank that performs all I/O and coordination-only steps.
const Root = 0

// Coordinator is one rank's handle on the collective group.
type Coordinator interface {
	// Rank returns this participant's rank, 0-based.
	Rank() int

	// Size returns the number of participants.
	Size() int

	// Broadcast distributes the root's value to every rank. Only the
	// root's v argument is used; every rank receives the same value.
	Broadcast(ctx context.Context, v any) (any, error)

	// Scatter hands slices[r] to rank r. Only the root's slices argument
	// is used; it must have exactly Size elements.
	Scatter(ctx context.Context, slices []any) (any, error)

	// Gather collects every rank's value on the root, ordered by rank.
	// Non-root ranks receive nil.
	Gather(ctx context.Context, v any) ([]any, error)

	// Barrier blocks until every rank has arrived.
	Barrier(ctx context.Context) error
}

// group is the shared state behind an in-process coordinator set.
// Per-rank rendezvous channels keep successive collectives from
// interleaving: a rank cannot complete round n+1 before the root has
// consumed its round-n contribution.
type group struct {
	size    int
	down    []chan any      // root -> rank, used by broadcast and scatter
	up      []chan any      // rank -> root, used by gather
	arrive  []chan struct{} // rank -> root, barrier entry
	release []chan struct{} // root -> rank, barrier exit
}

type member struct {
	g    *group
	rank int
}

// NewGroup creates size in-process coordinators sharing one collective
// group, indexed by rank.
func NewGroup(size int) ([]Coordinator, error) {
	if size < 1 {
		return nil, ErrInvalidGroupSize
	}
	g := &group{
		size:    size,
		down:    make([]chan any, size),
		up:      make([]chan any, size),
		arrive:  make([]chan struct{}, size),
		release: make([]chan struct{}, size),
	}
	for r := 0; r < size; r++ {
		g.down[r] = make(chan any)
		g.up[r] = make(chan any)
		g.arrive[r] = make(chan struct{})
		g.release[r] = make(chan struct{})
	}
	members := make([]Coordinator, size)
	for r := 0; r < size; r++ {
		members[r] = &member{g: g, rank: r}
	}
	return members, nil
}

func (m *member) Rank() int { return m.rank }

func (m *member) Size() int { return m.g.size }

func (m *member) Broadcast(ctx context.Context, v any) (any, error) {
	if m.rank == Root {
		for r := 1; r < m.g.size; r++ {
			if err := send(ctx, m.g.down[r], v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
	return recv(ctx, m.g.down[m.rank])
}

func (m *member) Scatter(ctx context.Context, slices []any) (any, error) {
	if m.rank == Root {
		if len(slices) != m.g.size {
			return nil, ErrScatterArity
		}
		for r := 1; r < m.g.size; r++ {
			if err := send(ctx, m.g.down[r], slices[r]); err != nil {
				return nil, err
			}
		}
		return slices[Root], nil
	}
	return recv(ctx, m.g.down[m.rank])
}

func (m *member) Gather(ctx context.Context, v any) ([]any, error) {
	if m.rank == Root {
		all := make([]any, m.g.size)
		all[Root] = v
		for r := 1; r < m.g.size; r++ {
			got, err := recv(ctx, m.g.up[r])
			if err != nil {
				return nil, err
			}
			all[r] = got
		}
		return all, nil
	}
	if err := send(ctx, m.g.up[m.rank], v); err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *member) Barrier(ctx context.Context) error {
	if m.rank == Root {
		for r := 1; r < m.g.size; r++ {
			select {
			case <-m.g.arrive[r]:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		for r := 1; r < m.g.size; r++ {
			select {
			case m.g.release[r] <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	select {
	case m.g.arrive[m.rank] <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-m.g.release[m.rank]:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func send(ctx context.Context, ch chan any, v any) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func recv(ctx context.Context, ch chan any) (any, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run executes fn once per rank on its own goroutine and waits for all of
// them. The first error cancels the shared context, unblocking any rank
// parked in a collective.
func Run(ctx context.Context, size int, fn func(ctx context.Context, c Coordinator) error) error {
	members, err := NewGroup(size)
	if err != nil {
		return err
	}
	eg, ctx := errgroup.WithContext(ctx)
	for _, c := range members {
		c := c
		eg.Go(func() error {
			return fn(ctx, c)
		})
	}
	return eg.Wait()
}
