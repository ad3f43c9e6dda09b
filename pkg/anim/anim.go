// Package anim implements the geometry transition contract used by the block
// engine.
//
// The engine never interpolates anything itself. After an update pass it
// hands every block whose geometry changed to an [Animator] together with
// the geometry before and after the pass. A transition is fire-and-forget:
// starting a new one for a handle that is still animating restarts it from
// the fresh start/end pair, and completion is reported through a callback.
//
// Two animators are provided:
//
//   - [Instant] completes every transition synchronously (tests, batch tools)
//   - [Player] keeps transitions for a fixed duration and yields interpolated
//     frames on [Player.Advance] (interactive front ends)
package anim

import (
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/geom"
)

// DefaultDuration is the transition length used when none is configured.
const DefaultDuration = 200 * time.Millisecond

// Animator receives geometry transitions.
type Animator interface {
	Start(h arena.Handle, from, to geom.Rect)
}

// Transition is one running geometry change.
type Transition struct {
	Handle   arena.Handle
	From, To geom.Rect
	Start    time.Time
	Duration time.Duration
}

// Progress returns the linear progress in [0, 1] at now.
func (t Transition) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(t.Start)) / float64(t.Duration)
	return min(max(p, 0), 1)
}

// At returns the interpolated geometry at now.
func (t Transition) At(now time.Time) geom.Rect {
	p := t.Progress(now)
	lerp := func(a, b float64) float64 { return a + (b-a)*p }
	return geom.Rect{
		X: lerp(t.From.X, t.To.X),
		Y: lerp(t.From.Y, t.To.Y),
		W: lerp(t.From.W, t.To.W),
		H: lerp(t.From.H, t.To.H),
	}
}

// Done reports whether the transition has reached its end geometry.
func (t Transition) Done(now time.Time) bool { return t.Progress(now) >= 1 }

// Instant completes every transition immediately.
type Instant struct {
	// OnFinish, if set, is called once per started transition.
	OnFinish func(arena.Handle)
}

func (i Instant) Start(h arena.Handle, _, _ geom.Rect) {
	if i.OnFinish != nil {
		i.OnFinish(h)
	}
}

// Frame is the interpolated geometry of one handle.
type Frame struct {
	Handle arena.Handle
	Rect   geom.Rect
}

// Player keeps running transitions and advances them on demand. It is safe
// for concurrent use so a UI ticker may advance it while the engine starts
// new transitions.
type Player struct {
	duration time.Duration
	now      func() time.Time
	onFinish func(arena.Handle)

	mu     sync.Mutex
	active map[arena.Handle]Transition
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) PlayerOption {
	return func(p *Player) { p.now = now }
}

// WithFinish registers the completion callback.
func WithFinish(fn func(arena.Handle)) PlayerOption {
	return func(p *Player) { p.onFinish = fn }
}

// NewPlayer creates a Player whose transitions last d. A non-positive d
// selects [DefaultDuration].
func NewPlayer(d time.Duration, opts ...PlayerOption) *Player {
	if d <= 0 {
		d = DefaultDuration
	}
	p := &Player{
		duration: d,
		now:      time.Now,
		active:   make(map[arena.Handle]Transition),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Start begins, or restarts, the transition of h.
func (p *Player) Start(h arena.Handle, from, to geom.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active[h] = Transition{Handle: h, From: from, To: to, Start: p.now(), Duration: p.duration}
}

// Cancel drops the transition of h without completing it.
func (p *Player) Cancel(h arena.Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.active, h)
}

// Active returns the number of running transitions.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

// Advance returns the current frame of every running transition, ordered by
// handle, and retires the finished ones. The completion callback runs after
// the lock is released.
func (p *Player) Advance() []Frame {
	now := p.now()
	var (
		frames   []Frame
		finished []arena.Handle
	)
	p.mu.Lock()
	for h, t := range p.active {
		frames = append(frames, Frame{Handle: h, Rect: t.At(now)})
		if t.Done(now) {
			finished = append(finished, h)
			delete(p.active, h)
		}
	}
	p.mu.Unlock()

	slices.SortFunc(frames, func(a, b Frame) int { return a.Handle.Compare(b.Handle) })
	if p.onFinish != nil {
		slices.SortFunc(finished, arena.Handle.Compare)
		for _, h := range finished {
			p.onFinish(h)
		}
	}
	return frames
}
