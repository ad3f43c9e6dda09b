package anim

import (
	"testing"
	"time"

	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/geom"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func handles(n int) []arena.Handle {
	a := arena.New[int]()
	hs := make([]arena.Handle, n)
	for i := range hs {
		hs[i] = a.Alloc(new(int))
	}
	return hs
}

func TestTransitionAt(t *testing.T) {
	start := time.Unix(0, 0)
	tr := Transition{
		From:     geom.R(0, 0, 10, 10),
		To:       geom.R(100, 50, 20, 10),
		Start:    start,
		Duration: 100 * time.Millisecond,
	}
	tests := []struct {
		name string
		at   time.Duration
		want geom.Rect
		done bool
	}{
		{"before start", -time.Second, geom.R(0, 0, 10, 10), false},
		{"halfway", 50 * time.Millisecond, geom.R(50, 25, 15, 10), false},
		{"end", 100 * time.Millisecond, geom.R(100, 50, 20, 10), true},
		{"after end", time.Second, geom.R(100, 50, 20, 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := start.Add(tt.at)
			if got := tr.At(now); got != tt.want {
				t.Errorf("At = %v, want %v", got, tt.want)
			}
			if got := tr.Done(now); got != tt.done {
				t.Errorf("Done = %v, want %v", got, tt.done)
			}
		})
	}
}

func TestPlayerRestartAndFinish(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	var finished []arena.Handle
	p := NewPlayer(100*time.Millisecond, WithClock(c.now), WithFinish(func(h arena.Handle) {
		finished = append(finished, h)
	}))
	hs := handles(2)

	p.Start(hs[0], geom.R(0, 0, 1, 1), geom.R(10, 0, 1, 1))
	c.t = c.t.Add(80 * time.Millisecond)
	// restart with a fresh pair; the earlier progress is discarded
	p.Start(hs[0], geom.R(10, 0, 1, 1), geom.R(20, 0, 1, 1))
	p.Start(hs[1], geom.R(0, 0, 1, 1), geom.R(0, 10, 1, 1))

	c.t = c.t.Add(50 * time.Millisecond)
	frames := p.Advance()
	if len(frames) != 2 || frames[0].Handle != hs[0] {
		t.Fatalf("frames = %v", frames)
	}
	if got := frames[0].Rect.X; got != 15 {
		t.Errorf("restarted transition x = %v, want 15", got)
	}
	if len(finished) != 0 {
		t.Errorf("finished early: %v", finished)
	}

	c.t = c.t.Add(time.Second)
	p.Advance()
	if len(finished) != 2 || p.Active() != 0 {
		t.Errorf("finished = %v, active = %d", finished, p.Active())
	}
}

func TestInstant(t *testing.T) {
	var n int
	var a Animator = Instant{OnFinish: func(arena.Handle) { n++ }}
	a.Start(handles(1)[0], geom.Rect{}, geom.R(1, 1, 1, 1))
	if n != 1 {
		t.Errorf("OnFinish called %d times", n)
	}
	Instant{}.Start(arena.Nil, geom.Rect{}, geom.Rect{})
}
