package block

import (
	"context"
	"errors"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/blocktree/pkg/anim"
	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/ast"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
	"github.com/matzehuels/blocktree/pkg/geom"
	"github.com/matzehuels/blocktree/pkg/observability"
	"github.com/matzehuels/blocktree/pkg/style"
)

var (
	// ErrStaleHandle is returned for handles that are nil or whose block
	// has been retired.
	ErrStaleHandle = errors.New("stale block handle")
	// ErrNoFocus is returned by caret operations when no text block holds
	// the caret.
	ErrNoFocus = errors.New("no block has the caret")
	// ErrNotText is returned when a text operation targets a container.
	ErrNotText = errors.New("block has no text")
)

// Session is one open document: the block arena plus the state shared by
// all blocks of the document (selection, line index, caret).
type Session struct {
	id      uuid.UUID
	cfg     Config
	styles  *style.Table
	host    Host
	anim    anim.Animator
	newLeaf func(text string) ast.Node
	logger  *log.Logger
	ctx     context.Context

	blocks *arena.Arena[Block]
	root   arena.Handle

	selected   arena.Handle
	lineStarts map[int]arena.Handle
	lastLine   int
	lastX      int

	focus  arena.Handle
	cursor int

	grab       arena.Handle
	press      geom.Point
	grabOffset geom.Point

	pending []arena.Handle
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Engine messages are logged at Debug.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithConfig replaces [DefaultConfig].
func WithConfig(c Config) Option {
	return func(s *Session) { s.cfg = c }
}

// WithStyles sets the style table used when blocks are constructed.
func WithStyles(t *style.Table) Option {
	return func(s *Session) { s.styles = t }
}

// WithHost sets the front end receiving notifications.
func WithHost(h Host) Option {
	return func(s *Session) { s.host = h }
}

// WithAnimator sets the geometry animator. The default completes every
// transition immediately and reports it to the host.
func WithAnimator(a anim.Animator) Option {
	return func(s *Session) { s.anim = a }
}

// WithLeafFactory sets the constructor for leaves created by line splits.
func WithLeafFactory(fn func(text string) ast.Node) Option {
	return func(s *Session) { s.newLeaf = fn }
}

// WithContext sets the context passed to observability hooks.
func WithContext(ctx context.Context) Option {
	return func(s *Session) { s.ctx = ctx }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		id:         uuid.New(),
		cfg:        DefaultConfig(),
		lineStarts: make(map[int]arena.Handle),
		lastX:      -1,
		blocks:     arena.New[Block](),
		ctx:        context.Background(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.styles == nil {
		s.styles = style.New()
	}
	if s.host == nil {
		s.host = NopHost{}
	}
	if s.anim == nil {
		s.anim = anim.Instant{OnFinish: func(h arena.Handle) { s.host.TransitionFinished(h) }}
	}
	if s.newLeaf == nil {
		s.newLeaf = func(text string) ast.Node { return ast.NewLeaf(text) }
	}
	return s
}

// ID identifies the session in logs and snapshots.
func (s *Session) ID() uuid.UUID { return s.id }

// Config returns the layout metrics.
func (s *Session) Config() Config { return s.cfg }

// Styles returns the style table.
func (s *Session) Styles() *style.Table { return s.styles }

func (s *Session) get(h arena.Handle) *Block {
	b, _ := s.blocks.Get(h)
	return b
}

func handleOf(b *Block) arena.Handle {
	if b == nil {
		return arena.Nil
	}
	return b.self
}

// lookup resolves a caller supplied handle. Blocks awaiting retirement do
// not resolve.
func (s *Session) lookup(h arena.Handle) (*Block, error) {
	b := s.get(h)
	if b == nil || s.isPending(b) {
		return nil, bterr.Wrap(bterr.ErrCodeStaleHandle, ErrStaleHandle, "block %s", h)
	}
	return b, nil
}

// Block returns the block addressed by h.
func (s *Session) Block(h arena.Handle) (*Block, error) {
	return s.lookup(h)
}

// Root returns the document root: the first root attached that is still
// alive.
func (s *Session) Root() arena.Handle { return s.root }

// Roots returns every parentless block in paint order. Elevated blocks come
// last.
func (s *Session) Roots() []arena.Handle {
	var low, high []arena.Handle
	for h, b := range s.blocks.All() {
		if !b.parent.IsNil() || s.isPending(b) {
			continue
		}
		if b.elevated {
			high = append(high, h)
		} else {
			low = append(low, h)
		}
	}
	return append(low, high...)
}

// Blocks returns every live block in paint order: roots as returned by
// [Session.Roots], each followed by its subtree in pre-order.
func (s *Session) Blocks() []arena.Handle {
	var out []arena.Handle
	for _, r := range s.Roots() {
		s.get(r).walk(func(b *Block) bool {
			out = append(out, b.self)
			return true
		})
	}
	return out
}

// Len returns the number of live blocks.
func (s *Session) Len() int { return s.blocks.Len() }

// Selected returns the selected block, or [arena.Nil].
func (s *Session) Selected() arena.Handle { return s.selected }

// LineStart returns the outermost block starting line n.
func (s *Session) LineStart(n int) (arena.Handle, bool) {
	h, ok := s.lineStarts[n]
	if !ok || s.get(h) == nil {
		return arena.Nil, false
	}
	return h, true
}

// LastLine returns the last line index of the document.
func (s *Session) LastLine() int { return s.lastLine }

// Text returns the source text of the document root.
func (s *Session) Text() string {
	r := s.get(s.root)
	if r == nil {
		return ""
	}
	return r.node.Root().Text()
}

// Pending returns the blocks retired by the running operation. It is empty
// between public operations.
func (s *Session) Pending() []arena.Handle { return slices.Clone(s.pending) }

// Flush frees retired blocks immediately.
func (s *Session) Flush() { s.drain() }

// AttachRoot wraps node, which becomes a floating root, and lays it out.
// The first root attached is the document root.
func (s *Session) AttachRoot(node ast.Node) arena.Handle {
	b := s.newBlock(node, nil)
	if s.get(s.root) == nil {
		s.root = b.self
	}
	b.updateAll(false)
	s.logger.Debug("attached root", "session", s.id, "block", b.self, "blocks", s.blocks.Len())
	s.finish()
	return b.self
}

// Attach wraps node as a new child of parent. A node that is not yet part
// of the parse tree is appended to the parent's node.
func (s *Session) Attach(node ast.Node, parent arena.Handle) (arena.Handle, error) {
	p, err := s.lookup(parent)
	if err != nil {
		return arena.Nil, err
	}
	b := s.newBlock(node, p)
	b.updateAll(false)
	s.finish()
	return b.self, nil
}

// SetParent moves h under parent, appending it after the last child. A nil
// parent detaches h and leaves it parentless. Moving a block below itself
// is ignored.
func (s *Session) SetParent(h, parent arena.Handle) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	var p *Block
	if !parent.IsNil() {
		if p, err = s.lookup(parent); err != nil {
			return err
		}
		if p == b || p.node.HasAncestor(b.node) {
			s.logger.Debug("ignored reparent below self", "block", h, "parent", parent)
			return nil
		}
	}
	old := b.parentBlock()
	b.setParentItem(p)
	if old != nil {
		old.updateAll(false)
	}
	b.pos = b.computePos()
	b.rect = b.computeRect()
	b.updateAll(false)
	s.finish()
	return nil
}

// StackBefore moves h in front of its sibling sib.
func (s *Session) StackBefore(h, sib arena.Handle) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	t, err := s.lookup(sib)
	if err != nil {
		return err
	}
	b.stackBefore(t)
	b.updateAll(false)
	s.finish()
	return nil
}

// Remove detaches h together with every ancestor left without children and
// retires them.
func (s *Session) Remove(h arena.Handle) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	toDelete, survivor := b.removeBlock()
	s.retire(b)
	s.retire(toDelete...)
	if survivor != nil {
		survivor.updateAll(true)
	}
	s.finish()
	return nil
}

// Update recomputes the tree containing h.
func (s *Session) Update(h arena.Handle, animate bool) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	b.updateAll(animate)
	s.finish()
	return nil
}

func (s *Session) retire(bs ...*Block) {
	for _, b := range bs {
		if b != nil && !s.isPending(b) {
			s.pending = append(s.pending, b.self)
		}
	}
}

func (s *Session) isPending(b *Block) bool {
	return slices.Contains(s.pending, b.self)
}

// drain frees every retired block together with its subtree.
func (s *Session) drain() {
	if len(s.pending) == 0 {
		return
	}
	n := 0
	for _, h := range s.pending {
		if b := s.get(h); b != nil {
			n += s.destroy(b)
		}
	}
	s.pending = s.pending[:0]
	s.logger.Debug("retired blocks", "session", s.id, "count", n, "live", s.blocks.Len())
	observability.Layout().OnRetire(s.ctx, n)
}

func (s *Session) destroy(b *Block) int {
	n := 1
	for _, c := range b.children() {
		n += s.destroy(c)
	}
	if s.selected == b.self {
		s.selected = arena.Nil
	}
	if s.focus == b.self {
		s.focus, s.cursor = arena.Nil, 0
	}
	if s.grab == b.self {
		s.grab = arena.Nil
	}
	if s.root == b.self {
		s.root = arena.Nil
	}
	for line, h := range s.lineStarts {
		if h == b.self {
			delete(s.lineStarts, line)
		}
	}
	if b.node.Block() == b.self {
		b.node.SetBlock(arena.Nil)
	}
	s.blocks.Free(b.self)
	return n
}

// finish ends a public operation.
func (s *Session) finish() {
	s.drain()
	s.host.Redraw()
}

func (s *Session) reportPass(main *Block, visited int, start time.Time) {
	d := time.Since(start)
	s.logger.Debug("update pass", "session", s.id, "root", main.self, "blocks", visited, "took", d)
	observability.Layout().OnUpdatePass(s.ctx, main.self.String(), visited, d)
}
