package pipeline

import (
	"context"
	"slices"

	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/ast"
	"github.com/matzehuels/blocktree/pkg/block"
)

// NewSession attaches doc to a new session configured by opts and folds
// the requested lines.
func NewSession(ctx context.Context, doc ast.Node, opts Options) (*block.Session, error) {
	sessOpts, err := opts.Config.Options()
	if err != nil {
		return nil, err
	}
	sessOpts = append(sessOpts, block.WithContext(ctx))
	if opts.Logger != nil {
		sessOpts = append(sessOpts, block.WithLogger(opts.Logger))
	}
	s := block.New(sessOpts...)
	s.AttachRoot(doc)
	Fold(s, opts.Fold)
	return s, nil
}

// foldable descends from h through first children on the same line until
// it reaches a block with a fold control. Roots are never folded.
func foldable(s *block.Session, h arena.Handle, line int) arena.Handle {
	for {
		b, err := s.Block(h)
		if err != nil || b.Line() != line {
			return arena.Nil
		}
		if s.HasFoldControl(h) && !b.Parent().IsNil() {
			return h
		}
		kids := b.Children()
		if len(kids) == 0 {
			return arena.Nil
		}
		h = kids[0]
	}
}

// Fold folds the outermost foldable block starting on each of the given
// 1-based lines. Lines without such a block are skipped. Lines are folded
// bottom up so that earlier line numbers stay valid.
func Fold(s *block.Session, lines []int) int {
	lines = slices.Clone(lines)
	slices.Sort(lines)
	slices.Reverse(lines)
	folded := 0
	for _, l := range slices.Compact(lines) {
		h, ok := s.LineStart(l - 1)
		if !ok {
			continue
		}
		if h = foldable(s, h, l-1); h.IsNil() {
			continue
		}
		if err := s.SetFolded(h, true); err == nil {
			folded++
		}
	}
	return folded
}
