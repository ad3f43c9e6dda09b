// Package pkg provides the libraries of Blocktree, a structured code editor
// engine that presents source code as nested, foldable blocks.
//
// # Overview
//
// A document is parsed into a tree of nodes. Every important node is wrapped
// in a block: a rectangle positioned relative to its parent. Blocks are laid
// out in rows, can be selected, folded and dragged, and their leaves carry
// editable text. The pkg directory is organized as follows:
//
//  1. Model: [ast] (parse tree), [arena] (handle-addressed storage),
//     [geom] (2D primitives)
//  2. Engine: [block] (layout, editing, caret, drag and drop), [anim]
//     (geometry transitions)
//  3. Presentation: [style] (text styles and block formats), [render]
//     (text, JSON snapshots, DOT, SVG)
//  4. Orchestration: [pipeline] (load → layout → render), [cache],
//     [config]
//  5. Support: [errors], [observability], [buildinfo]
//
// # Data Flow
//
//	source text or JSON tree
//	         ↓
//	    [ast] Parse / Decode
//	         ↓
//	    [block] Session.AttachRoot (layout in one top-down pass)
//	         ↓
//	    edits, folds, drags (each followed by a relayout)
//	         ↓
//	    [render] Text / Take / ToDOT / SceneSVG
//
// # Quick Start
//
//	s := block.New()
//	s.AttachRoot(ast.Parse("if (x) {\n  y;\n}\nz;\n"))
//
//	root, _ := s.Block(s.Root())
//	_ = s.SetFolded(root.Children()[0], true)
//
//	fmt.Print(render.Text(s, render.TextOptions{Plain: true}))
//
// The [pipeline] package does the same from a file name and bytes, applies
// the user's [config] and caches exports:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Name:    "main.c",
//	    Source:  src,
//	    Formats: []string{pipeline.FormatText, pipeline.FormatSVG},
//	})
//
// # Testing
//
//	go test ./pkg/...            # all packages
//	go test -short ./pkg/...     # skip Graphviz rendering
//	go test -run Example ./...   # examples only
package pkg
