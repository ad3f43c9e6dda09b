package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/blocktree/pkg/block"
	"github.com/matzehuels/blocktree/pkg/render"
)

// Snapshot returns the layout snapshot of s as JSON. The session id is
// left out so that equal layouts encode identically.
func Snapshot(s *block.Session) ([]byte, error) {
	sn := render.Take(s)
	sn.Session = ""
	return sn.Marshal()
}

// RenderFormat produces one artifact from s.
func RenderFormat(ctx context.Context, s *block.Session, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(render.Text(s, render.TextOptions{Plain: true, LineNumbers: opts.Detailed})), nil
	case FormatJSON:
		return Snapshot(s)
	case FormatDOT:
		return []byte(render.ToDOT(s, render.DOTOptions{Detailed: opts.Detailed})), nil
	case FormatSVG:
		return render.RenderSVG(ctx, render.ToDOT(s, render.DOTOptions{Detailed: opts.Detailed}))
	case FormatScene:
		return render.SceneSVG(s, render.SceneOptions{Frames: opts.Detailed, Padding: s.Config().Offset.X}), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, s *block.Session, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, s, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
