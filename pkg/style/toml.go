package style

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blocktree/pkg/ast"
)

// Keys naming the default entries in a style file.
const (
	DefaultTextKey  = "text_style"
	DefaultBlockKey = "block_style"
)

// File is the TOML form of a style overlay:
//
//	[styles.keyword]
//	foreground = "#f92672"
//	bold = true
//
//	[formats.block_style]
//	selected = "#3b82f6"
type File struct {
	Styles  map[string]Style  `toml:"styles"`
	Formats map[string]Format `toml:"formats"`
}

// Apply overlays f onto t. Keys are kind names, or [DefaultTextKey] and
// [DefaultBlockKey] for the defaults.
func (f File) Apply(t *Table) error {
	for name, s := range f.Styles {
		if name == DefaultTextKey {
			t.DefaultText = s
			continue
		}
		k, ok := ast.ParseKind(name)
		if !ok {
			return fmt.Errorf("styles.%s: unknown kind", name)
		}
		t.SetText(k, s)
	}
	for name, fm := range f.Formats {
		if name == DefaultBlockKey {
			t.DefaultFormat = t.DefaultFormat.merge(fm)
			continue
		}
		k, ok := ast.ParseKind(name)
		if !ok {
			return fmt.Errorf("formats.%s: unknown kind", name)
		}
		t.SetBlock(k, fm)
	}
	return nil
}

// Decode parses TOML data and overlays it onto t.
func Decode(data []byte, t *Table) error {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return err
	}
	return f.Apply(t)
}

// Load reads a TOML style file and overlays it onto t.
func Load(path string, t *Table) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Decode(data, t)
}
