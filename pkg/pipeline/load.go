package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/matzehuels/blocktree/pkg/ast"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
)

// Load builds the parse tree of a document. Documents named *.json are
// decoded as serialized trees; anything else is tokenized with [ast.Parse].
func Load(name string, src []byte) (*ast.Element, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		doc, err := ast.Decode(bytes.NewReader(src))
		if err != nil {
			return nil, bterr.Wrap(bterr.ErrCodeInvalidDocument, err, "decode %s", name)
		}
		return doc, nil
	}
	return ast.Parse(string(src)), nil
}
