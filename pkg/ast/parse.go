package ast

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TabWidth is the number of spaces a tab expands to in [Parse].
const TabWidth = 4

var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "func": true,
	"goto": true, "if": true, "import": true, "int": true, "long": true,
	"package": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "type": true, "typedef": true,
	"union": true, "unsigned": true, "var": true, "void": true, "volatile": true,
	"while": true,
}

var operators = []string{
	"<<=", ">>=", "...",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--", "+=", "-=", "*=", "/=",
	"%=", "&=", "|=", "^=", "->", "::", "<<", ">>", ":=",
}

type token struct {
	text   string
	kind   Kind
	spaces int
	// newline tokens carry the indentation of the following row in spaces
	newline bool
}

// Parse builds a token tree from plain source text.
//
// The result is a "program" container holding one "statement" container per
// statement. Braced compounds become "block" containers whose first and last
// children are the paired brace leaves; an identifier directly followed by
// "(" becomes a "funct_call" container. Indentation becomes the spacing of
// the first node on a row and every row end is recorded as a line-breaking
// flag on the outermost node ending that row, so that Text reproduces the
// source modulo tab expansion and trailing blanks. Empty input yields a
// program holding a single empty leaf.
func Parse(src string) *Element {
	toks, indent := lex(src)
	p := &parser{toks: toks, pending: indent}
	root := NewContainer("program", KindProgram)
	p.sequence(root, false)
	if root.ChildCount() == 0 {
		// keep an editable row in an empty document
		root.AppendChild(NewLeaf(""))
	}
	return root
}

type parser struct {
	toks []token
	i    int
	// indentation waiting for the next node
	pending int
}

func (p *parser) peek() (token, bool) {
	if p.i >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.i], true
}

func (p *parser) next() token {
	t := p.toks[p.i]
	p.i++
	return t
}

// sequence parses statements into c until the input ends or, when closing is
// set, a "}" is reached. The closing brace is left unconsumed.
func (p *parser) sequence(c *Element, closing bool) {
	for {
		t, ok := p.peek()
		if !ok {
			return
		}
		if closing && t.text == "}" && !t.newline {
			return
		}
		if t.newline {
			p.next()
			if last := lastChild(c); last != nil && !last.lineBreaking {
				last.lineBreaking = true
			} else {
				// an empty row
				c.AppendChild(NewLeaf("", LineBreaking(), Spaced(p.pending)))
			}
			p.pending = t.spaces
			continue
		}
		p.statement(c)
	}
}

// statement parses one statement and appends it to c.
func (p *parser) statement(c *Element) {
	stmt := NewContainer("statement", KindStatement)
	stmt.spaces = p.pending
	p.pending = 0
	c.AppendChild(stmt)

	for {
		t, ok := p.peek()
		if !ok {
			return
		}
		if t.newline {
			// the row ends here; sequence marks the statement
			return
		}
		if t.text == "}" {
			if c.kind == KindBlock {
				return
			}
			// stray closing brace
			p.next()
			stmt.AppendChild(p.leaf(t, KindUnknown))
			continue
		}
		p.item(stmt)
		if t.text == ";" {
			return
		}
	}
}

// item parses a single token, call or compound into c.
func (p *parser) item(c *Element) {
	t := p.next()
	switch {
	case t.text == "{":
		blk := NewContainer("block", KindBlock)
		blk.spaces = t.spaces + p.pending
		p.pending = 0
		c.AppendChild(blk)
		t.spaces = 0
		blk.AppendChild(p.leaf(t, KindPunctuation).With(Paired()))
		p.sequence(blk, true)
		if end, ok := p.peek(); ok && end.text == "}" && !end.newline {
			p.next()
			blk.AppendChild(p.leaf(end, KindPunctuation).With(Paired()))
		}
	case t.kind == KindIdentifier && p.followedBy("("):
		call := NewContainer("funct_call", KindFunctCall)
		call.spaces = t.spaces + p.pending
		p.pending = 0
		c.AppendChild(call)
		t.spaces = 0
		call.AppendChild(p.leaf(t, KindIdentifier))
		p.arguments(call)
	default:
		c.AppendChild(p.leaf(t, t.kind))
	}
}

// arguments consumes a parenthesized list, including newlines inside it.
func (p *parser) arguments(call *Element) {
	depth := 0
	for {
		t, ok := p.peek()
		if !ok {
			return
		}
		if t.newline {
			p.next()
			if last := lastLeaf(call); last != nil {
				last.lineBreaking = true
			}
			p.pending = t.spaces
			continue
		}
		if t.text == "{" || t.text == "}" || t.text == ";" {
			return
		}
		switch t.text {
		case "(":
			depth++
		case ")":
			depth--
		}
		p.item(call)
		if depth == 0 {
			return
		}
	}
}

func (p *parser) followedBy(text string) bool {
	t, ok := p.peek()
	return ok && !t.newline && t.spaces == 0 && t.text == text
}

func (p *parser) leaf(t token, kind Kind) *Element {
	e := NewLeaf(t.text, OfKind(kind), Spaced(t.spaces+p.pending))
	p.pending = 0
	if kind == KindUnknown {
		e.unknown = true
	}
	return e
}

func lastChild(e *Element) *Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[len(e.children)-1]
}

func lastLeaf(e *Element) *Element {
	for len(e.children) > 0 {
		e = e.children[len(e.children)-1]
	}
	if e.lineBreaking {
		return nil
	}
	return e
}

// lex splits src into tokens and returns them with the indentation of the
// first row. Every row end is a newline token that records the indentation
// of the row after it.
func lex(src string) ([]token, int) {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if src == "" {
		return nil, 0
	}
	var (
		toks  []token
		first int
	)
	for i, row := range strings.Split(src, "\n") {
		row = strings.TrimRight(strings.ReplaceAll(row, "\t", strings.Repeat(" ", TabWidth)), " ")
		indent := len(row) - len(strings.TrimLeft(row, " "))
		if i == 0 {
			first = indent
		} else {
			toks = append(toks, token{newline: true, spaces: indent})
		}
		toks = append(toks, lexRow(row[indent:])...)
	}
	return toks, first
}

func lexRow(row string) []token {
	var toks []token
	spaces := 0
	for row != "" {
		r, size := utf8.DecodeRuneInString(row)
		if r == ' ' {
			spaces++
			row = row[size:]
			continue
		}
		text, kind := scan(row)
		toks = append(toks, token{text: text, kind: kind, spaces: spaces})
		spaces = 0
		row = row[len(text):]
	}
	return toks
}

// scan returns the token at the start of s and its kind.
func scan(s string) (string, Kind) {
	r, size := utf8.DecodeRuneInString(s)
	switch {
	case strings.HasPrefix(s, "//"):
		return strings.TrimRight(s, " "), KindComment
	case strings.HasPrefix(s, "/*"):
		if end := strings.Index(s[2:], "*/"); end >= 0 {
			return s[:end+4], KindComment
		}
		return strings.TrimRight(s, " "), KindComment
	case r == '"' || r == '\'' || r == '`':
		return scanString(s, r), KindString
	case r == '_' || unicode.IsLetter(r):
		n := scanWhile(s, func(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) })
		if keywords[s[:n]] {
			return s[:n], KindKeyword
		}
		return s[:n], KindIdentifier
	case unicode.IsDigit(r):
		n := scanWhile(s, func(r rune) bool { return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r) })
		return s[:n], KindNumber
	}
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op, KindOperator
		}
	}
	switch r {
	case '(', ')', '[', ']', '{', '}', ';', ',', '.':
		return s[:size], KindPunctuation
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&', '|', '^', '~', '?', ':':
		return s[:size], KindOperator
	}
	return s[:size], KindUnknown
}

func scanString(s string, quote rune) string {
	escaped := false
	for i, r := range s {
		if i == 0 {
			continue
		}
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '`':
			escaped = true
		case r == quote:
			return s[:i+utf8.RuneLen(r)]
		}
	}
	return s
}

func scanWhile(s string, ok func(rune) bool) int {
	for i, r := range s {
		if !ok(r) {
			return i
		}
	}
	return len(s)
}
