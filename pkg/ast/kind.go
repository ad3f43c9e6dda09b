package ast

import "strings"

// Kind is the typed category of a parse-tree node. Style lookup and the few
// kind-specific layout rules switch on Kind instead of comparing type names.
type Kind int

const (
	// KindText is a plain text leaf with no more specific category.
	KindText Kind = iota
	// KindProgram is the root of a parsed document.
	KindProgram
	// KindStatement groups the tokens of one statement.
	KindStatement
	// KindBlock is a braced compound. It never gets a fold control.
	KindBlock
	// KindFunctCall is a call expression; its first leaf takes the call style.
	KindFunctCall
	// KindFunctDefinition is a function definition; the first leaf of its
	// declarator takes the definition style.
	KindFunctDefinition
	// KindDeclarator is the declarator part of a definition.
	KindDeclarator
	KindKeyword
	KindIdentifier
	KindNumber
	KindString
	KindComment
	KindOperator
	KindPunctuation
	// KindUnknown marks nodes the parser could not classify.
	KindUnknown
)

var kindNames = [...]string{
	KindText:            "text",
	KindProgram:         "program",
	KindStatement:       "statement",
	KindBlock:           "block",
	KindFunctCall:       "funct_call",
	KindFunctDefinition: "funct_definition",
	KindDeclarator:      "declarator",
	KindKeyword:         "keyword",
	KindIdentifier:      "identifier",
	KindNumber:          "number",
	KindString:          "string",
	KindComment:         "comment",
	KindOperator:        "operator",
	KindPunctuation:     "punctuation",
	KindUnknown:         "unknown",
}

// String returns the kind's canonical name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsFunction reports whether k is a call or a definition. Leaves below a
// function node do not inherit the function's style.
func (k Kind) IsFunction() bool {
	return k == KindFunctCall || k == KindFunctDefinition
}

// ParseKind maps a canonical name back to its Kind. Unrecognized names yield
// KindUnknown and false.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, len(kindNames))
	for i := range kindNames {
		ks[i] = Kind(i)
	}
	return ks
}
