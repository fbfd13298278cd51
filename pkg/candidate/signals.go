package candidate

// Raw signals crossing the analyzer backend boundary. The backend speaks in
// small integers and bitmasks; everything past this file uses the typed
// forms below.

// SemanticContext is the backend's single locality signal. Both module and
// scope proximity are projected from it.
type SemanticContext uint8

const (
	ContextNone SemanticContext = iota
	ContextLocal
	ContextCurrentContainer
	ContextSuper
	ContextOuterContainer
	ContextCurrentModule
	ContextOtherModule
)

var contextNames = [...]string{
	ContextNone:             "none",
	ContextLocal:            "local",
	ContextCurrentContainer: "current-container",
	ContextSuper:            "super",
	ContextOuterContainer:   "outer-container",
	ContextCurrentModule:    "current-module",
	ContextOtherModule:      "other-module",
}

func (c SemanticContext) String() string {
	if int(c) < len(contextNames) {
		return contextNames[c]
	}
	return "none"
}

// TypeRelation is the backend's raw expected-type relation.
type TypeRelation uint8

const (
	RelationUnknown TypeRelation = iota
	RelationNotApplicable
	RelationInvalid
	RelationUnrelated
	RelationConvertible
	RelationIdentical
)

// Flair is a set of situational boost tags, bit-encoded the way the
// backend reports them.
type Flair uint8

const (
	FlairExpressionSpecific Flair = 1 << iota
	FlairChainedSuperCall
	FlairCommonKeywordHere
	FlairRareKeywordHere
	FlairRareTypeHere
	FlairFileScopeExpression
)

// Has reports whether every bit of f2 is set in f.
func (f Flair) Has(f2 Flair) bool { return f&f2 == f2 }

// FlairFromBits translates the backend's raw bitmask, dropping bits this
// version does not know about.
func FlairFromBits(bits uint32) Flair {
	const known = FlairExpressionSpecific | FlairChainedSuperCall |
		FlairCommonKeywordHere | FlairRareKeywordHere |
		FlairRareTypeHere | FlairFileScopeExpression
	return Flair(bits) & known
}

// ContextKind tells the bucket assignment which family of buckets applies.
type ContextKind uint8

const (
	// ContextKindGeneral covers ordinary expression and member completion.
	ContextKindGeneral ContextKind = iota
	// ContextKindUnresolvedMember covers `.member` completion against an
	// inferred or unresolved base type.
	ContextKindUnresolvedMember
)
