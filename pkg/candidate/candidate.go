// Package candidate defines the completion candidate data model: the raw
// candidate record handed over by the analyzer backend, the coarse kind
// taxonomy, and the semantic classification computed per candidate.
package candidate

// Kind is the coarse syntactic category of a candidate.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindModule
	KindClass
	KindStruct
	KindEnum
	KindEnumCase
	KindProtocol
	KindTypeAlias
	KindAssociatedType
	KindGenericParam
	KindConstructor
	KindDestructor
	KindSubscript
	KindStaticMethod
	KindInstanceMethod
	KindFreeFunction
	KindPrefixOperator
	KindPostfixOperator
	KindInfixOperator
	KindStaticVar
	KindInstanceVar
	KindLocalVar
	KindGlobalVar
	KindKeyword
	KindLiteral
	KindPattern
	KindMacro
)

var kindNames = [...]string{
	KindUnknown:         "unknown",
	KindModule:          "module",
	KindClass:           "class",
	KindStruct:          "struct",
	KindEnum:            "enum",
	KindEnumCase:        "enum-case",
	KindProtocol:        "protocol",
	KindTypeAlias:       "typealias",
	KindAssociatedType:  "associated-type",
	KindGenericParam:    "generic-param",
	KindConstructor:     "constructor",
	KindDestructor:      "destructor",
	KindSubscript:       "subscript",
	KindStaticMethod:    "static-method",
	KindInstanceMethod:  "instance-method",
	KindFreeFunction:    "function",
	KindPrefixOperator:  "prefix-operator",
	KindPostfixOperator: "postfix-operator",
	KindInfixOperator:   "infix-operator",
	KindStaticVar:       "static-var",
	KindInstanceVar:     "instance-var",
	KindLocalVar:        "local-var",
	KindGlobalVar:       "global-var",
	KindKeyword:         "keyword",
	KindLiteral:         "literal",
	KindPattern:         "pattern",
	KindMacro:           "macro",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindFromName parses the String form back into a Kind.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// IsFunctionLike reports whether the candidate inserts a call.
func (k Kind) IsFunctionLike() bool {
	switch k {
	case KindConstructor, KindDestructor, KindSubscript,
		KindStaticMethod, KindInstanceMethod, KindFreeFunction:
		return true
	}
	return false
}

// IsVariableLike reports whether the candidate names a stored or computed value.
func (k Kind) IsVariableLike() bool {
	switch k {
	case KindStaticVar, KindInstanceVar, KindLocalVar, KindGlobalVar:
		return true
	}
	return false
}

// IsTypeLike reports whether the candidate names a nominal type.
func (k Kind) IsTypeLike() bool {
	switch k {
	case KindClass, KindStruct, KindEnum, KindProtocol,
		KindTypeAlias, KindAssociatedType, KindGenericParam:
		return true
	}
	return false
}

// NotRecommendedReason is the backend's reason for discouraging a candidate.
type NotRecommendedReason uint8

const (
	Recommended NotRecommendedReason = iota
	ReasonRedundantImport
	ReasonVariableUsedInOwnDefinition
	ReasonDeprecated
	ReasonSoftDeprecated
	ReasonInvalidAsyncContext
)

// Candidate is one completion suggestion as produced by the analyzer
// backend. Candidates are created once when a session is built and never
// mutated afterwards; Index is the stable identity within that session.
type Candidate struct {
	Index      int
	FilterText string
	Label      string
	TypeName   string
	ModuleName string
	InsertText string
	EraseLen   int
	Kind       Kind

	IsSystem       bool
	HasDiagnostic  bool
	NotRecommended NotRecommendedReason
}
