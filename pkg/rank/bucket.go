// Package rank turns a candidate's classification and text match score into
// one deterministic ranking key: a coarse priority bucket, a combined
// semantic score, and a tie-break chain ending on the stable candidate
// index so the total order is strict.
package rank

import "github.com/bastiangx/rankserve/pkg/candidate"

// PriorityBucket is the coarse primary ranking tier. Lower is better.
type PriorityBucket uint8

const (
	// Flair-forced buckets sit ahead of the whole type-match grid.
	BucketExpressionSpecific PriorityBucket = iota
	BucketSuperChain

	// Unresolved-member family, used only when the completion context is a
	// member lookup against an inferred or unresolved base type.
	BucketUnresolvedEnumCase
	BucketUnresolvedVariable
	BucketUnresolvedConstructor
	BucketUnresolvedFunction
	BucketUnresolvedOther

	BucketConstructor

	// Type-match grid: expected-type matches crossed with the semantic
	// context distance class, closest first.
	BucketTypeMatchLocal
	BucketTypeMatchCurrentContainer
	BucketTypeMatchSuper
	BucketTypeMatchOuterContainer
	BucketTypeMatchCurrentModule
	BucketTypeMatchOtherModule
	BucketTypeMatchNone

	// Same grid without a type match.
	BucketLocal
	BucketCurrentContainer
	BucketSuper
	BucketOuterContainer
	BucketCurrentModule
	BucketOtherModule
	BucketNone

	// Candidates whose type relation is known to be invalid rank last no
	// matter how close they are.
	BucketInvalidTypeMatch
)

var bucketNames = [...]string{
	BucketExpressionSpecific:        "expression-specific",
	BucketSuperChain:                "super-chain",
	BucketUnresolvedEnumCase:        "unresolved-enum-case",
	BucketUnresolvedVariable:        "unresolved-variable",
	BucketUnresolvedConstructor:     "unresolved-constructor",
	BucketUnresolvedFunction:        "unresolved-function",
	BucketUnresolvedOther:           "unresolved-other",
	BucketConstructor:               "constructor",
	BucketTypeMatchLocal:            "type-match-local",
	BucketTypeMatchCurrentContainer: "type-match-current-container",
	BucketTypeMatchSuper:            "type-match-super",
	BucketTypeMatchOuterContainer:   "type-match-outer-container",
	BucketTypeMatchCurrentModule:    "type-match-current-module",
	BucketTypeMatchOtherModule:      "type-match-other-module",
	BucketTypeMatchNone:             "type-match-no-context",
	BucketLocal:                     "local",
	BucketCurrentContainer:          "current-container",
	BucketSuper:                     "super",
	BucketOuterContainer:            "outer-container",
	BucketCurrentModule:             "current-module",
	BucketOtherModule:               "other-module",
	BucketNone:                      "no-context",
	BucketInvalidTypeMatch:          "invalid-type-match",
}

func (b PriorityBucket) String() string {
	if int(b) < len(bucketNames) {
		return bucketNames[b]
	}
	return "no-context"
}

// gridBuckets maps [typeMatch][contextClass] into the 14-bucket grid.
var gridBuckets = [2][7]PriorityBucket{
	{ // no type match
		candidate.ContextNone:             BucketNone,
		candidate.ContextLocal:            BucketLocal,
		candidate.ContextCurrentContainer: BucketCurrentContainer,
		candidate.ContextSuper:            BucketSuper,
		candidate.ContextOuterContainer:   BucketOuterContainer,
		candidate.ContextCurrentModule:    BucketCurrentModule,
		candidate.ContextOtherModule:      BucketOtherModule,
	},
	{ // type match boost
		candidate.ContextNone:             BucketTypeMatchNone,
		candidate.ContextLocal:            BucketTypeMatchLocal,
		candidate.ContextCurrentContainer: BucketTypeMatchCurrentContainer,
		candidate.ContextSuper:            BucketTypeMatchSuper,
		candidate.ContextOuterContainer:   BucketTypeMatchOuterContainer,
		candidate.ContextCurrentModule:    BucketTypeMatchCurrentModule,
		candidate.ContextOtherModule:      BucketTypeMatchOtherModule,
	},
}

// BucketFor assigns the priority bucket for one candidate. Assignment is a
// pure function of the completion context kind, the candidate kind, and the
// cached classification, so reruns are always identical.
func BucketFor(ctx candidate.ContextKind, kind candidate.Kind, cls candidate.Classification) PriorityBucket {
	if ctx == candidate.ContextKindUnresolvedMember {
		switch {
		case kind == candidate.KindEnumCase:
			return BucketUnresolvedEnumCase
		case kind.IsVariableLike():
			return BucketUnresolvedVariable
		case kind == candidate.KindConstructor:
			return BucketUnresolvedConstructor
		case kind.IsFunctionLike():
			return BucketUnresolvedFunction
		default:
			return BucketUnresolvedOther
		}
	}

	if kind == candidate.KindConstructor {
		return BucketConstructor
	}
	if cls.TypeCompat == candidate.TypeInvalid {
		return BucketInvalidTypeMatch
	}
	if cls.Flair.Has(candidate.FlairExpressionSpecific) {
		return BucketExpressionSpecific
	}
	if cls.Flair.Has(candidate.FlairChainedSuperCall) {
		return BucketSuperChain
	}

	typeMatch := 0
	if (cls.TypeCompat == candidate.TypeIdentical || cls.TypeCompat == candidate.TypeConvertible) &&
		kind != candidate.KindGlobalVar && kind != candidate.KindKeyword {
		typeMatch = 1
	}
	class := cls.Context
	if class > candidate.ContextOtherModule {
		class = candidate.ContextNone
	}
	return gridBuckets[typeMatch][class]
}
