package rank

import "github.com/bastiangx/rankserve/pkg/candidate"

// Semantic score weights. The combined score is the product of one factor
// per dimension, so a neutral dimension contributes 1 and drops out, and
// the score stays strictly monotonic in the better direction of every
// dimension. The exact numbers are tuning values; the comparator chain and
// bucket assignment carry the ordering contract.
const (
	weightAvailable      = 1.0
	weightSoftDeprecated = 0.6
	weightDeprecated     = 0.2

	weightScopeLocal     = 1.0
	weightScopeContainer = 0.9
	weightScopeInherited = 0.8
	weightScopeOuter     = 0.7
	weightScopeGlobal    = 0.5

	weightModuleUnimported  = 0.4
	moduleDistancePenalty   = 0.05
	minImportedModuleWeight = 0.6

	weightPlatformLibrary = 0.9

	weightTypeIdentical   = 1.5
	weightTypeConvertible = 1.25
	weightTypeUnrelated   = 0.9
	weightTypeInvalid     = 0.3

	weightSyncIncompatible = 0.2

	weightCommonKeyword   = 1.2
	weightRareKeyword     = 0.8
	weightRareType        = 0.8
	weightFileScopeExpr   = 0.7
	weightExprSpecific    = 1.5
	weightSuperChainFlair = 1.3

	maxPopularityBoost = 1.0
)

// SemanticScore collapses a classification into one real number, higher is
// better.
func SemanticScore(cls candidate.Classification) float64 {
	s := 1.0

	switch cls.Availability {
	case candidate.SoftDeprecated:
		s *= weightSoftDeprecated
	case candidate.Deprecated:
		s *= weightDeprecated
	default:
		s *= weightAvailable
	}

	switch cls.ScopeProx {
	case candidate.ScopeLocal:
		s *= weightScopeLocal
	case candidate.ScopeCurrentContainer:
		s *= weightScopeContainer
	case candidate.ScopeInheritedContainer:
		s *= weightScopeInherited
	case candidate.ScopeOuterContainer:
		s *= weightScopeOuter
	case candidate.ScopeGlobal:
		s *= weightScopeGlobal
	}

	switch cls.ModuleProx.State {
	case candidate.ModuleImported:
		w := 1.0 - moduleDistancePenalty*float64(cls.ModuleProx.Distance)
		if w < minImportedModuleWeight {
			w = minImportedModuleWeight
		}
		s *= w
	case candidate.ModuleUnimported:
		s *= weightModuleUnimported
	}

	if cls.StructProx.State == candidate.StructuralPlatformLibrary {
		s *= weightPlatformLibrary
	}

	switch cls.TypeCompat {
	case candidate.TypeIdentical:
		s *= weightTypeIdentical
	case candidate.TypeConvertible:
		s *= weightTypeConvertible
	case candidate.TypeUnrelated:
		s *= weightTypeUnrelated
	case candidate.TypeInvalid:
		s *= weightTypeInvalid
	}

	if cls.Synchronicity == candidate.SyncIncompatible {
		s *= weightSyncIncompatible
	}

	if cls.Flair.Has(candidate.FlairExpressionSpecific) {
		s *= weightExprSpecific
	}
	if cls.Flair.Has(candidate.FlairChainedSuperCall) {
		s *= weightSuperChainFlair
	}
	if cls.Flair.Has(candidate.FlairCommonKeywordHere) {
		s *= weightCommonKeyword
	}
	if cls.Flair.Has(candidate.FlairRareKeywordHere) {
		s *= weightRareKeyword
	}
	if cls.Flair.Has(candidate.FlairRareTypeHere) {
		s *= weightRareType
	}
	if cls.Flair.Has(candidate.FlairFileScopeExpression) {
		s *= weightFileScopeExpr
	}

	if cls.Popularity.Known {
		p := cls.Popularity.Score
		if p < 0 {
			p = 0
		} else if p > 1 {
			p = 1
		}
		s *= 1.0 + maxPopularityBoost*p
	}

	return s
}
