// Package classify computes the per-candidate semantic classification:
// availability, module/scope/structural proximity, type and synchronicity
// compatibility, flair, and popularity. Every dimension is computed at most
// once per candidate and cached for the session's lifetime. Candidates are
// independent, so warm-up runs as a bounded parallel map.
package classify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/bastiangx/rankserve/internal/utils"
	"github.com/bastiangx/rankserve/pkg/candidate"
)

// Source exposes the analyzer backend's lazy per-candidate signals. Each
// accessor may itself be a backend round trip; results are cached here, so
// implementations only need to be safe for concurrent calls.
type Source interface {
	SemanticContext(index int) (candidate.SemanticContext, error)
	TypeRelation(index int) (candidate.TypeRelation, error)
	FlairBits(index int) (uint32, error)
	// ImportDepth reports the import hop count of the candidate's defining
	// module and whether that module is imported at all.
	ImportDepth(index int) (depth int, imported bool, err error)
}

// PopularityProvider is an optional usage-frequency signal, looked up by
// scope and base symbol name.
type PopularityProvider interface {
	Lookup(scope, symbol string) (float64, bool)
}

// Options fixes the completion context for one session.
type Options struct {
	ContextKind candidate.ContextKind
	// ReceiverType is the base expression's type for member completions.
	// When set it scopes popularity lookups; otherwise the candidate's
	// defining module does.
	ReceiverType string
}

type slot struct {
	once sync.Once
	cls  candidate.Classification
}

// Classifier memoizes classifications for one session's candidate set.
type Classifier struct {
	cands []candidate.Candidate
	src   Source
	pop   PopularityProvider
	opts  Options
	slots []slot

	// Degraded dimensions log at most once per session.
	warnedContext atomic.Bool
	warnedType    atomic.Bool
	warnedFlair   atomic.Bool
	warnedDepth   atomic.Bool
}

// New builds a classifier over the session's candidates. pop may be nil.
func New(cands []candidate.Candidate, src Source, pop PopularityProvider, opts Options) *Classifier {
	return &Classifier{
		cands: cands,
		src:   src,
		pop:   pop,
		opts:  opts,
		slots: make([]slot, len(cands)),
	}
}

// Classification returns the cached classification for one candidate,
// computing it on first access. Safe for concurrent use; the per-slot once
// keeps concurrent classification from serializing on a global lock.
func (c *Classifier) Classification(index int) candidate.Classification {
	s := &c.slots[index]
	s.once.Do(func() {
		s.cls = c.compute(index)
	})
	return s.cls
}

// WarmUp classifies every candidate with at most workers goroutines.
// Queries that race with warm-up still see each candidate classified
// exactly once.
func (c *Classifier) WarmUp(ctx context.Context, workers int) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range c.slots {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			c.Classification(i)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (c *Classifier) compute(index int) candidate.Classification {
	cand := &c.cands[index]
	var cls candidate.Classification

	cls.Availability, cls.Synchronicity = availabilityFor(cand.NotRecommended)

	sctx, err := c.src.SemanticContext(index)
	if err != nil {
		c.warnOnce(&c.warnedContext, "semantic context", err)
		sctx = candidate.ContextNone
	}
	cls.Context = sctx
	cls.ScopeProx = scopeFor(sctx)
	cls.ModuleProx = c.moduleFor(index, sctx)
	cls.StructProx = structuralFor(cand)
	cls.TypeCompat = c.typeFor(index)

	bits, err := c.src.FlairBits(index)
	if err != nil {
		c.warnOnce(&c.warnedFlair, "flair", err)
		bits = 0
	}
	cls.Flair = candidate.FlairFromBits(bits)

	cls.Popularity = c.popularityFor(cand)
	return cls
}

// availabilityFor collapses the backend's not-recommended reasons.
// Async-context mismatches stay available and are penalized through the
// synchronicity dimension instead.
func availabilityFor(reason candidate.NotRecommendedReason) (candidate.Availability, candidate.Synchronicity) {
	switch reason {
	case candidate.ReasonDeprecated:
		return candidate.Deprecated, candidate.SyncCompatible
	case candidate.ReasonSoftDeprecated,
		candidate.ReasonRedundantImport,
		candidate.ReasonVariableUsedInOwnDefinition:
		return candidate.SoftDeprecated, candidate.SyncCompatible
	case candidate.ReasonInvalidAsyncContext:
		return candidate.Available, candidate.SyncIncompatible
	default:
		return candidate.Available, candidate.SyncCompatible
	}
}

func scopeFor(sctx candidate.SemanticContext) candidate.ScopeProximity {
	switch sctx {
	case candidate.ContextLocal:
		return candidate.ScopeLocal
	case candidate.ContextCurrentContainer:
		return candidate.ScopeCurrentContainer
	case candidate.ContextSuper:
		return candidate.ScopeInheritedContainer
	case candidate.ContextOuterContainer:
		return candidate.ScopeOuterContainer
	case candidate.ContextCurrentModule, candidate.ContextOtherModule:
		return candidate.ScopeGlobal
	default:
		return candidate.ScopeInapplicable
	}
}

func (c *Classifier) moduleFor(index int, sctx candidate.SemanticContext) candidate.ModuleProximity {
	switch sctx {
	case candidate.ContextNone:
		return candidate.ModuleProximity{State: candidate.ModuleProximityInapplicable}
	case candidate.ContextSuper:
		// Inheritance says nothing about where the base class lives.
		return candidate.ModuleProximity{State: candidate.ModuleProximityUnspecified}
	case candidate.ContextOtherModule:
		depth, imported, err := c.src.ImportDepth(index)
		if err != nil {
			c.warnOnce(&c.warnedDepth, "import depth", err)
			return candidate.ModuleProximity{State: candidate.ModuleProximityUnspecified}
		}
		if !imported {
			return candidate.ModuleProximity{State: candidate.ModuleUnimported}
		}
		return candidate.Imported(depth)
	default:
		return candidate.Imported(0)
	}
}

func structuralFor(cand *candidate.Candidate) candidate.StructuralProximity {
	if cand.Kind == candidate.KindKeyword || cand.Kind == candidate.KindLiteral {
		return candidate.StructuralProximity{State: candidate.StructuralInapplicable}
	}
	if cand.IsSystem {
		return candidate.StructuralProximity{State: candidate.StructuralPlatformLibrary}
	}
	return candidate.StructuralProximity{State: candidate.StructuralProject, Hops: -1}
}

// typeFor projects the raw type relation; unknown collapses into
// inapplicable so candidates are not penalized when no expected type is
// available.
func (c *Classifier) typeFor(index int) candidate.TypeCompatibility {
	rel, err := c.src.TypeRelation(index)
	if err != nil {
		c.warnOnce(&c.warnedType, "type relation", err)
		return candidate.TypeInapplicable
	}
	switch rel {
	case candidate.RelationIdentical:
		return candidate.TypeIdentical
	case candidate.RelationConvertible:
		return candidate.TypeConvertible
	case candidate.RelationUnrelated:
		return candidate.TypeUnrelated
	case candidate.RelationInvalid:
		return candidate.TypeInvalid
	default:
		return candidate.TypeInapplicable
	}
}

func (c *Classifier) popularityFor(cand *candidate.Candidate) candidate.Popularity {
	if c.pop == nil {
		return candidate.NoPopularity
	}
	scope := c.opts.ReceiverType
	if scope == "" {
		scope = cand.ModuleName
	}
	if score, ok := c.pop.Lookup(scope, utils.BaseName(cand.FilterText)); ok {
		return candidate.Popularity{Score: score, Known: true}
	}
	return candidate.NoPopularity
}

func (c *Classifier) warnOnce(flag *atomic.Bool, what string, err error) {
	if flag.CompareAndSwap(false, true) {
		log.Warnf("classify: %s unavailable, degrading to neutral: %v", what, err)
	}
}
