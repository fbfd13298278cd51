// Package session owns the per-invocation completion state: the immutable
// candidate set fetched when the cursor position changes, the memoizing
// classifier over it, and the scratch arena reused by every keystroke's
// query. Queries filter, rank, and select against that state without
// mutating it, so a canceled or abandoned query leaves nothing behind.
package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/rankserve/internal/utils"
	"github.com/bastiangx/rankserve/pkg/arena"
	"github.com/bastiangx/rankserve/pkg/candidate"
	"github.com/bastiangx/rankserve/pkg/classify"
	"github.com/bastiangx/rankserve/pkg/rank"
	"github.com/bastiangx/rankserve/pkg/topk"
)

// Location is a cursor position in a source file. Sessions are keyed by
// it: a query at a different location invalidates the candidate set.
type Location struct {
	Path   string
	Line   int
	Column int
}

// CompletionContext describes the completion invocation the backend saw
// when it produced the candidate set.
type CompletionContext struct {
	Kind candidate.ContextKind
	// ReceiverType is the base expression's type name for member
	// completions, empty otherwise.
	ReceiverType string
}

// Backend produces candidates for a location and serves the lazy
// per-candidate signals the classifier asks for afterwards.
type Backend interface {
	classify.Source
	FetchCandidates(ctx context.Context, loc Location) (CompletionContext, []candidate.Candidate, error)
}

// Matcher scores a candidate's filter text against the typed prefix.
type Matcher interface {
	Match(text, pattern string) (score float64, matched bool)
}

// Options tunes one session. Zero values fall back to defaults.
type Options struct {
	// MaxResults caps the winner list per query.
	MaxResults int
	// AnnotateResults folds the defining module into each result's detail.
	AnnotateResults bool
	// SemanticDebug attaches a ranking breakdown to every result.
	SemanticDebug bool
	// Workers bounds WarmUp parallelism.
	Workers int

	ArenaPages    int
	ArenaPageSize int
}

const (
	DefaultMaxResults = 256
	DefaultWorkers    = 4

	defaultArenaPages    = 8
	defaultArenaPageSize = 16384
)

// Result is one selected winner in display order.
type Result struct {
	// Index is the candidate's position in the session's original set.
	Index int
	Kind  candidate.Kind

	Label      string
	FilterText string
	InsertText string
	EraseLen   int
	ModuleName string
	TypeName   string
	// Detail is the display annotation next to the label.
	Detail string

	// GroupID ties results sharing a base name together, -1 if ungrouped.
	GroupID       int
	HasDiagnostic bool

	TextScore     float64
	SemanticScore float64
	Bucket        rank.PriorityBucket

	// Debug is the ranking breakdown, set only in semantic debug mode.
	Debug string
}

// Session holds the candidate set for one location.
type Session struct {
	loc     Location
	cctx    CompletionContext
	cands   []candidate.Candidate
	cls     *classify.Classifier
	matcher Matcher
	scratch *arena.Arena[rank.Scored]
	opts    Options
}

// New fetches the candidate set at loc and prepares the session around it.
// pop may be nil when no popularity tables are loaded.
func New(ctx context.Context, backend Backend, matcher Matcher, pop classify.PopularityProvider, loc Location, opts Options) (*Session, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.ArenaPages <= 0 {
		opts.ArenaPages = defaultArenaPages
	}
	if opts.ArenaPageSize <= 0 {
		opts.ArenaPageSize = defaultArenaPageSize
	}

	cctx, cands, err := backend.FetchCandidates(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("session: fetching candidates at %s:%d:%d: %w",
			loc.Path, loc.Line, loc.Column, err)
	}
	log.Debugf("session: %d candidates at %s:%d:%d", len(cands), loc.Path, loc.Line, loc.Column)

	return &Session{
		loc:   loc,
		cctx:  cctx,
		cands: cands,
		cls: classify.New(cands, backend, pop, classify.Options{
			ContextKind:  cctx.Kind,
			ReceiverType: cctx.ReceiverType,
		}),
		matcher: matcher,
		scratch: arena.New[rank.Scored](opts.ArenaPages, opts.ArenaPageSize),
		opts:    opts,
	}, nil
}

// Location returns the cursor position the session was built for.
func (s *Session) Location() Location { return s.loc }

// Len returns the size of the immutable candidate set.
func (s *Session) Len() int { return len(s.cands) }

// WarmUp classifies every candidate ahead of the first query.
func (s *Session) WarmUp(ctx context.Context) error {
	return s.cls.WarmUp(ctx, s.opts.Workers)
}

// cancelStride bounds how stale a query's view of ctx can get while
// walking a large candidate set.
const cancelStride = 1024

// Query filters the session's candidates by prefix, ranks the survivors,
// and returns the best in display order. limit narrows the result count
// below the session's MaxResults for this call only; zero or negative
// means MaxResults. The candidate set is untouched; scratch state is
// released before returning on every path.
func (s *Session) Query(ctx context.Context, prefix string, limit int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := s.scratch.Alloc(len(s.cands))
	defer s.scratch.Free(buf)

	scored := buf.Data[:0]
	for i := range s.cands {
		if i%cancelStride == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text, ok := s.matcher.Match(s.cands[i].FilterText, prefix)
		if !ok {
			continue
		}
		cls := s.cls.Classification(i)
		scored = append(scored, rank.Scored{
			Bucket: rank.BucketFor(s.cctx.Kind, s.cands[i].Kind, cls),
			Score:  rank.Score{TextMatch: text, Semantic: rank.SemanticScore(cls)},
			Index:  i,
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := s.opts.MaxResults
	if limit > 0 && limit < k {
		k = limit
	}
	winners := topk.Select(scored, k, rank.Better)
	sort.Slice(winners, func(i, j int) bool {
		return rank.Better(winners[i], winners[j])
	})
	return s.render(winners), nil
}

func (s *Session) render(winners []rank.Scored) []Result {
	results := make([]Result, len(winners))
	groups := make(map[string]int)

	for i, w := range winners {
		cand := &s.cands[w.Index]
		r := &results[i]
		r.Index = w.Index
		r.Kind = cand.Kind
		r.Label = cand.Label
		r.FilterText = cand.FilterText
		r.InsertText = cand.InsertText
		r.EraseLen = cand.EraseLen
		r.ModuleName = cand.ModuleName
		r.TypeName = cand.TypeName
		r.HasDiagnostic = cand.HasDiagnostic
		r.TextScore = w.Score.TextMatch
		r.SemanticScore = w.Score.Semantic
		r.Bucket = w.Bucket
		r.GroupID = s.groupID(cand, groups)

		r.Detail = cand.TypeName
		if s.opts.AnnotateResults && cand.ModuleName != "" {
			if r.Detail == "" {
				r.Detail = cand.ModuleName
			} else {
				r.Detail = r.Detail + " (" + cand.ModuleName + ")"
			}
		}
		if s.opts.SemanticDebug {
			r.Debug = fmt.Sprintf("bucket=%s semantic=%.4f text=%.1f index=%d",
				w.Bucket, w.Score.Semantic, w.Score.TextMatch, w.Index)
		}
	}
	return results
}

// groupID assigns one id per distinct base name so overload sets collapse
// in clients that group. Variables and keywords have no overloads and stay
// ungrouped.
func (s *Session) groupID(cand *candidate.Candidate, groups map[string]int) int {
	if cand.Kind.IsVariableLike() || cand.Kind == candidate.KindKeyword {
		return -1
	}
	base := utils.BaseName(cand.FilterText)
	if base == "" {
		return -1
	}
	id, ok := groups[base]
	if !ok {
		id = len(groups)
		groups[base] = id
	}
	return id
}
