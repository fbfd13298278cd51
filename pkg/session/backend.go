package session

import (
	"context"

	"github.com/bastiangx/rankserve/pkg/candidate"
)

// Signals carries the lazy per-candidate values a SliceBackend serves.
type Signals struct {
	Context       candidate.SemanticContext
	TypeRelation  candidate.TypeRelation
	FlairBits     uint32
	ImportDepth   int
	ModImported   bool
	HasImportInfo bool
}

// SliceBackend serves a fixed candidate set from memory. It backs the
// debug CLI's dump files and tests; a real analyzer sits behind the same
// interface over IPC.
type SliceBackend struct {
	Ctx     CompletionContext
	Cands   []candidate.Candidate
	Signals []Signals
}

var _ Backend = (*SliceBackend)(nil)

func (b *SliceBackend) FetchCandidates(ctx context.Context, loc Location) (CompletionContext, []candidate.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return CompletionContext{}, nil, err
	}
	return b.Ctx, b.Cands, nil
}

func (b *SliceBackend) SemanticContext(index int) (candidate.SemanticContext, error) {
	if index >= len(b.Signals) {
		return candidate.ContextNone, nil
	}
	return b.Signals[index].Context, nil
}

func (b *SliceBackend) TypeRelation(index int) (candidate.TypeRelation, error) {
	if index >= len(b.Signals) {
		return candidate.RelationUnknown, nil
	}
	return b.Signals[index].TypeRelation, nil
}

func (b *SliceBackend) FlairBits(index int) (uint32, error) {
	if index >= len(b.Signals) {
		return 0, nil
	}
	return b.Signals[index].FlairBits, nil
}

func (b *SliceBackend) ImportDepth(index int) (int, bool, error) {
	if index >= len(b.Signals) || !b.Signals[index].HasImportInfo {
		return 0, true, nil
	}
	s := b.Signals[index]
	return s.ImportDepth, s.ModImported, nil
}
