package cli

import (
	"fmt"

	"github.com/bastiangx/rankserve/internal/utils"
	"github.com/bastiangx/rankserve/pkg/candidate"
	"github.com/bastiangx/rankserve/pkg/session"
)

// candidateDump is the TOML shape of a candidate set captured for offline
// debugging. Each [[candidate]] block names its signals symbolically so
// dumps stay hand-editable.
type candidateDump struct {
	Context    string          `toml:"context"`
	Receiver   string          `toml:"receiver"`
	Candidates []dumpCandidate `toml:"candidate"`
}

type dumpCandidate struct {
	Label      string `toml:"label"`
	Filter     string `toml:"filter"`
	Insert     string `toml:"insert"`
	Kind       string `toml:"kind"`
	Module     string `toml:"module"`
	Type       string `toml:"type"`
	System     bool   `toml:"system"`
	Deprecated bool   `toml:"deprecated"`

	Context  string `toml:"semantic_context"`
	Relation string `toml:"type_relation"`
	Flair    uint32 `toml:"flair"`
	Depth    int    `toml:"import_depth"`
}

var contextNames = map[string]candidate.SemanticContext{
	"":                  candidate.ContextNone,
	"none":              candidate.ContextNone,
	"local":             candidate.ContextLocal,
	"current-container": candidate.ContextCurrentContainer,
	"super":             candidate.ContextSuper,
	"outer-container":   candidate.ContextOuterContainer,
	"current-module":    candidate.ContextCurrentModule,
	"other-module":      candidate.ContextOtherModule,
}

var relationNames = map[string]candidate.TypeRelation{
	"":               candidate.RelationUnknown,
	"unknown":        candidate.RelationUnknown,
	"not-applicable": candidate.RelationNotApplicable,
	"invalid":        candidate.RelationInvalid,
	"unrelated":      candidate.RelationUnrelated,
	"convertible":    candidate.RelationConvertible,
	"identical":      candidate.RelationIdentical,
}

// LoadCandidateDump reads a TOML candidate dump into a backend the debug
// REPL can query.
func LoadCandidateDump(path string) (*session.SliceBackend, error) {
	var dump candidateDump
	if err := utils.LoadTOMLFile(path, &dump); err != nil {
		return nil, fmt.Errorf("cli: loading candidate dump %s: %w", path, err)
	}

	ctxKind := candidate.ContextKindGeneral
	if dump.Context == "unresolved-member" {
		ctxKind = candidate.ContextKindUnresolvedMember
	}

	backend := &session.SliceBackend{
		Ctx: session.CompletionContext{
			Kind:         ctxKind,
			ReceiverType: dump.Receiver,
		},
		Cands:   make([]candidate.Candidate, len(dump.Candidates)),
		Signals: make([]session.Signals, len(dump.Candidates)),
	}

	for i, d := range dump.Candidates {
		kind, ok := candidate.KindFromName(d.Kind)
		if !ok && d.Kind != "" {
			return nil, fmt.Errorf("cli: candidate %d has unknown kind %q", i, d.Kind)
		}
		sctx, ok := contextNames[d.Context]
		if !ok {
			return nil, fmt.Errorf("cli: candidate %d has unknown semantic context %q", i, d.Context)
		}
		rel, ok := relationNames[d.Relation]
		if !ok {
			return nil, fmt.Errorf("cli: candidate %d has unknown type relation %q", i, d.Relation)
		}

		filter := d.Filter
		if filter == "" {
			filter = d.Label
		}
		insert := d.Insert
		if insert == "" {
			insert = filter
		}
		nr := candidate.Recommended
		if d.Deprecated {
			nr = candidate.ReasonDeprecated
		}

		backend.Cands[i] = candidate.Candidate{
			Index:          i,
			Label:          d.Label,
			FilterText:     filter,
			InsertText:     insert,
			Kind:           kind,
			ModuleName:     d.Module,
			TypeName:       d.Type,
			IsSystem:       d.System,
			NotRecommended: nr,
		}
		backend.Signals[i] = session.Signals{
			Context:       sctx,
			TypeRelation:  rel,
			FlairBits:     d.Flair,
			ImportDepth:   d.Depth,
			ModImported:   true,
			HasImportInfo: true,
		}
	}
	return backend, nil
}
