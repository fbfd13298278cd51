package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/rankserve/pkg/classify"
	"github.com/bastiangx/rankserve/pkg/config"
	"github.com/bastiangx/rankserve/pkg/encode"
	"github.com/bastiangx/rankserve/pkg/session"
)

// Server handles the IPC for candidate ranking
type Server struct {
	backend session.Backend
	matcher session.Matcher
	pop     classify.PopularityProvider
	cfg     *config.Config
	cfgPath string

	dec *msgpack.Decoder
	enc *msgpack.Encoder

	// current is the session for the last seen cursor position.
	current *session.Session
}

// NewServer creates a ranking server using stdin/stdout for IPC.
// pop may be nil when popularity tables are disabled.
func NewServer(backend session.Backend, matcher session.Matcher, pop classify.PopularityProvider, cfg *config.Config, cfgPath string) *Server {
	return newServerIO(backend, matcher, pop, cfg, cfgPath, os.Stdin, os.Stdout)
}

func newServerIO(backend session.Backend, matcher session.Matcher, pop classify.PopularityProvider, cfg *config.Config, cfgPath string, r io.Reader, w io.Writer) *Server {
	return &Server{
		backend: backend,
		matcher: matcher,
		pop:     pop,
		cfg:     cfg,
		cfgPath: cfgPath,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests. Returns nil on EOF or when ctx
// is canceled between requests.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")

	s.send(StatusResponse{Status: "ready"})

	for {
		if ctx.Err() != nil {
			return nil
		}
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			// The stream position is undefined after a failed decode,
			// so the loop cannot safely continue.
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			return fmt.Errorf("decoding request: %w", err)
		}
		s.handleRequest(ctx, request)
	}
}

func (s *Server) handleRequest(ctx context.Context, request Request) {
	switch request.Command {
	case "complete":
		s.handleComplete(ctx, request)
	case "config":
		s.handleConfig(request)
	case "health":
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Command), 400)
	}
}

// handleComplete ranks the session's candidates against the typed prefix.
// It validates the prefix bounds, reuses the cached session when the
// cursor position is unchanged, and rebuilds it otherwise.
func (s *Server) handleComplete(ctx context.Context, request Request) {
	prefix := request.Prefix

	if len(prefix) < s.cfg.Server.MinPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix must be at least %d characters", s.cfg.Server.MinPrefix), 400)
		log.Debug("Prefix is too short in request")
		return
	}
	if len(prefix) > s.cfg.Server.MaxPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.cfg.Server.MaxPrefix), 400)
		log.Debug("Prefix is too long in request")
		return
	}

	loc := session.Location{Path: request.Path, Line: request.Line, Column: request.Column}

	start := time.Now()
	sess, err := s.sessionFor(ctx, loc)
	if err != nil {
		s.sendError(request.ID, fmt.Sprintf("Fetching candidates: %v", err), 500)
		return
	}
	results, err := sess.Query(ctx, prefix, request.Limit)
	if err != nil {
		s.sendError(request.ID, fmt.Sprintf("Ranking: %v", err), 500)
		return
	}
	elapsed := time.Since(start)

	response := CompletionResponse{
		ID:         request.ID,
		Count:      len(results),
		Candidates: sess.Len(),
		TimeTaken:  elapsed.Milliseconds(),
	}
	if request.Binary {
		response.Payload = encode.Encode(recordsFrom(results))
	} else {
		entries := make([]ResultEntry, len(results))
		for i, r := range results {
			entries[i] = ResultEntry{
				Label:  r.Label,
				Insert: r.InsertText,
				Erase:  r.EraseLen,
				Detail: r.Detail,
				Group:  r.GroupID,
				Kind:   uint8(r.Kind),
				Debug:  r.Debug,
			}
		}
		response.Results = entries
	}
	s.send(response)
}

// recordsFrom projects session results into the encoded record shape.
func recordsFrom(results []session.Result) []encode.Record {
	records := make([]encode.Record, len(results))
	for i, r := range results {
		records[i] = encode.Record{
			Index:         uint32(r.Index),
			Kind:          uint8(r.Kind),
			Label:         r.Label,
			FilterText:    r.FilterText,
			ModuleName:    r.ModuleName,
			TypeName:      r.TypeName,
			InsertText:    r.InsertText,
			TextScore:     r.TextScore,
			SemanticScore: r.SemanticScore,
			EraseLen:      uint16(r.EraseLen),
			GroupID:       int32(r.GroupID),
			HasDiagnostic: r.HasDiagnostic,
		}
	}
	return records
}

// sessionFor returns the cached session when the cursor position matches,
// otherwise builds a fresh one. The cache is keyed on location alone;
// per-request limits are applied at query time so they never force a
// refetch or a cold classifier.
func (s *Server) sessionFor(ctx context.Context, loc session.Location) (*session.Session, error) {
	if s.current != nil && s.current.Location() == loc {
		return s.current, nil
	}

	opts := session.Options{
		MaxResults:      s.cfg.Server.MaxResults,
		AnnotateResults: s.cfg.Server.AnnotateResults,
		SemanticDebug:   s.cfg.Server.SemanticDebug,
		Workers:         s.cfg.Ranking.ClassifierWorkers,
		ArenaPages:      s.cfg.Ranking.ArenaPages,
		ArenaPageSize:   s.cfg.Ranking.ArenaPageSize,
	}

	sess, err := session.New(ctx, s.backend, s.matcher, s.pop, loc, opts)
	if err != nil {
		return nil, err
	}
	s.current = sess
	return sess, nil
}

// handleConfig adjusts server parameters without restart and persists
// them when a config path is known.
func (s *Server) handleConfig(request Request) {
	if request.MaxResults == nil && request.Debug == nil {
		s.send(ConfigResponse{ID: request.ID, Status: "unchanged"})
		return
	}
	if request.MaxResults != nil {
		s.cfg.Server.MaxResults = *request.MaxResults
	}
	if request.Debug != nil {
		s.cfg.Server.SemanticDebug = *request.Debug
	}
	// Options are baked into the session at build time.
	s.current = nil

	if s.cfgPath != "" {
		if err := config.SaveConfig(s.cfg, s.cfgPath); err != nil {
			log.Warnf("Persisting config to %s: %v", s.cfgPath, err)
			s.send(ConfigResponse{ID: request.ID, Status: "applied", Error: err.Error()})
			return
		}
	}
	s.send(ConfigResponse{ID: request.ID, Status: "ok"})
}

func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(CompletionError{ID: id, Error: message, Code: code})
}
