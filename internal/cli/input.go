// Package cli handles cmd line input and ranking runs for DBG and testing
// various features against captured candidate dumps
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/rankserve/internal/logger"
	"github.com/bastiangx/rankserve/internal/utils"
	"github.com/bastiangx/rankserve/pkg/session"
)

// InputHandler processes user input from stdin, ranking a captured
// candidate set against each typed prefix. It accepts flags to control
// behavior such as minimum and maximum prefix length, result limits, and
// the per-result ranking breakdown.
type InputHandler struct {
	sess            *session.Session
	out             *log.Logger
	minPrefixLength int
	maxPrefixLength int
	resultLimit     int
	requestCount    int
	showBreakdown   bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(sess *session.Session, minLength, maxLength, limit int, showBreakdown bool) *InputHandler {
	return &InputHandler{
		sess:            sess,
		out:             logger.Default(""),
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		resultLimit:     limit,
		showBreakdown:   showBreakdown,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to the handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("RankServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Printf("%s candidates loaded. type a prefix and press Enter to rank (Ctrl+C to exit):", utils.FormatWithCommas(h.sess.Len()))

	for {
		log.Print("> ")
		prefix, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		h.handleInput(prefix)
	}
}

// handleInput ranks the candidate set against a single prefix.
// It validates the prefix's length, runs the query, and prints the
// winners with their buckets and scores to the log.
func (h *InputHandler) handleInput(prefix string) {
	h.requestCount++

	if len(prefix) < h.minPrefixLength {
		log.Errorf("Prefix too short: %s", prefix)
		return
	}
	if len(prefix) > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s", prefix)
		return
	}
	if !utils.IsValidPrefix(prefix) {
		log.Warnf("No results found for prefix: '%s' (not identifier-shaped)", prefix)
		return
	}

	start := time.Now()
	log.Debug("Processing request for", "prefix", prefix)

	results, err := h.sess.Query(context.Background(), prefix, h.resultLimit)
	if err != nil {
		log.Errorf("Query failed for prefix '%s': %v", prefix, err)
		return
	}
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(results) == 0 {
		log.Warnf("No results found for prefix: '%s'", prefix)
		return
	}

	h.out.Printf("Found %d results for prefix '%s':", len(results), prefix)
	for i, r := range results {
		clLabel := fmt.Sprintf("\033[38;5;75m%s\033[0m", r.Label)
		h.out.Printf("%2d. %-40s %s", i+1, clLabel, r.Detail)
		if h.showBreakdown {
			h.out.Printf("    bucket=%-28s semantic=%.4f text=%.1f group=%d", r.Bucket, r.SemanticScore, r.TextScore, r.GroupID)
		}
	}
}
