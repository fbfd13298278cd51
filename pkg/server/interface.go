/*
Package server implements msgpack IPC for completion ranking services.

The server package provides a minimal interface for ranking completion
candidates using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports ranking requests,
session management, and config updates. Messages are processed
synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout.
Each message contains an ID field and other fields based on the
operation type.

Ranking requests carry the cursor position and the typed prefix:

	{"id": "req_001", "cmd": "complete", "path": "main.swift", "ln": 10, "col": 4, "p": "app", "l": 24}

The server keeps one session per cursor position. A request at a new
position tears the old session down, fetches a fresh candidate set from
the backend, and ranks against that; a request at the same position
reuses the cached candidates and classifications, so repeated keystrokes
only pay for filtering and selection.

The server responds with winners in display order:

	{"id": "req_001", "r": [{"lb": "append(_:)", "in": "append(", "g": 0}], "c": 1, "n": 1204, "t": 3}

Config messages adjust server parameters without restart:

	{"id": "cfg_001", "cmd": "config", "max_results": 64, "debug": true}

Response structures include status information and error details when an
op fails.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and
reducing latency by ~40 to 70% in most cases.
*/
package server

// Request is an incoming IPC message. Fields beyond ID and Command are
// read per operation type.
type Request struct {
	ID      string `msgpack:"id"`
	Command string `msgpack:"cmd"` // "complete", "config", "health"

	// Completion fields.
	Path   string `msgpack:"path,omitempty"`
	Line   int    `msgpack:"ln,omitempty"`
	Column int    `msgpack:"col,omitempty"`
	Prefix string `msgpack:"p"`
	// Limit caps this response's result count below the configured
	// max_results. It applies per request and never invalidates the
	// cached session.
	Limit int `msgpack:"l,omitempty"`
	// Binary requests the winners as one encoded result buffer instead
	// of per-entry maps.
	Binary bool `msgpack:"bin,omitempty"`

	// Config fields.
	MaxResults *int  `msgpack:"max_results,omitempty"`
	Debug      *bool `msgpack:"debug,omitempty"`
}

// ResultEntry - minimal ranked winner
type ResultEntry struct {
	Label  string `msgpack:"lb"`
	Insert string `msgpack:"in"`
	Erase  int    `msgpack:"er,omitempty"`
	Detail string `msgpack:"d,omitempty"`
	Group  int    `msgpack:"g"`
	Kind   uint8  `msgpack:"k"`
	Debug  string `msgpack:"dbg,omitempty"`
}

// CompletionResponse - ranking response
type CompletionResponse struct {
	ID      string        `msgpack:"id"`
	Results []ResultEntry `msgpack:"r"`
	// Payload holds the encoded result buffer when the request asked for
	// binary form; Results is empty then.
	Payload []byte `msgpack:"pl,omitempty"`
	Count   int    `msgpack:"c"`
	// Candidates is the unfiltered session size, for client diagnostics.
	Candidates int   `msgpack:"n"`
	TimeTaken  int64 `msgpack:"t"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}

// StatusResponse - readiness and health signal
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// CompletionError holds basic error information for completion requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
