package server

import "github.com/chaz8081/groundcount/internal/itemcount"

// Message is the WebSocket message envelope used in both directions.
type Message struct {
	Type string `json:"type"`

	// Client requests
	Text     string              `json:"text,omitempty"`
	Segments []itemcount.Segment `json:"segments,omitempty"`
	Final    bool                `json:"final,omitempty"`

	// Sense step, set by the client on reset and echoed in replies while a
	// step is active.
	Sense string `json:"sense,omitempty"`

	// Responses
	SessionID string               `json:"sessionId,omitempty"`
	Count     *int                 `json:"count,omitempty"`
	Breakdown *itemcount.Breakdown `json:"breakdown,omitempty"`
	Error     string               `json:"error,omitempty"`

	// Step progress
	Expected int   `json:"expected,omitempty"`
	Detected *int  `json:"detected,omitempty"`
	Complete bool  `json:"complete,omitempty"`
	Accepted *bool `json:"accepted,omitempty"`
}

// Message types.
const (
	TypeSnapshot    = "snapshot"     // client: recognizer result for the session engine
	TypeReset       = "reset"        // client: new recording attempt, optionally for a sense step
	TypeManual      = "manual"       // client: count of typed text
	TypeConfirm     = "confirm"      // client: tap confirming one more item
	TypeSession     = "session"      // server: sent once on connect
	TypeCount       = "count"        // server: emitted stabilized count
	TypeManualCount = "manual_count" // server: reply to TypeManual
	TypeResetDone   = "reset_done"   // server: reply to TypeReset
	TypeConfirmed   = "confirmed"    // server: reply to TypeConfirm
	TypeError       = "error"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
