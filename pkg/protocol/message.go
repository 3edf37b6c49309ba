package protocol

import (
	"bufio"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Known actions exchanged over the connection. A worker's state machine
// advances on these; a coordinator drives it by sending them in sequence.
const (
	ActionHandshake      = "handshake"
	ActionStartSync      = "startSync"
	ActionLoadScene      = "loadScene"
	ActionReady          = "ready"
	ActionLoadAssets     = "loadAssets"
	ActionOK             = "ok"
	ActionStartRender    = "startRender"
	ActionGetWork        = "getWork"
	ActionRenderComplete = "renderComplete"
	ActionSubmitWork     = "submitWork"
	ActionStats          = "stats"
	ActionGoodbye        = "goodbye"
	ActionShutdown       = "shutdown"
	ActionError          = "error"
)

// Message is the envelope every protocol exchange is wrapped in. Action is
// mandatory; the remaining fields are populated according to which action
// is set, and zero-valued (omitted on the wire) otherwise.
type Message struct {
	Action string `json:"action"`

	Version string `json:"version,omitempty"`
	Githash string `json:"githash,omitempty"`

	Data        interface{} `json:"data,omitempty"`
	AssetPath   string      `json:"assetPath,omitempty"`
	Files       interface{} `json:"files,omitempty"`
	ThreadCount int         `json:"threadCount,omitempty"`

	Tile   *Tile           `json:"tile,omitempty"`
	Result *EncodedTexture `json:"result,omitempty"`

	Completed  uint64  `json:"completed,omitempty"`
	AvgPerPass float64 `json:"avgPerPass,omitempty"`

	Error string `json:"message,omitempty"`
}

// NewAction creates a bare message carrying only an action.
func NewAction(action string) Message {
	return Message{Action: action}
}

// NewError creates an "error" message with a human-readable reason.
func NewError(reason string) Message {
	return Message{Action: ActionError, Error: reason}
}

// IsError reports whether m is an error message.
func (m Message) IsError() bool {
	return m.Action == ActionError
}

// IsGoodbye reports whether m signals the end of a render job.
func (m Message) IsGoodbye() bool {
	return m.Action == ActionGoodbye
}

// Send frames m as JSON and writes it as a single chunked-transport
// message to w.
func Send(w io.Writer, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("protocol: marshaling message: %w", err)
	}
	return WriteChunked(w, payload)
}

// Receive reads one chunked-transport message from r and decodes it.
func Receive(r *bufio.Reader) (Message, error) {
	payload, err := ReadChunked(r)
	if err != nil {
		return Message{}, err
	}
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return Message{}, fmt.Errorf("protocol: unmarshaling message: %w", err)
	}
	return m, nil
}
