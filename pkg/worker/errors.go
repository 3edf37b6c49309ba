package worker

import "fmt"

// Kind classifies a worker-side failure so callers can decide how to
// surface it (close the connection, log and continue, or exit the
// process) without string-matching error text.
type Kind int

const (
	// ProtocolError: malformed message, unknown action, version mismatch.
	// The connection is closed after the error response is sent.
	ProtocolError Kind = iota
	// SceneError: scene JSON fails to parse or references missing assets.
	// The worker returns to AwaitingScene rather than closing.
	SceneError
	// TransportError: socket read/write failed. The error is logged, the
	// current connection loop breaks, and the listener keeps accepting.
	TransportError
	// RenderAbort: an externally requested abort. Render threads exit;
	// the supervisor emits goodbye.
	RenderAbort
	// Fatal: bind/listen failure at startup. Logged at error, process exits.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case ProtocolError:
		return "protocol"
	case SceneError:
		return "scene"
	case TransportError:
		return "transport"
	case RenderAbort:
		return "abort"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with the underlying cause so callers can
// errors.As(err, &workerErr) to branch on Kind while still getting the
// original error text via Unwrap.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap builds an *Error of the given kind around err. It returns nil if
// err is nil, so call sites can write `return Wrap(Kind, err)` unconditionally.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}
