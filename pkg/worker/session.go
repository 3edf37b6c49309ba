package worker

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/protocol"
	"github.com/df07/go-progressive-raytracer/pkg/renderer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Session drives one coordinator connection through the handshake -> scene
// -> assets -> render -> goodbye sequence. It owns the connection mutex
// that every render thread must hold while actually touching the wire, so
// no two goroutines interleave reads or writes on the same socket.
type Session struct {
	identity    protocol.Handshake
	build       SceneBuilder
	logger      core.Logger
	metrics     *Metrics
	threadCount int

	conn   io.ReadWriter
	reader *bufio.Reader
	connMu sync.Mutex

	state *sessionState

	statsMu sync.Mutex
	stats   renderer.Stats

	cfg          SceneConfig
	rendererSt   *renderer.RendererState
	buffer       *renderer.RenderBuffer
	tileRenderer *renderer.TileRenderer
}

// NewSession creates a session that validates incoming handshakes against
// identity, builds scenes via build, and spawns threadCount render
// goroutines once a job reaches Rendering. metrics may be nil, in which
// case no Prometheus collectors are updated.
func NewSession(conn io.ReadWriter, identity protocol.Handshake, build SceneBuilder, threadCount int, logger core.Logger, metrics *Metrics) *Session {
	return &Session{
		identity:    identity,
		build:       build,
		logger:      logger,
		metrics:     metrics,
		threadCount: threadCount,
		conn:        conn,
		reader:      bufio.NewReader(conn),
		state:       newSessionState(),
	}
}

// Serve processes frames from the connection until a job completes
// (goodbye), a shutdown message arrives, or a transport/protocol error
// ends the connection. It returns true if the caller should keep
// listening for another job on this same connection.
func (s *Session) Serve() (keepListening bool, err error) {
	for {
		msg, recvErr := protocol.Receive(s.reader)
		if recvErr != nil {
			return false, Wrap(TransportError, recvErr)
		}

		if msg.Action == protocol.ActionShutdown {
			s.logger.Printf("received shutdown, ending session")
			return false, nil
		}

		resp, handleErr := s.handle(msg)
		if sendErr := protocol.Send(s.conn, resp); sendErr != nil {
			return false, Wrap(TransportError, sendErr)
		}
		if resp.IsError() {
			// A version/githash mismatch or unknown action is terminal -
			// the connection is in an unrecoverable state. A scene load
			// that fails to parse is not: the coordinator may resend a
			// corrected scene, so the worker keeps listening.
			if werr, ok := handleErr.(*Error); ok && werr.Kind == SceneError {
				s.state.set(AwaitingScene)
				continue
			}
			return false, handleErr
		}
		if resp.IsGoodbye() {
			s.state.reset()
			return true, nil
		}
	}
}

func (s *Session) handle(msg protocol.Message) (protocol.Message, error) {
	switch msg.Action {
	case protocol.ActionHandshake:
		return s.handleHandshake(msg)
	case protocol.ActionLoadScene:
		return s.handleLoadScene(msg)
	case protocol.ActionLoadAssets:
		return s.handleLoadAssets(msg)
	case protocol.ActionStartRender:
		return s.handleStartRender()
	default:
		err := Wrap(ProtocolError, fmt.Errorf("unknown action %q", msg.Action))
		return protocol.NewError(err.Error()), err
	}
}

func (s *Session) handleHandshake(msg protocol.Message) (protocol.Message, error) {
	got := protocol.Handshake{Version: msg.Version, Githash: msg.Githash}
	if err := protocol.Validate(s.identity, got); err != nil {
		wrapped := Wrap(ProtocolError, err)
		return protocol.NewError(err.Error()), wrapped
	}
	s.state.set(AwaitingScene)
	return protocol.NewAction(protocol.ActionStartSync), nil
}

func (s *Session) handleLoadScene(msg protocol.Message) (protocol.Message, error) {
	sceneJSON, err := json.Marshal(msg.Data)
	if err != nil {
		wrapped := Wrap(SceneError, err)
		return protocol.NewError(wrapped.Error()), wrapped
	}
	cfg, err := s.build(sceneJSON, msg.AssetPath)
	if err != nil {
		wrapped := Wrap(SceneError, err)
		return protocol.NewError(wrapped.Error()), wrapped
	}
	s.cfg = cfg
	s.buffer = renderer.NewRenderBuffer(cfg.Width, cfg.Height)
	s.tileRenderer = renderer.NewTileRenderer(cfg.Scene, cfg.Camera, s.buffer, cfg.MaxBounces, cfg.SamplesPerPixel)
	s.tileRenderer.SamplingStrategy = cfg.SamplingStrategy
	s.rendererSt = renderer.NewRendererState()
	s.stats = renderer.Stats{}
	s.state.set(AwaitingAssets)
	return protocol.Message{Action: protocol.ActionReady, ThreadCount: s.threadCount}, nil
}

func (s *Session) handleLoadAssets(msg protocol.Message) (protocol.Message, error) {
	// Populating the asset cache from msg.Files is the out-of-scope
	// collaborator the scene builder already resolved against AssetPath
	// at load-scene time; this step exists on the wire purely to
	// preserve the handshake sequence a coordinator expects.
	s.state.set(Rendering)
	return protocol.NewAction(protocol.ActionOK), nil
}
