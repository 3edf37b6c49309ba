package worker

import (
	"bufio"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/material"
	"github.com/df07/go-progressive-raytracer/pkg/protocol"
	"github.com/df07/go-progressive-raytracer/pkg/renderer"
)

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

type flatScene struct{ background core.Color }

func (s flatScene) Intersect(ray core.LightRay, tMin, tMax float64) (material.HitRecord, bool) {
	return material.HitRecord{}, false
}
func (s flatScene) Background(ray core.LightRay) core.Color { return s.background }

type orthoCamera struct{}

func (orthoCamera) GetRay(x, y int, sampler core.Sampler) core.LightRay {
	return core.NewLightRay(core.Vec3{X: float64(x), Y: float64(y)}, core.Vec3{Z: -1}, core.RayCamera)
}

func testIdentity() protocol.Handshake {
	return protocol.Handshake{Version: protocol.Version, Githash: "test-build"}
}

func fakeBuilder(width, height, tileSize int) SceneBuilder {
	return func(sceneJSON []byte, assetPath string) (SceneConfig, error) {
		return SceneConfig{
			Scene:           flatScene{background: core.NewColor(0.1, 0.2, 0.3, 1)},
			Camera:          orthoCamera{},
			Width:           width,
			Height:          height,
			TileSize:        tileSize,
			SamplesPerPixel: 2,
			MaxBounces:      4,
		}, nil
	}
}

// coordinatorDriver plays the coordinator side of the protocol over a
// net.Conn, handing out every tile in grid exactly once and recording
// submitted tile numbers.
type coordinatorDriver struct {
	conn   net.Conn
	reader *bufio.Reader

	mu       sync.Mutex
	grid     []renderer.RenderTile
	next     int
	received []int
}

func newCoordinatorDriver(conn net.Conn, grid []renderer.RenderTile) *coordinatorDriver {
	return &coordinatorDriver{conn: conn, reader: bufio.NewReader(conn), grid: grid}
}

func (d *coordinatorDriver) send(m protocol.Message) error {
	return protocol.Send(d.conn, m)
}

func (d *coordinatorDriver) receive() (protocol.Message, error) {
	return protocol.Receive(d.reader)
}

// driveJob runs the full handshake/scene/assets/render sequence against a
// worker Session running in another goroutine (via conn's peer), returning
// the tile numbers submitted and any error.
func (d *coordinatorDriver) driveJob(t *testing.T) []int {
	t.Helper()

	if err := d.send(protocol.Message{Action: protocol.ActionHandshake, Version: protocol.Version, Githash: "test-build"}); err != nil {
		t.Fatalf("send handshake: %v", err)
	}
	resp, err := d.receive()
	if err != nil {
		t.Fatalf("receive handshake reply: %v", err)
	}
	if resp.Action != protocol.ActionStartSync {
		t.Fatalf("handshake reply = %+v, want startSync", resp)
	}

	if err := d.send(protocol.Message{Action: protocol.ActionLoadScene, Data: map[string]interface{}{"ok": true}, AssetPath: "/assets"}); err != nil {
		t.Fatalf("send loadScene: %v", err)
	}
	resp, err = d.receive()
	if err != nil {
		t.Fatalf("receive loadScene reply: %v", err)
	}
	if resp.Action != protocol.ActionReady {
		t.Fatalf("loadScene reply = %+v, want ready", resp)
	}

	if err := d.send(protocol.Message{Action: protocol.ActionLoadAssets}); err != nil {
		t.Fatalf("send loadAssets: %v", err)
	}
	resp, err = d.receive()
	if err != nil {
		t.Fatalf("receive loadAssets reply: %v", err)
	}
	if resp.Action != protocol.ActionOK {
		t.Fatalf("loadAssets reply = %+v, want ok", resp)
	}

	if err := d.send(protocol.Message{Action: protocol.ActionStartRender}); err != nil {
		t.Fatalf("send startRender: %v", err)
	}

	for {
		req, err := d.receive()
		if err != nil {
			t.Fatalf("receive during render: %v", err)
		}
		switch req.Action {
		case protocol.ActionGetWork:
			d.mu.Lock()
			var reply protocol.Message
			if d.next >= len(d.grid) {
				reply = protocol.NewAction(protocol.ActionRenderComplete)
			} else {
				tile := protocol.EncodeTile(d.grid[d.next])
				d.next++
				reply = protocol.Message{Action: protocol.ActionGetWork, Tile: &tile}
			}
			d.mu.Unlock()
			if err := d.send(reply); err != nil {
				t.Fatalf("reply to getWork: %v", err)
			}
		case protocol.ActionSubmitWork:
			if req.Tile == nil {
				t.Fatalf("submitWork with no tile: %+v", req)
			}
			d.mu.Lock()
			d.received = append(d.received, req.Tile.Num)
			d.mu.Unlock()
			if err := d.send(protocol.NewAction(protocol.ActionOK)); err != nil {
				t.Fatalf("ack submitWork: %v", err)
			}
		case protocol.ActionStats:
			// informational, no reply expected
		case protocol.ActionGoodbye:
			d.mu.Lock()
			defer d.mu.Unlock()
			return append([]int(nil), d.received...)
		default:
			t.Fatalf("unexpected action during render: %q", req.Action)
		}
	}
}

func TestSessionFullJobAssignsEveryTileExactlyOnce(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	grid := renderer.NewTileGrid(4, 4, 2)

	session := NewSession(serverConn, testIdentity(), fakeBuilder(4, 4, 2), 2, nullLogger{}, nil)
	serveDone := make(chan error, 1)
	go func() {
		_, err := session.Serve()
		serveDone <- err
	}()

	driver := newCoordinatorDriver(clientConn, grid)
	received := driver.driveJob(t)

	select {
	case err := <-serveDone:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Serve to return")
	}

	if len(received) != len(grid) {
		t.Fatalf("received %d tiles, want %d", len(received), len(grid))
	}
	seen := make(map[int]bool)
	for _, n := range received {
		if seen[n] {
			t.Errorf("tile %d submitted more than once", n)
		}
		seen[n] = true
	}
	for _, tile := range grid {
		if !seen[tile.Num] {
			t.Errorf("tile %d was never submitted", tile.Num)
		}
	}
}

func TestSessionHandshakeVersionMismatchClosesConnection(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	session := NewSession(serverConn, testIdentity(), fakeBuilder(4, 4, 2), 1, nullLogger{}, nil)
	serveDone := make(chan error, 1)
	go func() {
		_, err := session.Serve()
		serveDone <- err
	}()

	if err := protocol.Send(clientConn, protocol.Message{Action: protocol.ActionHandshake, Version: "wrong-version", Githash: "test-build"}); err != nil {
		t.Fatalf("send handshake: %v", err)
	}
	resp, err := protocol.Receive(bufio.NewReader(clientConn))
	if err != nil {
		t.Fatalf("receive handshake reply: %v", err)
	}
	if !resp.IsError() {
		t.Fatalf("handshake reply = %+v, want an error", resp)
	}

	select {
	case err := <-serveDone:
		var werr *Error
		if !errors.As(err, &werr) {
			t.Fatalf("Serve error = %v, want a *worker.Error", err)
		}
		if werr.Kind != ProtocolError {
			t.Errorf("Serve error kind = %v, want ProtocolError", werr.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Serve to return")
	}
}

func TestSessionShutdownEndsListening(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	session := NewSession(serverConn, testIdentity(), fakeBuilder(4, 4, 2), 1, nullLogger{}, nil)
	keepListening := make(chan bool, 1)
	go func() {
		keep, _ := session.Serve()
		keepListening <- keep
	}()

	if err := protocol.Send(clientConn, protocol.NewAction(protocol.ActionShutdown)); err != nil {
		t.Fatalf("send shutdown: %v", err)
	}

	select {
	case keep := <-keepListening:
		if keep {
			t.Error("Serve reported keepListening=true after a shutdown message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Serve to return")
	}
}
