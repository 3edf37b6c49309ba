// Package coordinator implements a reference coordinator: the
// counterpart that drives one or more workers through the
// handshake/scene/asset/render/tile-distribution sequence pkg/worker
// implements. It exists to exercise and validate the protocol end to
// end; a production scheduler (persistence, worker discovery, retry
// policy) is out of scope, but the tile-queue design here tolerates
// out-of-order submission and exposes a Requeue hook so that policy can
// be layered on top.
package coordinator

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/protocol"
	"github.com/df07/go-progressive-raytracer/pkg/renderer"
)

// Job describes the render a Coordinator hands out to workers: the scene
// payload to forward verbatim (this package never parses it - scene
// construction lives with whatever worker-side SceneBuilder is wired up)
// plus the tile grid computed from the target image dimensions.
type Job struct {
	SceneJSON []byte
	AssetPath string
	Width     int
	Height    int
	TileSize  int
}

// Coordinator distributes one Job's tiles across however many worker
// connections call ServeWorker, and assembles their results into Image.
type Coordinator struct {
	identity protocol.Handshake
	job      Job
	logger   core.Logger

	pending chan int // tile nums awaiting assignment
	grid    map[int]renderer.RenderTile

	mu          sync.Mutex
	outstanding map[int]bool // assigned, not yet submitted
	completed   map[int]bool
	image       *image.RGBA
}

// New creates a Coordinator ready to serve workers for job.
func New(identity protocol.Handshake, job Job, logger core.Logger) *Coordinator {
	tiles := renderer.NewTileGrid(job.Width, job.Height, job.TileSize)
	grid := make(map[int]renderer.RenderTile, len(tiles))
	pending := make(chan int, len(tiles))
	for _, t := range tiles {
		grid[t.Num] = t
		pending <- t.Num
	}
	return &Coordinator{
		identity:    identity,
		job:         job,
		logger:      logger,
		pending:     pending,
		grid:        grid,
		outstanding: make(map[int]bool),
		completed:   make(map[int]bool),
		image:       image.NewRGBA(image.Rect(0, 0, job.Width, job.Height)),
	}
}

// Done reports whether every tile in the grid has been submitted.
func (c *Coordinator) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.completed) == len(c.grid)
}

// Image returns the assembled output. Regions not yet submitted remain
// zero (transparent black).
func (c *Coordinator) Image() *image.RGBA {
	return c.image
}

// Requeue puts a tile back on the pending queue for reassignment,
// regardless of whether it was ever assigned. This is the hook a
// redistribution policy (worker timeout, dropped connection) calls;
// within this package, ServeWorker calls it on return for its own
// unfinished tiles. A tile already completed is left alone.
func (c *Coordinator) Requeue(tileNum int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.grid[tileNum]; !ok {
		return fmt.Errorf("coordinator: unknown tile %d", tileNum)
	}
	if c.completed[tileNum] {
		return nil
	}
	delete(c.outstanding, tileNum)
	c.pending <- tileNum
	return nil
}

// ServeWorker runs the full protocol sequence against one worker
// connection: handshake, loadScene, loadAssets, startRender, then
// services getWork/submitWork/stats requests until the worker says
// goodbye or the connection fails. Once the pending queue is empty,
// getWork is answered with renderComplete. On
// return, any tile this call had outstanding-but-not-completed is
// requeued automatically so a dropped worker never strands work.
func (c *Coordinator) ServeWorker(conn io.ReadWriter) error {
	reader := bufio.NewReader(conn)
	assigned := make(map[int]bool)
	defer func() {
		for tileNum := range assigned {
			c.mu.Lock()
			done := c.completed[tileNum]
			c.mu.Unlock()
			if !done {
				_ = c.Requeue(tileNum)
			}
		}
	}()

	if err := c.handshake(conn, reader); err != nil {
		return err
	}
	if err := c.loadScene(conn, reader); err != nil {
		return err
	}
	if err := c.loadAssets(conn, reader); err != nil {
		return err
	}
	if err := protocol.Send(conn, protocol.NewAction(protocol.ActionStartRender)); err != nil {
		return err
	}

	for {
		msg, err := protocol.Receive(reader)
		if err != nil {
			return err
		}
		switch msg.Action {
		case protocol.ActionGetWork:
			if err := c.replyToGetWork(conn, assigned); err != nil {
				return err
			}
		case protocol.ActionSubmitWork:
			if err := c.handleSubmitWork(conn, msg, assigned); err != nil {
				return err
			}
		case protocol.ActionStats:
			c.logger.Printf("worker stats: completed=%d avgPerPass=%.4fs", msg.Completed, msg.AvgPerPass)
		case protocol.ActionGoodbye:
			return nil
		default:
			return fmt.Errorf("coordinator: unexpected action %q from worker", msg.Action)
		}
	}
}

func (c *Coordinator) handshake(w io.Writer, r *bufio.Reader) error {
	if err := protocol.Send(w, protocol.Message{Action: protocol.ActionHandshake, Version: c.identity.Version, Githash: c.identity.Githash}); err != nil {
		return err
	}
	resp, err := protocol.Receive(r)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("coordinator: worker rejected handshake: %s", resp.Error)
	}
	if resp.Action != protocol.ActionStartSync {
		return fmt.Errorf("coordinator: unexpected handshake reply %q", resp.Action)
	}
	return nil
}

func (c *Coordinator) loadScene(w io.Writer, r *bufio.Reader) error {
	if err := protocol.Send(w, protocol.Message{Action: protocol.ActionLoadScene, Data: rawJSON(c.job.SceneJSON), AssetPath: c.job.AssetPath}); err != nil {
		return err
	}
	resp, err := protocol.Receive(r)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("coordinator: worker rejected scene: %s", resp.Error)
	}
	if resp.Action != protocol.ActionReady {
		return fmt.Errorf("coordinator: unexpected loadScene reply %q", resp.Action)
	}
	return nil
}

func (c *Coordinator) loadAssets(w io.Writer, r *bufio.Reader) error {
	if err := protocol.Send(w, protocol.NewAction(protocol.ActionLoadAssets)); err != nil {
		return err
	}
	resp, err := protocol.Receive(r)
	if err != nil {
		return err
	}
	if resp.Action != protocol.ActionOK {
		return fmt.Errorf("coordinator: unexpected loadAssets reply %q", resp.Action)
	}
	return nil
}

func (c *Coordinator) replyToGetWork(w io.Writer, assigned map[int]bool) error {
	select {
	case tileNum := <-c.pending:
		c.mu.Lock()
		c.outstanding[tileNum] = true
		c.mu.Unlock()
		assigned[tileNum] = true
		tile := protocol.EncodeTile(c.grid[tileNum])
		return protocol.Send(w, protocol.Message{Action: protocol.ActionGetWork, Tile: &tile})
	default:
		return protocol.Send(w, protocol.NewAction(protocol.ActionRenderComplete))
	}
}

func (c *Coordinator) handleSubmitWork(w io.Writer, msg protocol.Message, assigned map[int]bool) error {
	if msg.Tile == nil || msg.Result == nil {
		return fmt.Errorf("coordinator: submitWork missing tile or result")
	}
	tile := msg.Tile.DecodeTile()
	pixels, err := msg.Result.Pixels()
	if err != nil {
		return fmt.Errorf("coordinator: decoding submitted tile %d: %w", tile.Num, err)
	}
	c.logger.Printf("received tile %d: %d bytes", tile.Num, len(pixels))
	c.paint(tile, pixels)

	c.mu.Lock()
	delete(c.outstanding, tile.Num)
	c.completed[tile.Num] = true
	c.mu.Unlock()
	delete(assigned, tile.Num)

	return protocol.Send(w, protocol.NewAction(protocol.ActionOK))
}

// paint writes a tile's RGB8 pixels (top-to-bottom, left-to-right row
// major, see pkg/worker's encodeTilePixels) into the assembled image.
func (c *Coordinator) paint(tile renderer.RenderTile, pixels []byte) {
	i := 0
	for y := tile.Begin.Y; y < tile.End.Y; y++ {
		for x := tile.Begin.X; x < tile.End.X; x++ {
			c.image.SetRGBA(x, y, color.RGBA{R: pixels[i], G: pixels[i+1], B: pixels[i+2], A: 255})
			i += 3
		}
	}
}

// rawMessage lets a pre-encoded scene payload pass through Message.Data
// unmodified rather than being decoded and re-marshaled as a generic map,
// which would lose any field ordering or numeric precision a coordinator
// caller wants preserved.
type rawMessage []byte

func (m rawMessage) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

func rawJSON(b []byte) rawMessage {
	return rawMessage(b)
}
