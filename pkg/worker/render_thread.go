package worker

import (
	"fmt"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/protocol"
	"github.com/df07/go-progressive-raytracer/pkg/renderer"
)

// renderThread repeatedly asks for a tile, renders it to SamplesPerPixel,
// and submits the result, until the coordinator reports no work remains,
// the render is aborted, or a submission round-trip fails. It mirrors the
// C worker's per-thread loop: acquire the connection -> getWork -> release
// -> render -> acquire -> submitWork -> await ok -> release -> repeat.
func (s *Session) renderThread(threadNum int, done chan<- struct{}) {
	defer close(done)
	for {
		if s.rendererSt.IsAborted() {
			return
		}

		tile, ok, err := s.getWork()
		if err != nil {
			s.logger.Printf("worker thread %d: getWork failed: %v", threadNum, err)
			return
		}
		if !ok {
			return
		}

		samples, elapsed := s.tileRenderer.Render(tile)
		if s.rendererSt.IsAborted() {
			return // drop the in-progress tile rather than submitting it
		}

		s.statsMu.Lock()
		s.stats.RecordTile(samples, elapsed)
		s.statsMu.Unlock()
		if s.metrics != nil {
			s.metrics.CompletedTiles.Inc()
			s.metrics.CompletedSample.Add(float64(samples))
		}

		if err := s.submitWork(tile); err != nil {
			s.logger.Printf("worker thread %d: submitWork failed: %v", threadNum, err)
			return
		}
	}
}

// getWork asks the coordinator for the next tile. ok is false if the
// coordinator reports the render complete (no tile remains); a non-nil
// error means the round trip itself failed.
func (s *Session) getWork() (renderer.RenderTile, bool, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := protocol.Send(s.conn, protocol.NewAction(protocol.ActionGetWork)); err != nil {
		return renderer.RenderTile{}, false, err
	}
	resp, err := protocol.Receive(s.reader)
	if err != nil {
		return renderer.RenderTile{}, false, err
	}
	if resp.Action == protocol.ActionRenderComplete || resp.Tile == nil {
		return renderer.RenderTile{}, false, nil
	}
	return resp.Tile.DecodeTile(), true, nil
}

// submitWork sends the rendered tile's pixels back and waits for the
// coordinator's "ok" before returning.
func (s *Session) submitWork(tile renderer.RenderTile) error {
	pixels := encodeTilePixels(s.buffer, tile)
	msg := protocol.Message{
		Action: protocol.ActionSubmitWork,
		Tile:   ptr(protocol.EncodeTile(tile)),
		Result: ptr(protocol.EncodeTexture(tile.Width(), tile.Height(), 3, pixels)),
	}

	s.logger.Printf("submitting tile %d: %d bytes", tile.Num, len(pixels))

	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := protocol.Send(s.conn, msg); err != nil {
		return err
	}
	resp, err := protocol.Receive(s.reader)
	if err != nil {
		return err
	}
	if resp.Action != protocol.ActionOK {
		return fmt.Errorf("coordinator rejected submitted tile %d (action %q)", tile.Num, resp.Action)
	}
	return nil
}

// encodeTilePixels reads a tile's accumulated mean back out of buffer,
// gamma-correcting and quantizing each pixel, in top-to-bottom,
// left-to-right row-major order (standard image layout - the in-memory
// scan order used while rendering has no bearing on the wire layout).
func encodeTilePixels(buffer *renderer.RenderBuffer, tile renderer.RenderTile) []byte {
	w, h := tile.Width(), tile.Height()
	pixels := make([]byte, 0, w*h*3)
	for y := tile.Begin.Y; y < tile.End.Y; y++ {
		for x := tile.Begin.X; x < tile.End.X; x++ {
			mean, _ := buffer.Mean(x, y)
			r, g, b, _ := core.ToneMap8(mean)
			pixels = append(pixels, r, g, b)
		}
	}
	return pixels
}

func ptr[T any](v T) *T { return &v }
