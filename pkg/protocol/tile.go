package protocol

import (
	"encoding/base64"
	"fmt"
	"image"

	"github.com/df07/go-progressive-raytracer/pkg/renderer"
)

func point(x, y int) image.Point {
	return image.Point{X: x, Y: y}
}

// Tile is the wire representation of a renderer.RenderTile: plain integer
// fields so it round-trips through JSON without needing image.Point's own
// (de)serialization.
type Tile struct {
	Num    int `json:"tileNum"`
	BeginX int `json:"beginX"`
	BeginY int `json:"beginY"`
	EndX   int `json:"endX"`
	EndY   int `json:"endY"`
}

// EncodeTile converts a renderer.RenderTile to its wire form.
func EncodeTile(t renderer.RenderTile) Tile {
	return Tile{
		Num:    t.Num,
		BeginX: t.Begin.X,
		BeginY: t.Begin.Y,
		EndX:   t.End.X,
		EndY:   t.End.Y,
	}
}

// DecodeTile converts a wire Tile back to a renderer.RenderTile.
func (t Tile) DecodeTile() renderer.RenderTile {
	return renderer.RenderTile{
		Num:   t.Num,
		Begin: point(t.BeginX, t.BeginY),
		End:   point(t.EndX, t.EndY),
	}
}

// EncodedTexture is a base64-encoded RGB pixel buffer, used to ship a
// rendered tile's pixels back to the coordinator without a binary frame
// format of its own.
type EncodedTexture struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
	Data     string `json:"data"` // base64 of Width*Height*Channels bytes
}

// EncodeTexture base64-encodes a raw RGB(A) pixel buffer for transport.
func EncodeTexture(width, height, channels int, pixels []byte) EncodedTexture {
	return EncodedTexture{
		Width:    width,
		Height:   height,
		Channels: channels,
		Data:     base64.StdEncoding.EncodeToString(pixels),
	}
}

// Pixels decodes the texture's base64 payload back to raw bytes, checking
// that its length matches the declared dimensions.
func (e EncodedTexture) Pixels() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(e.Data)
	if err != nil {
		return nil, fmt.Errorf("protocol: decoding texture payload: %w", err)
	}
	want := e.Width * e.Height * e.Channels
	if len(data) != want {
		return nil, fmt.Errorf("protocol: texture payload is %d bytes, want %d (%dx%dx%d)", len(data), want, e.Width, e.Height, e.Channels)
	}
	return data, nil
}
