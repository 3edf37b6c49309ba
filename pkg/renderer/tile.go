package renderer

import "image"

// NoTile is the sentinel RenderTile.Num for "no tile assigned" - returned
// by a work queue when a worker asks for a tile and none remain.
const NoTile = -1

// RenderTile is one rectangular, disjoint region of the image plus its
// position in the scan order. Begin is inclusive, End is exclusive, both
// in image pixel coordinates.
type RenderTile struct {
	Num   int
	Begin image.Point
	End   image.Point
}

// Width and Height are the tile's pixel dimensions.
func (t RenderTile) Width() int  { return t.End.X - t.Begin.X }
func (t RenderTile) Height() int { return t.End.Y - t.Begin.Y }

// NewTileGrid partitions a width x height image into tileSize x tileSize
// tiles (the final row/column may be smaller), numbered in scan order:
// bottom row first, left to right within each row. This mirrors the
// bottom-to-top image convention the renderer's output uses, so a worker
// streaming tiles back in Num order fills the display the same way a
// single-pass scanline renderer would.
func NewTileGrid(width, height, tileSize int) []RenderTile {
	tilesX := ceilDiv(width, tileSize)
	tilesY := ceilDiv(height, tileSize)

	tiles := make([]RenderTile, 0, tilesX*tilesY)
	num := 0
	for row := tilesY - 1; row >= 0; row-- {
		y0 := row * tileSize
		y1 := min(y0+tileSize, height)
		for col := 0; col < tilesX; col++ {
			x0 := col * tileSize
			x1 := min(x0+tileSize, width)
			tiles = append(tiles, RenderTile{
				Num:   num,
				Begin: image.Point{X: x0, Y: y0},
				End:   image.Point{X: x1, Y: y1},
			})
			num++
		}
	}
	return tiles
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
