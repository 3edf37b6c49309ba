package demoscene

import (
	"encoding/json"
	"fmt"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/worker"
)

// Request is the load-scene payload this builder understands. A
// coordinator sends one of these (marshaled to JSON) as Message.Data; any
// field absent from the payload falls back to a small, quick default so a
// worker is usable without a real asset pipeline behind it. A field sent
// with a zero value is kept as sent; a zero width or height is rejected.
type Request struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	TileSize        int     `json:"tileSize"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxBounces      int     `json:"maxBounces"`
	VFov            float64 `json:"vfov"`
}

const (
	defaultWidth           = 400
	defaultHeight          = 225
	defaultTileSize        = 32
	defaultSamplesPerPixel = 16
	defaultMaxBounces      = 8
	defaultVFov            = 40.0
)

// Builder returns a worker.SceneBuilder that decodes a Request and renders
// Default() against it. assetPath is accepted to satisfy the
// worker.SceneBuilder signature but unused - this package has no assets to
// resolve against it.
func Builder() worker.SceneBuilder {
	return func(sceneJSON []byte, assetPath string) (worker.SceneConfig, error) {
		req := Request{
			Width: defaultWidth, Height: defaultHeight, TileSize: defaultTileSize,
			SamplesPerPixel: defaultSamplesPerPixel, MaxBounces: defaultMaxBounces, VFov: defaultVFov,
		}
		if len(sceneJSON) > 0 && string(sceneJSON) != "null" {
			if err := json.Unmarshal(sceneJSON, &req); err != nil {
				return worker.SceneConfig{}, fmt.Errorf("demoscene: decoding scene request: %w", err)
			}
		}
		if req.Width <= 0 || req.Height <= 0 {
			return worker.SceneConfig{}, fmt.Errorf("demoscene: width and height must be positive, got %dx%d", req.Width, req.Height)
		}

		eye := core.NewVec3(0, 0.6, 2.5)
		lookAt := core.NewVec3(0, 0, -1)
		up := core.NewVec3(0, 1, 0)

		return worker.SceneConfig{
			Scene:            Default(),
			Camera:           NewCamera(eye, lookAt, up, req.VFov, req.Width, req.Height),
			Width:            req.Width,
			Height:           req.Height,
			TileSize:         req.TileSize,
			SamplesPerPixel:  req.SamplesPerPixel,
			MaxBounces:       req.MaxBounces,
			SamplingStrategy: core.StrategyRandom,
		}, nil
	}
}
