package worker

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/integrator"
)

// SceneConfig is everything a loaded scene contributes to a render job:
// the scene and camera to trace against, plus the job parameters that
// would otherwise come from command-line prefs on a single-machine render.
type SceneConfig struct {
	Scene            integrator.Scene
	Camera           core.Camera
	Width            int
	Height           int
	TileSize         int
	SamplesPerPixel  int
	MaxBounces       int
	SamplingStrategy core.Strategy
}

// SceneBuilder parses a scene description (and any asset cache rooted at
// assetPath) into a SceneConfig ready to render. Scene parsing and asset
// loading are out of this package's scope by design - a Session is handed
// a builder at construction time rather than owning one itself, so the
// wire content of "loadScene" stays pluggable without this package caring
// what format it's in.
type SceneBuilder func(sceneJSON []byte, assetPath string) (SceneConfig, error)
