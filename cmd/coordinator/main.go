// Command coordinator dials a set of running workers, hands each one the
// same job, and assembles their submitted tiles into a PNG. See
// pkg/coordinator for the protocol sequence this command drives.
package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net"
	"os"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/coordinator"
	"github.com/df07/go-progressive-raytracer/pkg/coordinatorapi"
	"github.com/df07/go-progressive-raytracer/pkg/protocol"
)

// sceneRequest mirrors pkg/demoscene's Request shape. The coordinator
// itself never parses scene JSON - it only forwards whatever bytes this
// binary builds here - so any worker-side SceneBuilder that understands a
// different format works just as well against the same coordinator.
type sceneRequest struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	TileSize        int     `json:"tileSize"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxBounces      int     `json:"maxBounces"`
	VFov            float64 `json:"vfov"`
}

func main() {
	var (
		workerAddrs []string
		width       int
		height      int
		tileSize    int
		samples     int
		bounces     int
		vfov        float64
		assetPath   string
		output      string
		adminPort   int
		githash     string
	)

	root := &cobra.Command{
		Use:   "coordinator",
		Short: "Dial workers, distribute one render job, and assemble a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(workerAddrs) == 0 {
				return fmt.Errorf("coordinator: at least one --worker address is required")
			}
			logger := core.DefaultLogger()
			if githash == "" {
				githash = buildGithash()
			}

			sceneJSON, err := json.Marshal(sceneRequest{
				Width: width, Height: height, TileSize: tileSize,
				SamplesPerPixel: samples, MaxBounces: bounces, VFov: vfov,
			})
			if err != nil {
				return fmt.Errorf("coordinator: encoding scene request: %w", err)
			}

			identity := protocol.Handshake{Version: protocol.Version, Githash: githash}
			job := coordinator.Job{SceneJSON: sceneJSON, AssetPath: assetPath, Width: width, Height: height, TileSize: tileSize}
			c := coordinator.New(identity, job, logger)

			reg := prometheus.NewRegistry()
			admin := coordinatorapi.NewServer(adminPort, c, reg)
			go func() {
				if err := admin.ListenAndServe(); err != nil {
					logger.Printf("coordinator: admin surface stopped: %v", err)
				}
			}()

			if err := runJob(c, workerAddrs, logger); err != nil {
				return err
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("coordinator: creating %s: %w", output, err)
			}
			defer file.Close()
			if err := png.Encode(file, c.Image()); err != nil {
				return fmt.Errorf("coordinator: encoding %s: %w", output, err)
			}
			logger.Printf("render written to %s", output)
			return nil
		},
	}

	flags := root.Flags()
	flags.StringSliceVar(&workerAddrs, "worker", nil, "worker address to dial (host:port), repeatable")
	flags.IntVar(&width, "width", 400, "image width in pixels")
	flags.IntVar(&height, "height", 225, "image height in pixels")
	flags.IntVar(&tileSize, "tile-size", 32, "tile edge length in pixels")
	flags.IntVar(&samples, "samples", 16, "samples per pixel")
	flags.IntVar(&bounces, "bounces", 8, "maximum bounces per path")
	flags.Float64Var(&vfov, "vfov", 40, "camera vertical field of view in degrees")
	flags.StringVar(&assetPath, "asset-path", "", "asset root forwarded to workers' scene builders")
	flags.StringVar(&output, "output", "render.png", "output PNG path")
	flags.IntVar(&adminPort, "admin-port", 9101, "port to serve /metrics and /api/status on")
	flags.StringVar(&githash, "githash", "", "build identity sent in handshake validation (default: VCS revision from build info)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runJob dials every worker address concurrently and serves the same
// Coordinator against each connection, returning the first dial or
// protocol error encountered.
func runJob(c *coordinator.Coordinator, addrs []string, logger core.Logger) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(addrs))

	for _, addr := range addrs {
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				errs <- fmt.Errorf("coordinator: dialing %s: %w", addr, err)
				return
			}
			defer conn.Close()
			logger.Printf("dispatching job to %s", addr)
			if err := c.ServeWorker(conn); err != nil {
				errs <- fmt.Errorf("coordinator: worker %s: %w", addr, err)
			}
		}(addr)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	if !c.Done() {
		return fmt.Errorf("coordinator: job ended but not every tile was completed")
	}
	return nil
}

func buildGithash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return "unknown"
}
