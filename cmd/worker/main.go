// Command worker runs a render worker: it listens for a coordinator
// connection, renders whatever scene and tiles it's handed, and reports
// progress back over the same socket. See pkg/worker for the protocol
// state machine this command drives.
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/demoscene"
	"github.com/df07/go-progressive-raytracer/pkg/protocol"
	"github.com/df07/go-progressive-raytracer/pkg/worker"
)

func main() {
	var (
		port        int
		metricsAddr string
		threads     int
		githash     string
	)

	root := &cobra.Command{
		Use:   "worker",
		Short: "Render worker: accepts coordinator connections, each on its own goroutine, and renders their tiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := core.DefaultLogger()
			if githash == "" {
				githash = buildGithash()
			}
			if threads <= 0 {
				threads = runtime.NumCPU()
			}

			reg := prometheus.NewRegistry()
			metrics := worker.NewMetrics(reg)
			go serveMetrics(metricsAddr, reg, logger)

			identity := protocol.Handshake{Version: protocol.Version, Githash: githash}
			return listenAndServe(port, identity, threads, logger, metrics)
		},
	}

	flags := root.Flags()
	flags.IntVar(&port, "port", protocol.DefaultPort, "TCP port to listen on")
	flags.StringVar(&metricsAddr, "metrics-addr", ":9100", "address to serve /metrics and /api/health on")
	flags.IntVar(&threads, "threads", 0, "render threads per job (0 = number of CPUs)")
	flags.StringVar(&githash, "githash", "", "build identity sent in handshake validation (default: VCS revision from build info)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func listenAndServe(port int, identity protocol.Handshake, threads int, logger core.Logger, metrics *worker.Metrics) error {
	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("worker: bind %s: %w", addr, err)
	}
	defer listener.Close()
	logger.Printf("worker listening on %s (%d threads)", addr, threads)

	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("worker: accept: %w", err)
		}
		go serveConn(conn, identity, threads, logger, metrics)
	}
}

func serveConn(conn net.Conn, identity protocol.Handshake, threads int, logger core.Logger, metrics *worker.Metrics) {
	defer conn.Close()
	session := worker.NewSession(conn, identity, demoscene.Builder(), threads, logger, metrics)
	for {
		keepListening, err := session.Serve()
		if err != nil {
			logger.Printf("worker: connection from %s ended: %v", conn.RemoteAddr(), err)
			return
		}
		if !keepListening {
			return
		}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger core.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Printf("worker: admin surface stopped: %v", err)
	}
}

// buildGithash derives a default handshake identity from the binary's
// embedded VCS revision, so a worker and coordinator built from the same
// commit agree without either side needing a manual flag.
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
