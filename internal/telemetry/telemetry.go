// Package telemetry wires the bridge's runtime counters to Prometheus and
// serves them over HTTP, adapting the teacher's atomic-counter Metrics type
// into collectors the prometheus/client_golang registry understands.
package telemetry

import (
	"context"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ListenAddr is the fixed loopback address metrics are served on. Per the
// no-flags/no-environment-variables constraint, this is not configurable.
const ListenAddr = "127.0.0.1:9090"

// Registry owns the bridge's Prometheus collectors and implements
// interfaces.Observer directly, so the serial endpoints, the framer and the
// decoder can record against it with no adapter in between.
type Registry struct {
	reg *prometheus.Registry

	framesDecoded prometheus.Counter
	tlvsDecoded   prometheus.Counter
	decodeErrors  prometheus.Counter
	resyncs       prometheus.Counter
	bytesRead     *prometheus.CounterVec
	bytesWritten  *prometheus.CounterVec
}

// New constructs a Registry with all collectors registered.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		framesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmwave",
			Name:      "frames_decoded_total",
			Help:      "Number of complete data-port frames successfully decoded.",
		}),
		tlvsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmwave",
			Name:      "tlvs_decoded_total",
			Help:      "Number of TLV records emitted across all decoded frames.",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmwave",
			Name:      "decode_errors_total",
			Help:      "Number of frames dropped due to a decode error (overrun length, truncated TLV).",
		}),
		resyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmwave",
			Name:      "resyncs_total",
			Help:      "Number of times the data-port framer lost sync and rescanned for the magic word.",
		}),
		bytesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmwave",
			Name:      "bytes_read_total",
			Help:      "Bytes read per endpoint.",
		}, []string{"port"}),
		bytesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmwave",
			Name:      "bytes_written_total",
			Help:      "Bytes written per endpoint.",
		}, []string{"port"}),
	}

	reg.MustRegister(
		r.framesDecoded,
		r.tlvsDecoded,
		r.decodeErrors,
		r.resyncs,
		r.bytesRead,
		r.bytesWritten,
	)
	return r
}

// ObserveFrameDecoded records a successfully decoded frame and its TLV count.
func (r *Registry) ObserveFrameDecoded(tlvCount int, bytes int) {
	r.framesDecoded.Inc()
	r.tlvsDecoded.Add(float64(tlvCount))
}

// ObserveDecodeError records a dropped, malformed frame.
func (r *Registry) ObserveDecodeError() {
	r.decodeErrors.Inc()
}

// ObserveResync records a magic-word rescan.
func (r *Registry) ObserveResync() {
	r.resyncs.Inc()
}

// ObserveBytesRead records bytes read from a named port.
func (r *Registry) ObserveBytesRead(port string, n int) {
	r.bytesRead.WithLabelValues(port).Add(float64(n))
}

// ObserveBytesWritten records bytes written to a named port.
func (r *Registry) ObserveBytesWritten(port string, n int) {
	r.bytesWritten.WithLabelValues(port).Add(float64(n))
}

// Server serves /metrics for this Registry on ListenAddr.
type Server struct {
	http *http.Server
	ln   net.Listener
}

// NewServer builds a Server bound to ListenAddr. The caller must call Serve
// to start accepting connections.
func NewServer(r *Registry) (*Server, error) {
	ln, err := net.Listen("tcp", ListenAddr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))
	return &Server{
		http: &http.Server{Handler: mux},
		ln:   ln,
	}, nil
}

// Serve blocks, accepting connections until Shutdown is called. It returns
// http.ErrServerClosed on a clean shutdown, never an error the caller needs
// to propagate further.
func (s *Server) Serve() error {
	return s.http.Serve(s.ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Addr returns the address actually bound (matches ListenAddr once listening).
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}
