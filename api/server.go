package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/marcusziade/satvid-go/config"
	"github.com/marcusziade/satvid-go/internal/errors"
	"github.com/marcusziade/satvid-go/internal/logger"
	"github.com/marcusziade/satvid-go/internal/video"
)

// Synthesizer produces a looping video from a source image.
type Synthesizer interface {
	CreateFromImage(ctx context.Context, imagePath, outputPath string) error
}

// Prober reads metadata back from a generated video.
type Prober interface {
	Probe(ctx context.Context, path string) (video.Info, error)
}

// Server represents the API server
type Server struct {
	Router          http.Handler
	Synth           Synthesizer
	Prober          Prober
	Store           *video.Store
	Logger          *logger.Logger
	AuthToken       string
	PublicBaseURL   string
	ProcessingDelay time.Duration
}

// New creates a new API server
func New(cfg *config.Config, synth Synthesizer, prober Prober, store *video.Store, log *logger.Logger) *Server {
	s := &Server{
		Synth:           synth,
		Prober:          prober,
		Store:           store,
		Logger:          log,
		AuthToken:       cfg.AuthToken,
		PublicBaseURL:   cfg.PublicBaseURL,
		ProcessingDelay: cfg.ProcessingDelay,
	}

	// Create the router
	mux := http.NewServeMux()

	// Register routes; only the processing endpoint requires auth
	mux.Handle("/", http.HandlerFunc(s.handleRoot))
	mux.Handle("/api/process-image", WithAuth(cfg.AuthToken)(http.HandlerFunc(s.handleProcessImage)))
	mux.Handle("/video/", http.HandlerFunc(s.handleVideo))
	mux.Handle("/test-video/", http.HandlerFunc(s.handleTestVideo))
	mux.Handle("/health", http.HandlerFunc(s.handleHealthCheck))

	// Apply global middleware
	s.Router = Chain(
		WithLogger(log),
		WithRecover(log),
		WithCORS(nil), // Allow all origins
	)(mux)

	return s
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	s.Logger.Info("Starting development server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}

// sendError sends an error response in the {"error": message} shape the
// frontend contract expects.
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	writeError(w, message, statusCode)
}

// sendJSON sends a JSON response
func (s *Server) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

// sendServerError maps a taxonomy error to its JSON response.
func (s *Server) sendServerError(w http.ResponseWriter, serr *errors.ServerError) {
	writeError(w, serr.Message, serr.StatusCode)
}

// writeError is the package-level error writer shared with the middleware.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
