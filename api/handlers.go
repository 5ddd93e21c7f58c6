package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marcusziade/satvid-go/internal/errors"
	"github.com/marcusziade/satvid-go/internal/utils"
)

// Coordinates echoes the parsed request coordinates back to the caller.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ProcessResponse is the success payload of the process-image endpoint.
type ProcessResponse struct {
	VideoURL    string      `json:"video_url"`
	Status      string      `json:"status"`
	SessionID   string      `json:"session_id"`
	Coordinates Coordinates `json:"coordinates"`
	Message     string      `json:"message"`
}

// handleProcessImage accepts a multipart image upload plus coordinates and
// synthesizes a looping video from it. Auth is enforced by the WithAuth
// middleware in front of this handler.
func (s *Server) handleProcessImage(w http.ResponseWriter, r *http.Request) {
	// Only allow POST requests
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse multipart form
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.sendServerError(w, errors.Validation("Failed to parse form"))
		return
	}

	// Get image file
	file, _, err := r.FormFile("image")
	if err != nil {
		s.sendServerError(w, errors.Validation("No image file provided"))
		return
	}
	defer file.Close()

	latitude := r.FormValue("latitude")
	longitude := r.FormValue("longitude")
	sessionID := r.FormValue("session_id")

	s.Logger.Info("Received request - Session: %s, Lat: %s, Lng: %s", sessionID, latitude, longitude)

	// Validate required fields
	if latitude == "" || longitude == "" || sessionID == "" {
		s.sendServerError(w, errors.Validation("Missing required fields"))
		return
	}

	// Read image data
	imageData, err := io.ReadAll(file)
	if err != nil {
		s.Logger.Error("Failed to read image data: %v", err)
		s.sendServerError(w, errors.Internal(err))
		return
	}

	// Validate it's a decodable image before touching the filesystem
	img, format, err := utils.DecodeImage(imageData)
	if err != nil {
		s.Logger.Error("Invalid image file: %v", err)
		s.sendServerError(w, errors.Validation("Invalid image file"))
		return
	}
	bounds := img.Bounds()
	s.Logger.Info("Received image: %s, Size: %dx%d", format, bounds.Dx(), bounds.Dy())

	// The source used float() conversions late in the handler; a parse
	// failure there was an uncaught error, so it stays a generic 500 here.
	lat, err := strconv.ParseFloat(latitude, 64)
	if err != nil {
		s.Logger.Error("Unparseable latitude %q: %v", latitude, err)
		s.sendServerError(w, errors.Internal(err))
		return
	}
	lng, err := strconv.ParseFloat(longitude, 64)
	if err != nil {
		s.Logger.Error("Unparseable longitude %q: %v", longitude, err)
		s.sendServerError(w, errors.Internal(err))
		return
	}

	uniqueID := uuid.New().String()
	imagePath := s.Store.ImagePath(uniqueID)
	videoPath := s.Store.VideoPath(uniqueID)

	if err := utils.SaveUpload(bytes.NewReader(imageData), imagePath); err != nil {
		s.Logger.Error("Failed to save temp image: %v", err)
		s.sendServerError(w, errors.Internal(err))
		return
	}
	// Always clean up the temp image, success or failure
	defer utils.RemoveIfExists(imagePath)

	s.Logger.Info("Saved temp image: %s", imagePath)

	// Simulate processing time
	if s.ProcessingDelay > 0 {
		time.Sleep(s.ProcessingDelay)
	}

	s.Logger.Info("Creating video from image...")
	if err := s.Synth.CreateFromImage(r.Context(), imagePath, videoPath); err != nil {
		// Drop any partial output so the id never serves garbage
		utils.RemoveIfExists(videoPath)
		serr := errors.Synthesis(err)
		s.Logger.Error("Failed to create video from image: %v", serr)
		s.sendServerError(w, serr)
		return
	}

	s.Logger.Info("Video created successfully: /video/%s", uniqueID)
	s.Logger.Info("Returning success response for session %s", sessionID)

	s.sendJSON(w, ProcessResponse{
		VideoURL:    s.PublicBaseURL + "/video/" + uniqueID,
		Status:      "success",
		SessionID:   sessionID,
		Coordinates: Coordinates{Latitude: lat, Longitude: lng},
		Message:     "Image processed successfully (development mode - converted to 5-second video)",
	})
}

// handleVideo streams a generated video back by id.
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	// Only allow GET requests
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	videoID := videoIDFromPath(r.URL.Path, "/video/")
	if videoID == "" {
		s.sendServerError(w, errors.NotFound("Video not found"))
		return
	}

	size, err := s.Store.VideoSize(videoID)
	if err != nil {
		if errors.IsNotFound(err) {
			s.Logger.Warn("Video file not found: %s", s.Store.VideoPath(videoID))
		} else {
			s.Logger.Error("Cannot serve video %s: %v", videoID, err)
		}
		s.sendError(w, errors.ClientMessage(err), errors.StatusCode(err))
		return
	}

	videoPath := s.Store.VideoPath(videoID)
	s.Logger.Info("Serving video: %s (size: %d bytes)", videoPath, size)

	// Headers for better video streaming in the browser player
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Disposition", `inline; filename="satellite_video_`+videoID+`.mp4"`)

	http.ServeFile(w, r, videoPath)
}

// handleTestVideo is a debug endpoint reporting file and stream metadata
// for a generated video. Probe failures degrade to an error string.
func (s *Server) handleTestVideo(w http.ResponseWriter, r *http.Request) {
	// Only allow GET requests
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	videoID := videoIDFromPath(r.URL.Path, "/test-video/")
	if videoID == "" {
		s.sendError(w, "Missing video ID", http.StatusBadRequest)
		return
	}

	videoPath := s.Store.VideoPath(videoID)
	size, sizeErr := utils.FileSize(videoPath)
	exists := sizeErr == nil

	info := map[string]interface{}{
		"video_id":    videoID,
		"video_path":  videoPath,
		"file_exists": exists,
		"file_size":   size,
		"temp_dir":    s.Store.Dir,
	}

	if exists {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		meta, err := s.Prober.Probe(ctx, videoPath)
		if err != nil {
			info["readable"] = false
			info["probe_error"] = err.Error()
		} else {
			info["readable"] = true
			info["frame_count"] = meta.FrameCount
			info["fps"] = meta.FPS
			info["width"] = meta.Width
			info["height"] = meta.Height
		}
	}

	s.sendJSON(w, info)
}

// handleHealthCheck handles health check requests
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	// Only allow GET requests
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.sendJSON(w, map[string]interface{}{
		"status":                 "healthy",
		"message":                "Development server is running",
		"authorization_required": true,
	})
}

// handleRoot serves the informational endpoint map.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	// Only allow GET requests
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Anything but the root path exactly is unknown
	if r.URL.Path != "/" {
		s.sendError(w, "Not found", http.StatusNotFound)
		return
	}

	s.sendJSON(w, map[string]interface{}{
		"name":    "Satellite Image Processing Development Server",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"/api/process-image": "POST - Process images",
			"/video/<video_id>":  "GET - Serve generated videos",
			"/health":            "GET - Health check",
			"/":                  "GET - This info page",
		},
		"authorization_required": true,
		"note":                   "This is a development server. It converts satellite images to 5-second looping videos.",
	})
}

// videoIDFromPath extracts the id segment after prefix, rejecting empty or
// nested paths so ids never escape the temp directory.
func videoIDFromPath(urlPath, prefix string) string {
	id := strings.TrimPrefix(urlPath, prefix)
	if id == "" || id != path.Base(id) {
		return ""
	}
	return id
}
