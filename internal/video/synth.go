package video

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/marcusziade/satvid-go/internal/logger"
	"github.com/marcusziade/satvid-go/internal/utils"
)

// Default synthesis parameters. The frontend displays a 512x512 player, so
// the source image is force-resized to that square regardless of aspect
// ratio.
const (
	DefaultDuration  = 5 * time.Second
	DefaultFPS       = 30
	DefaultFrameSize = 512
)

// encoderProbe is one entry of the ordered encoder fallback list. The
// container extension travels with the codec because not every codec muxes
// into every container.
type encoderProbe struct {
	Codec string
	Ext   string
}

// encoderProbes is tried in order; the first probe that produces a
// non-empty output file wins. H.264 first for web playback, then
// progressively less compatible fallbacks.
var encoderProbes = []encoderProbe{
	{Codec: "libx264", Ext: ".mp4"},
	{Codec: "mpeg4", Ext: ".mp4"},
	{Codec: "libxvid", Ext: ".avi"},
	{Codec: "mjpeg", Ext: ".avi"},
}

// Synthesizer turns a static image into a short looping video by encoding
// the same resized frame for the configured duration.
type Synthesizer struct {
	FFmpegPath string
	Duration   time.Duration
	FPS        int
	FrameSize  int
	Logger     *logger.Logger
}

// NewSynthesizer creates a synthesizer with the default duration, frame
// rate and frame size.
func NewSynthesizer(ffmpegPath string, log *logger.Logger) *Synthesizer {
	return &Synthesizer{
		FFmpegPath: ffmpegPath,
		Duration:   DefaultDuration,
		FPS:        DefaultFPS,
		FrameSize:  DefaultFrameSize,
		Logger:     log,
	}
}

// CreateFromImage reads the image at imagePath and writes a video to
// outputPath. Each encoder probe is attempted once in order; if the probe
// that succeeds used a different container extension than outputPath, the
// result is renamed into place.
func (s *Synthesizer) CreateFromImage(ctx context.Context, imagePath, outputPath string) error {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read source image: %w", err)
	}

	img, format, err := utils.DecodeImage(data)
	if err != nil {
		return fmt.Errorf("could not read image file: %w", err)
	}

	bounds := img.Bounds()
	s.Logger.Info("Original image dimensions: %dx%d (%s)", bounds.Dx(), bounds.Dy(), format)

	frame := s.resizeFrame(img)
	s.Logger.Info("Resized image to: %dx%d", s.FrameSize, s.FrameSize)

	framePath, err := s.writeFrame(frame, outputPath)
	if err != nil {
		return err
	}
	defer utils.RemoveIfExists(framePath)

	var lastErr error
	for _, probe := range encoderProbes {
		candidate := replaceExt(outputPath, probe.Ext)
		s.Logger.Info("Trying encoder: %s, output: %s", probe.Codec, candidate)

		if err := s.runFFmpeg(ctx, framePath, candidate, probe); err != nil {
			s.Logger.Warn("Encoder %s failed: %v", probe.Codec, err)
			utils.RemoveIfExists(candidate)
			lastErr = err
			continue
		}

		size, err := utils.FileSize(candidate)
		if err != nil || size == 0 {
			s.Logger.Warn("Video file not created or empty with encoder %s", probe.Codec)
			utils.RemoveIfExists(candidate)
			lastErr = fmt.Errorf("encoder %s produced no output", probe.Codec)
			continue
		}

		if candidate != outputPath {
			if err := os.Rename(candidate, outputPath); err != nil {
				utils.RemoveIfExists(candidate)
				lastErr = fmt.Errorf("failed to move %s into place: %w", candidate, err)
				continue
			}
		}

		totalFrames := int(s.Duration.Seconds()) * s.FPS
		s.Logger.Info("Successfully created video: %s (%v, %dfps, %d frames, size: %d bytes)",
			outputPath, s.Duration, s.FPS, totalFrames, size)
		return nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no encoder probes configured")
	}
	return fmt.Errorf("all encoders failed to create video: %w", lastErr)
}

// resizeFrame force-scales the image to a FrameSize square. Aspect ratio is
// intentionally not preserved; the display size is fixed.
func (s *Synthesizer) resizeFrame(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, s.FrameSize, s.FrameSize))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// writeFrame persists the resized frame next to the output path so ffmpeg
// can loop over it.
func (s *Synthesizer) writeFrame(frame image.Image, outputPath string) (string, error) {
	framePath := replaceExt(outputPath, "") + "_frame.png"

	file, err := os.Create(framePath)
	if err != nil {
		return "", fmt.Errorf("failed to create frame file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, frame); err != nil {
		utils.RemoveIfExists(framePath)
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}
	return framePath, nil
}

// runFFmpeg loops the single frame for the configured duration with the
// probe's codec. The output path must be the final argument.
func (s *Synthesizer) runFFmpeg(ctx context.Context, framePath, outputPath string, probe encoderProbe) error {
	args := []string{
		"-y",
		"-loop", "1",
		"-framerate", strconv.Itoa(s.FPS),
		"-i", framePath,
		"-t", strconv.FormatFloat(s.Duration.Seconds(), 'f', -1, 64),
		"-c:v", probe.Codec,
	}

	// MP4 playback compatibility
	if probe.Ext == ".mp4" {
		args = append(args, "-pix_fmt", "yuv420p", "-movflags", "+faststart")
	}
	args = append(args, outputPath)

	cmd := exec.CommandContext(ctx, s.FFmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// replaceExt swaps the extension of path for ext ("" strips it).
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
