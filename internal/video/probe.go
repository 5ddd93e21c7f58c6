package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Info is the metadata read back from a generated video file.
type Info struct {
	FrameCount int     `json:"frame_count"`
	FPS        float64 `json:"fps"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// Prober reads video metadata with ffprobe. Used only by the diagnostic
// endpoint; failures degrade to an error string there, never a crash.
type Prober struct {
	FFprobePath string
}

// NewProber creates a prober using the given ffprobe binary.
func NewProber(ffprobePath string) *Prober {
	return &Prober{FFprobePath: ffprobePath}
}

type ffprobeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		NbReadFrames string `json:"nb_read_frames"`
	} `json:"streams"`
}

// Probe extracts frame count, frame rate and dimensions from the first
// video stream of the file at path.
func (p *Prober) Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, p.FFprobePath,
		"-v", "error",
		"-count_frames",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,nb_read_frames",
		"-of", "json",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return Info{}, fmt.Errorf("unexpected ffprobe output: %w", err)
	}
	if len(parsed.Streams) == 0 {
		return Info{}, fmt.Errorf("no video stream in %s", path)
	}

	stream := parsed.Streams[0]
	frames, _ := strconv.Atoi(stream.NbReadFrames)

	return Info{
		FrameCount: frames,
		FPS:        parseFrameRate(stream.RFrameRate),
		Width:      stream.Width,
		Height:     stream.Height,
	}, nil
}

// parseFrameRate converts ffprobe's rational frame rate ("30/1") to a
// float, returning 0 on anything unparseable.
func parseFrameRate(rate string) float64 {
	parts := strings.Split(rate, "/")
	if len(parts) != 2 {
		return 0
	}

	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
