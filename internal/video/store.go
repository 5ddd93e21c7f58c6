package video

import (
	"os"
	"path/filepath"

	"github.com/marcusziade/satvid-go/internal/errors"
)

// filePrefix namespaces our files inside the shared temp directory.
const filePrefix = "satellite_"

// Store maps upload ids to file locations inside the temp directory. Ids
// are caller-opaque uuids, so paths never collide and no locking is needed.
type Store struct {
	Dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// ImagePath returns the temp path for an uploaded source image.
func (s *Store) ImagePath(id string) string {
	return filepath.Join(s.Dir, filePrefix+id+".png")
}

// VideoPath returns the temp path for a generated video.
func (s *Store) VideoPath(id string) string {
	return filepath.Join(s.Dir, filePrefix+id+".mp4")
}

// VideoSize returns the size of the generated video for id. A missing file
// yields a not-found error; an existing zero-byte file yields an
// empty-resource error.
func (s *Store) VideoSize(id string) (int64, error) {
	info, err := os.Stat(s.VideoPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NotFound("Video not found")
		}
		return 0, errors.Internal(err)
	}

	if info.Size() == 0 {
		return 0, errors.Empty("Video file is empty")
	}

	return info.Size(), nil
}
