package utils

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	// Register decoders beyond the stdlib defaults so uploads in any of the
	// common formats pass validation.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes image bytes and returns the image and its format
// name. All registered formats (png, jpeg, gif, webp, bmp, tiff) are
// accepted.
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// SaveUpload writes the raw upload bytes to path. The file is created with
// 0644 and truncated if it already exists.
func SaveUpload(r io.Reader, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return fmt.Errorf("failed to write upload file: %w", err)
	}
	return nil
}

// FileSize returns the size of the file at path, or an error if it does
// not exist.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// RemoveIfExists removes the file at path, ignoring the case where it is
// already gone.
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
