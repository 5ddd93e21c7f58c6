package utils

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeImage(t *testing.T) {
	var pngBuf, jpegBuf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	if err := jpeg.Encode(&jpegBuf, img, nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}

	testCases := []struct {
		name       string
		data       []byte
		wantFormat string
		wantErr    bool
	}{
		{name: "PNG", data: pngBuf.Bytes(), wantFormat: "png"},
		{name: "JPEG", data: jpegBuf.Bytes(), wantFormat: "jpeg"},
		{name: "Garbage", data: []byte("not an image"), wantErr: true},
		{name: "Empty", data: nil, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, format, err := DecodeImage(tc.data)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if format != tc.wantFormat {
				t.Errorf("Expected format %q, got %q", tc.wantFormat, format)
			}
			if decoded.Bounds().Dx() != 8 {
				t.Errorf("Unexpected decoded bounds: %v", decoded.Bounds())
			}
		})
	}
}

func TestSaveUploadAndFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.bin")

	if err := SaveUpload(bytes.NewReader([]byte("payload")), path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	size, err := FileSize(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if size != int64(len("payload")) {
		t.Errorf("Expected size %d, got %d", len("payload"), size)
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "victim")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if err := RemoveIfExists(path); err != nil {
		t.Errorf("Unexpected error removing existing file: %v", err)
	}
	// Removing again is not an error
	if err := RemoveIfExists(path); err != nil {
		t.Errorf("Unexpected error removing missing file: %v", err)
	}
}
