package filesystem

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageFiles implements ports.ImageFiles on the local filesystem
type ImageFiles struct{}

// NewImageFiles creates a new ImageFiles adapter
func NewImageFiles() *ImageFiles {
	return &ImageFiles{}
}

// Exists reports whether path names a regular file
func (f *ImageFiles) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Open decodes a PNG, JPEG, GIF, BMP or WebP file
func (f *ImageFiles) Open(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// SavePNG encodes img at path. The file is created exclusively so an
// existing image is never overwritten.
func (f *ImageFiles) SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	w := bufio.NewWriter(file)
	if err := png.Encode(w, img); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write png: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close png: %w", err)
	}
	return nil
}

// Size returns the file size in bytes
func (f *ImageFiles) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat image: %w", err)
	}
	return info.Size(), nil
}

// Remove deletes the file at path
func (f *ImageFiles) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
