package ports

import "image"

// ImageFiles abstracts image file access in a save directory
type ImageFiles interface {
	Exists(path string) bool

	// Open decodes an image file in any supported format
	Open(path string) (image.Image, error)

	// SavePNG encodes img as PNG at path, creating parent directories
	SavePNG(img image.Image, path string) error

	Size(path string) (int64, error)
	Remove(path string) error
}
