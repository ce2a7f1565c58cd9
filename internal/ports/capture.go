package ports

import (
	"context"
	"image"
)

// Clipboard reads the system clipboard
type Clipboard interface {
	// Image returns the clipboard image, or nil with no error when the
	// clipboard holds no image
	Image(ctx context.Context) (image.Image, error)

	// Text returns the clipboard text. An empty clipboard is not an error.
	Text() (string, error)
}

// ScreenGrabber captures the whole screen
type ScreenGrabber interface {
	Grab(ctx context.Context) (image.Image, error)
}
