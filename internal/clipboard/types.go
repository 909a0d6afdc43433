package clipboard

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zhubert/chatkit/internal/chat"
)

// MaxImageSize is the largest pasted image accepted, in bytes
const MaxImageSize = 10 << 20

// MaxImageDimension is the maximum allowed width or height in pixels
const MaxImageDimension = 8000

// ImageData represents clipboard image data
type ImageData struct {
	Data      []byte // PNG encoded image data
	MediaType string // Always "image/png" since we re-encode
	Width     int
	Height    int
}

// Validate checks the image against the paste limits.
func (img *ImageData) Validate() error {
	if len(img.Data) > MaxImageSize {
		return fmt.Errorf("image too large: %d bytes (max %.1fMB)",
			len(img.Data), float64(MaxImageSize)/(1<<20))
	}

	if img.Width > MaxImageDimension || img.Height > MaxImageDimension {
		return fmt.Errorf("image dimensions too large: %dx%d (max %dx%d)",
			img.Width, img.Height, MaxImageDimension, MaxImageDimension)
	}

	return nil
}

// SizeKB returns the image size in kilobytes
func (img *ImageData) SizeKB() int {
	return len(img.Data) / 1024
}

// MediaReference turns the pasted image into a picked media item with a
// fresh id.
func (img *ImageData) MediaReference() chat.MediaReference {
	return chat.MediaReference{
		ID:        uuid.NewString(),
		Kind:      chat.MediaImage,
		MediaType: img.MediaType,
		Data:      img.Data,
	}
}
