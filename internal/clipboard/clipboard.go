// Package clipboard reads pasted images from and writes copied text to the
// system clipboard.
package clipboard

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/chatkit/internal/logger"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init initializes the clipboard. Must be called before other functions.
// This is safe to call multiple times.
func Init() error {
	initOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			logger.ComponentLogger("Clipboard").Warn("clipboard unavailable", "error", err)
			initErr = fmt.Errorf("failed to initialize clipboard: %w", err)
			return
		}
		logger.ComponentLogger("Clipboard").Debug("clipboard initialized")
	})
	return initErr
}

// ReadImage attempts to read an image from the clipboard.
// Returns nil if clipboard doesn't contain an image.
func ReadImage() (*ImageData, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	raw := clipboard.Read(clipboard.FmtImage)
	if len(raw) == 0 {
		return nil, nil
	}
	return DecodeImage(raw)
}

// DecodeImage decodes raw clipboard bytes and re-encodes them as PNG.
func DecodeImage(raw []byte) (*ImageData, error) {
	log := logger.ComponentLogger("Clipboard")

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode clipboard image: %w", err)
	}
	bounds := img.Bounds()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}

	log.Debug("clipboard image decoded",
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"format", format,
		"bytes", buf.Len(),
	)
	return &ImageData{
		Data:      buf.Bytes(),
		MediaType: "image/png",
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

// WriteText writes text to the clipboard.
func WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtText, []byte(text))
	logger.ComponentLogger("Clipboard").Debug("clipboard text written", "bytes", len(text))
	return nil
}
