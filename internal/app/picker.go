package app

import (
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/clipboard"
)

// mediaFromPaste treats pasted text naming an image file as a picked image.
// Terminals paste the path when a file is dropped on the window.
func mediaFromPaste(content string) (chat.MediaReference, bool) {
	path := strings.Trim(strings.TrimSpace(content), `"'`)
	if path == "" || strings.ContainsRune(path, '\n') {
		return chat.MediaReference{}, false
	}
	if strings.HasPrefix(path, "file://") {
		path = strings.TrimPrefix(path, "file://")
	}
	path = strings.ReplaceAll(path, `\ `, " ")

	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(mediaType, "image/") {
		return chat.MediaReference{}, false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() > clipboard.MaxImageSize {
		return chat.MediaReference{}, false
	}

	return chat.MediaReference{
		ID:        uuid.NewString(),
		Kind:      chat.MediaImage,
		MediaType: mediaType,
		Path:      path,
	}, true
}
