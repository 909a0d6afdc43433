// Package media resolves picked media references to stable URLs before a
// message is sent.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/errors"
	"github.com/zhubert/chatkit/internal/logger"
)

// Resolver turns a media reference into URLs that stay valid after the
// picker's temporary data is gone.
type Resolver interface {
	ResolveThumbnail(ctx context.Context, ref chat.MediaReference) (string, error)
	// ResolveFull is only called for video.
	ResolveFull(ctx context.Context, ref chat.MediaReference) (string, error)
}

// FileResolver writes thumbnails and full copies into a cache directory.
type FileResolver struct {
	dir  string
	size int
	log  *slog.Logger
}

// NewFileResolver creates the cache directory if needed. Thumbnails fit in a
// size x size box.
func NewFileResolver(dir string, size int) (*FileResolver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.E(errors.Op("media.NewFileResolver"), errors.KindIO, "create cache dir", err)
	}
	return &FileResolver{
		dir:  dir,
		size: size,
		log:  logger.ComponentLogger("Media"),
	}, nil
}

// ResolveThumbnail scales the image, or the poster frame of a video, and
// stores it as PNG.
func (r *FileResolver) ResolveThumbnail(ctx context.Context, ref chat.MediaReference) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src := ref.Poster
	if ref.Kind == chat.MediaImage {
		data, err := content(ref)
		if err != nil {
			return "", err
		}
		src = data
	}
	if len(src) == 0 {
		return "", errors.E(errors.Op("media.ResolveThumbnail"), errors.KindNotFound, fmt.Sprintf("no preview for %s %s", ref.Kind, ref.ID))
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return "", errors.E(errors.Op("media.ResolveThumbnail"), errors.KindInvalid, "decode image", err)
	}
	thumb := Scale(img, r.size)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return "", errors.E(errors.Op("media.ResolveThumbnail"), errors.KindIO, "encode thumbnail", err)
	}
	path, err := r.cachePath("media.ResolveThumbnail", ref.ID, "-thumb.png")
	if err != nil {
		return "", err
	}
	if err := writeFile(ctx, path, buf.Bytes()); err != nil {
		return "", err
	}
	r.log.Debug("thumbnail written", "media", ref.ID, "path", path, "bounds", thumb.Bounds().Size())
	return fileURL(path), nil
}

// ResolveFull copies the original video into the cache.
func (r *FileResolver) ResolveFull(ctx context.Context, ref chat.MediaReference) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := content(ref)
	if err != nil {
		return "", err
	}
	path, err := r.cachePath("media.ResolveFull", ref.ID, extension(ref))
	if err != nil {
		return "", err
	}
	if err := writeFile(ctx, path, data); err != nil {
		return "", err
	}
	r.log.Debug("full media written", "media", ref.ID, "path", path, "bytes", len(data))
	return fileURL(path), nil
}

// cachePath names the cache file for a media id. Ids must be a single path
// element so every file stays inside the cache dir.
func (r *FileResolver) cachePath(op, id, suffix string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return "", errors.E(errors.Op(op), errors.KindInvalid, fmt.Sprintf("bad media id %q", id))
	}
	return filepath.Join(r.dir, id+suffix), nil
}

// Scale fits img into a size x size box preserving aspect ratio. Images
// already small enough are returned as is.
func Scale(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if size <= 0 || (w <= size && h <= size) {
		return img
	}
	if w >= h {
		h = max(1, h*size/w)
		w = size
	} else {
		w = max(1, w*size/h)
		h = size
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// ResolveAll resolves every reference concurrently with at most limit
// resolutions in flight. Results keep input order. The first failure
// cancels the rest and fails the whole batch.
func ResolveAll(ctx context.Context, r Resolver, refs []chat.MediaReference, limit int) ([]chat.Attachment, error) {
	out := make([]chat.Attachment, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, ref := range refs {
		g.Go(func() error {
			thumb, err := r.ResolveThumbnail(ctx, ref)
			if err != nil {
				return errors.MediaResolveFailed(ref.ID, err)
			}
			att := chat.Attachment{ID: ref.ID, Kind: ref.Kind, ThumbnailURL: thumb}
			if ref.Kind == chat.MediaVideo {
				full, err := r.ResolveFull(ctx, ref)
				if err != nil {
					return errors.MediaResolveFailed(ref.ID, err)
				}
				att.FullURL = full
			}
			out[i] = att
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func content(ref chat.MediaReference) ([]byte, error) {
	if len(ref.Data) > 0 {
		return ref.Data, nil
	}
	if ref.Path == "" {
		return nil, errors.E(errors.Op("media.Read"), errors.KindNotFound, fmt.Sprintf("media %s has no content", ref.ID))
	}
	f, err := os.Open(ref.Path)
	if err != nil {
		return nil, errors.E(errors.Op("media.Read"), errors.KindIO, ref.Path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.E(errors.Op("media.Read"), errors.KindIO, ref.Path, err)
	}
	return data, nil
}

func writeFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.E(errors.Op("media.Write"), errors.KindIO, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.E(errors.Op("media.Write"), errors.KindIO, path, err)
	}
	return nil
}

func extension(ref chat.MediaReference) string {
	if ext := filepath.Ext(ref.Path); ext != "" {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(ref.MediaType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func fileURL(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// ClearCache removes every file under dir and returns how many were removed.
// A missing dir is not an error.
func ClearCache(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.E(errors.Op("media.ClearCache"), errors.KindIO, dir, err)
	}

	count := 0
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return count, errors.E(errors.Op("media.ClearCache"), errors.KindIO, e.Name(), err)
		}
		count++
	}
	return count, nil
}
