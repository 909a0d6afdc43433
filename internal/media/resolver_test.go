package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zhubert/chatkit/internal/chat"
	"github.com/zhubert/chatkit/internal/errors"
)

// fakeResolver resolves after a per-id delay and fails ids listed in fail.
type fakeResolver struct {
	delay    map[string]time.Duration
	fail     map[string]bool
	fullReqs atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeResolver) ResolveThumbnail(ctx context.Context, ref chat.MediaReference) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	select {
	case <-time.After(f.delay[ref.ID]):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if f.fail[ref.ID] {
		return "", fmt.Errorf("cannot read %s", ref.ID)
	}
	return "thumb://" + ref.ID, nil
}

func (f *fakeResolver) ResolveFull(ctx context.Context, ref chat.MediaReference) (string, error) {
	f.fullReqs.Add(1)
	return "full://" + ref.ID, nil
}

func TestResolveAll_PreservesInputOrder(t *testing.T) {
	r := &fakeResolver{delay: map[string]time.Duration{"a": 30 * time.Millisecond, "b": time.Millisecond}}
	refs := []chat.MediaReference{{ID: "a"}, {ID: "b"}}

	got, err := ResolveAll(context.Background(), r, refs, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ThumbnailURL != "thumb://a" || got[1].ThumbnailURL != "thumb://b" {
		t.Errorf("ResolveAll() = %+v, want a then b", got)
	}
}

func TestResolveAll_VideoGetsFullURL(t *testing.T) {
	r := &fakeResolver{}
	refs := []chat.MediaReference{{ID: "img"}, {ID: "vid", Kind: chat.MediaVideo}}

	got, err := ResolveAll(context.Background(), r, refs, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].FullURL != "" {
		t.Errorf("image FullURL = %q, want empty", got[0].FullURL)
	}
	if got[1].FullURL != "full://vid" {
		t.Errorf("video FullURL = %q", got[1].FullURL)
	}
	if r.fullReqs.Load() != 1 {
		t.Errorf("ResolveFull called %d times, want 1", r.fullReqs.Load())
	}
}

func TestResolveAll_OneFailureFailsAll(t *testing.T) {
	r := &fakeResolver{fail: map[string]bool{"b": true}}
	refs := []chat.MediaReference{{ID: "a"}, {ID: "b"}}

	got, err := ResolveAll(context.Background(), r, refs, 2)
	if err == nil {
		t.Fatal("expected error")
	}
	if got != nil {
		t.Errorf("partial result returned: %+v", got)
	}
	if !errors.Is(err, errors.KindMediaResolution) {
		t.Errorf("expected KindMediaResolution, got %v", errors.GetKind(err))
	}
	if !strings.Contains(err.Error(), "b") {
		t.Errorf("error should name the media: %v", err)
	}
}

func TestResolveAll_RespectsLimit(t *testing.T) {
	delay := map[string]time.Duration{}
	var refs []chat.MediaReference
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("m%d", i)
		delay[id] = 5 * time.Millisecond
		refs = append(refs, chat.MediaReference{ID: id})
	}
	r := &fakeResolver{delay: delay}

	if _, err := ResolveAll(context.Background(), r, refs, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := r.peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeFileURL(t *testing.T, url string) image.Image {
	t.Helper()
	data, err := os.ReadFile(strings.TrimPrefix(url, "file://"))
	if err != nil {
		t.Fatalf("read %s: %v", url, err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return img
}

func TestFileResolver_ImageThumbnail(t *testing.T) {
	r, err := NewFileResolver(t.TempDir(), 64)
	if err != nil {
		t.Fatal(err)
	}
	ref := chat.MediaReference{ID: "wide", MediaType: "image/png", Data: pngBytes(t, 256, 128)}

	url, err := r.ResolveThumbnail(context.Background(), ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "file://") {
		t.Errorf("url = %q", url)
	}
	if got := decodeFileURL(t, url).Bounds().Size(); got != image.Pt(64, 32) {
		t.Errorf("thumbnail size = %v, want (64,32)", got)
	}
}

func TestFileResolver_VideoUsesPoster(t *testing.T) {
	dir := t.TempDir()
	r, err := NewFileResolver(dir, 32)
	if err != nil {
		t.Fatal(err)
	}
	video := []byte("not really an mp4")
	ref := chat.MediaReference{ID: "clip", Kind: chat.MediaVideo, MediaType: "video/mp4", Data: video, Poster: pngBytes(t, 16, 16)}

	thumb, err := r.ResolveThumbnail(context.Background(), ref)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	if got := decodeFileURL(t, thumb).Bounds().Size(); got != image.Pt(16, 16) {
		t.Errorf("small poster should not be scaled, got %v", got)
	}

	full, err := r.ResolveFull(context.Background(), ref)
	if err != nil {
		t.Fatalf("full: %v", err)
	}
	data, err := os.ReadFile(strings.TrimPrefix(full, "file://"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, video) {
		t.Error("full copy differs from source")
	}
}

func TestFileResolver_Errors(t *testing.T) {
	r, err := NewFileResolver(t.TempDir(), 32)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ref  chat.MediaReference
		kind errors.Kind
	}{
		{"no content", chat.MediaReference{ID: "x"}, errors.KindNotFound},
		{"video without poster", chat.MediaReference{ID: "v", Kind: chat.MediaVideo, Data: []byte("v")}, errors.KindNotFound},
		{"not an image", chat.MediaReference{ID: "y", Data: []byte("garbage")}, errors.KindInvalid},
		{"missing file", chat.MediaReference{ID: "z", Path: "/nonexistent/z.png"}, errors.KindIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ResolveThumbnail(context.Background(), tt.ref)
			if !errors.Is(err, tt.kind) {
				t.Errorf("ResolveThumbnail() error = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		size int
		want image.Point
	}{
		{"landscape", 400, 200, 100, image.Pt(100, 50)},
		{"portrait", 200, 400, 100, image.Pt(50, 100)},
		{"already small", 40, 20, 100, image.Pt(40, 20)},
		{"extreme ratio", 1000, 1, 10, image.Pt(10, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			if got := Scale(img, tt.size).Bounds().Size(); got != tt.want {
				t.Errorf("Scale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.mov"} {
		if err := os.WriteFile(dir+"/"+name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := ClearCache(dir)
	if err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if n != 3 {
		t.Errorf("removed %d files, want 3", n)
	}
	left, _ := os.ReadDir(dir)
	if len(left) != 0 {
		t.Errorf("%d entries left behind", len(left))
	}

	n, err = ClearCache(dir + "/missing")
	if err != nil || n != 0 {
		t.Errorf("missing dir = (%d, %v), want (0, nil)", n, err)
	}
}

func TestFileResolver_RejectsIDsOutsideCache(t *testing.T) {
	parent := t.TempDir()
	dir := parent + string(os.PathSeparator) + "cache"
	r, err := NewFileResolver(dir, 32)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"../escape", "..", "nested/clip", `..\escape`, ""} {
		t.Run(id, func(t *testing.T) {
			img := chat.MediaReference{ID: id, MediaType: "image/png", Data: pngBytes(t, 8, 8)}
			if _, err := r.ResolveThumbnail(context.Background(), img); !errors.Is(err, errors.KindInvalid) {
				t.Errorf("ResolveThumbnail() error = %v, want invalid", err)
			}
			video := chat.MediaReference{ID: id, Kind: chat.MediaVideo, MediaType: "video/mp4", Data: []byte("v")}
			if _, err := r.ResolveFull(context.Background(), video); !errors.Is(err, errors.KindInvalid) {
				t.Errorf("ResolveFull() error = %v, want invalid", err)
			}
		})
	}

	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "cache" {
			t.Errorf("file %q written outside the cache", e.Name())
		}
	}
}
