package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/image/webp"
)

func TestLocalStore_PutDeleteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "/uploads/")

	url, err := s.Put(context.Background(), "avatars/a.txt", strings.NewReader("hi"), 2, "text/plain")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "/uploads/avatars/a.txt" {
		t.Fatalf("unexpected url %s", url)
	}

	if b, _ := os.ReadFile(filepath.Join(dir, "avatars", "a.txt")); string(b) != "hi" {
		t.Fatalf("unexpected content %q", b)
	}

	key, ok := s.KeyFromURL(url)
	if !ok || key != "avatars/a.txt" {
		t.Fatalf("unexpected key %q %v", key, ok)
	}

	if err := s.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(context.Background(), key); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s := NewLocalStore(t.TempDir(), "/uploads")

	if _, ok := s.KeyFromURL("https://elsewhere/x.png"); ok {
		t.Error("foreign url accepted")
	}

	url, err := s.Put(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1, "")
	if err == nil && !strings.HasPrefix(url, "/uploads/etc/") {
		t.Fatalf("traversal escaped the upload dir: %s", url)
	}
}

func TestNewKey_KeepsExtension(t *testing.T) {
	a := NewKey("avatars", "Photo.JPG")
	b := NewKey("avatars", "Photo.JPG")

	if a == b {
		t.Error("keys must be unique")
	}
	if !strings.HasPrefix(a, "avatars/") || !strings.HasSuffix(a, ".jpg") {
		t.Errorf("unexpected key %s", a)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNormalizeAvatar_DownscalesToWebP(t *testing.T) {
	out, err := NormalizeAvatar(pngBytes(t, 1024, 768))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not webp: %v", err)
	}
	if cfg.Width != 512 || cfg.Height != 384 {
		t.Fatalf("expected 512x384, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizeAvatar_KeepsSmallImages(t *testing.T) {
	out, err := NormalizeAvatar(pngBytes(t, 64, 100))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg, _ := webp.DecodeConfig(bytes.NewReader(out))
	if cfg.Width != 64 || cfg.Height != 100 {
		t.Fatalf("expected 64x100, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizeAvatar_RejectsGarbage(t *testing.T) {
	if _, err := NormalizeAvatar([]byte("definitely not an image")); err != ErrUnsupportedImage {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}

type fakeS3 struct {
	puts    []string
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, *in.Bucket+"/"+*in.Key)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_URLsAndKeys(t *testing.T) {
	api := &fakeS3{}
	s := NewS3Store(S3Config{Bucket: "psi", Region: "us-east-1"})
	s.api = api

	url, err := s.Put(context.Background(), "avatars/x.webp", strings.NewReader("x"), 1, "image/webp")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "https://psi.s3.us-east-1.amazonaws.com/avatars/x.webp" {
		t.Fatalf("unexpected url %s", url)
	}

	key, ok := s.KeyFromURL(url)
	if !ok {
		t.Fatal("own url not recognised")
	}
	if err := s.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(api.puts) != 1 || api.deletes[0] != "psi/avatars/x.webp" {
		t.Fatalf("unexpected calls %v %v", api.puts, api.deletes)
	}
}
