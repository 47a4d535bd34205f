package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeStorage struct {
	putKeys []string
	ttl     time.Duration
}

func (f *fakeStorage) EnsureBucket(_ context.Context) error {
	return nil
}

func (f *fakeStorage) PresignPut(_ context.Context, key string, ttl time.Duration) (string, error) {
	f.putKeys = append(f.putKeys, key)
	f.ttl = ttl
	return "https://s3.local/put/" + key, nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.local/get/" + key, nil
}

func TestPresignUploadBuildsKeyUnderPhone(t *testing.T) {
	storage := &fakeStorage{}
	service := NewService(storage, 0)
	service.newID = func() string { return "abc" }
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	upload, err := service.PresignUpload(context.Background(), "+15550001", "image/jpeg")
	if err != nil {
		t.Fatalf("presign upload: %v", err)
	}
	if upload.Key != "+15550001/abc.jpg" {
		t.Fatalf("unexpected key: got %s", upload.Key)
	}
	if !strings.HasSuffix(upload.URL, upload.Key) {
		t.Fatalf("unexpected url: %s", upload.URL)
	}
	if storage.ttl != time.Hour {
		t.Fatalf("unexpected ttl: got %s want 1h", storage.ttl)
	}
	if !upload.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %s", upload.ExpiresAt)
	}
}

func TestPresignUploadRejectsNonImages(t *testing.T) {
	service := NewService(&fakeStorage{}, time.Hour)

	for _, contentType := range []string{"application/pdf", "text/plain", "image/", ""} {
		if _, err := service.PresignUpload(context.Background(), "+15550001", contentType); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", contentType, err)
		}
	}
}

func TestImageExtension(t *testing.T) {
	cases := map[string]string{
		"image/png":                "png",
		"IMAGE/WEBP":               "webp",
		"image/svg+xml":            "svg",
		"image/jpeg; charset=utf8": "jpg",
	}
	for contentType, want := range cases {
		got, ok := imageExtension(contentType)
		if !ok || got != want {
			t.Fatalf("unexpected extension for %q: got %q ok=%v want %q", contentType, got, ok, want)
		}
	}
}
