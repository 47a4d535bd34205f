package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation error")

const signedURLTTL = time.Hour

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type UploadURL struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

type Service struct {
	storage ObjectStorage
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
}

func NewService(storage ObjectStorage, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = signedURLTTL
	}

	return &Service{
		storage: storage,
		ttl:     ttl,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// PresignUpload issues a PUT URL for a profile picture under the owner's
// phone number prefix. Only image content types are accepted.
func (s *Service) PresignUpload(ctx context.Context, phone, contentType string) (UploadURL, error) {
	phone = strings.TrimSpace(phone)
	ext, ok := imageExtension(contentType)
	if phone == "" || !ok {
		return UploadURL{}, ErrValidation
	}
	if s.storage == nil {
		return UploadURL{}, fmt.Errorf("media dependencies are not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return UploadURL{}, fmt.Errorf("ensure bucket: %w", err)
	}

	key := path.Join(phone, s.newID()+"."+ext)
	signed, err := s.storage.PresignPut(ctx, key, s.ttl)
	if err != nil {
		return UploadURL{}, err
	}

	return UploadURL{
		Key:       key,
		URL:       signed,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}, nil
}

func (s *Service) PresignRead(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrValidation
	}
	if s.storage == nil {
		return "", fmt.Errorf("media dependencies are not configured")
	}

	return s.storage.PresignGet(ctx, key, s.ttl)
}

func imageExtension(contentType string) (string, bool) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	subtype, ok := strings.CutPrefix(contentType, "image/")
	if !ok || subtype == "" {
		return "", false
	}
	if i := strings.IndexByte(subtype, '+'); i >= 0 {
		subtype = subtype[:i]
	}
	if subtype == "jpeg" {
		subtype = "jpg"
	}
	return subtype, subtype != ""
}
