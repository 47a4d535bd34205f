package antiabuse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultBulkLikesThreshold      = 50
	DefaultBulkLikesMinAge         = 24 * time.Hour
	DefaultNewUserTargetsThreshold = 10
	DefaultNewUserWindow           = time.Hour
	DefaultDisconnectionThreshold  = 0.8
)

var ErrValidation = errors.New("validation error")

type SentLikesStore interface {
	CountSentBefore(ctx context.Context, phone string, before time.Time) (int, error)
	CountSentToNewAccounts(ctx context.Context, phone string, maxAge time.Duration) (int, error)
}

// CommunityScorer rates how disconnected a sender is from the people they
// like, from 0 (embedded) to 1 (isolated).
type CommunityScorer interface {
	CommunityDisconnection(ctx context.Context, phone string) (float64, error)
}

// NoopCommunityScorer reports every sender as fully connected.
type NoopCommunityScorer struct{}

func (NoopCommunityScorer) CommunityDisconnection(context.Context, string) (float64, error) {
	return 0, nil
}

type Config struct {
	BulkLikesThreshold      int
	BulkLikesMinAge         time.Duration
	NewUserTargetsThreshold int
	NewUserWindow           time.Duration
	DisconnectionThreshold  float64
}

type FarmDetector struct {
	likes     SentLikesStore
	community CommunityScorer
	cfg       Config
	now       func() time.Time
}

func NewFarmDetector(likes SentLikesStore, cfg Config) *FarmDetector {
	if cfg.BulkLikesThreshold <= 0 {
		cfg.BulkLikesThreshold = DefaultBulkLikesThreshold
	}
	if cfg.BulkLikesMinAge <= 0 {
		cfg.BulkLikesMinAge = DefaultBulkLikesMinAge
	}
	if cfg.NewUserTargetsThreshold <= 0 {
		cfg.NewUserTargetsThreshold = DefaultNewUserTargetsThreshold
	}
	if cfg.NewUserWindow <= 0 {
		cfg.NewUserWindow = DefaultNewUserWindow
	}
	if cfg.DisconnectionThreshold <= 0 {
		cfg.DisconnectionThreshold = DefaultDisconnectionThreshold
	}

	return &FarmDetector{
		likes:     likes,
		community: NoopCommunityScorer{},
		cfg:       cfg,
		now:       time.Now,
	}
}

func (d *FarmDetector) AttachCommunityScorer(scorer CommunityScorer) {
	if scorer != nil {
		d.community = scorer
	}
}

// IsFarmAccount is evaluated on every call; results are never cached.
func (d *FarmDetector) IsFarmAccount(ctx context.Context, senderPhone string) (bool, error) {
	senderPhone = strings.TrimSpace(senderPhone)
	if senderPhone == "" {
		return false, ErrValidation
	}
	if d.likes == nil {
		return false, fmt.Errorf("farm detector store is nil")
	}

	// Only likes older than the cutoff are counted, so once an account is a
	// day old this is effectively its all-time volume.
	bulk, err := d.likes.CountSentBefore(ctx, senderPhone, d.now().UTC().Add(-d.cfg.BulkLikesMinAge))
	if err != nil {
		return false, fmt.Errorf("count bulk likes: %w", err)
	}
	if bulk > d.cfg.BulkLikesThreshold {
		return true, nil
	}

	targets, err := d.likes.CountSentToNewAccounts(ctx, senderPhone, d.cfg.NewUserWindow)
	if err != nil {
		return false, fmt.Errorf("count likes to new accounts: %w", err)
	}
	if targets > d.cfg.NewUserTargetsThreshold {
		return true, nil
	}

	disconnection, err := d.community.CommunityDisconnection(ctx, senderPhone)
	if err != nil {
		return false, fmt.Errorf("community disconnection: %w", err)
	}
	return disconnection > d.cfg.DisconnectionThreshold, nil
}
