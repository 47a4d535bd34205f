package likes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ivankudzin/goodwill/internal/domain/model"
	pgrepo "github.com/ivankudzin/goodwill/internal/repo/postgres"
)

func (s *Service) GetSentHistory(ctx context.Context, phone string) ([]model.LikeHistory, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrValidation
	}
	if s.history == nil {
		return nil, ErrDependenciesNil
	}

	items, err := s.history.ListSent(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("list sent history: %w", err)
	}
	return items, nil
}

func (s *Service) GetReceivedHistory(ctx context.Context, phone string) ([]model.LikeHistory, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrValidation
	}
	if s.history == nil {
		return nil, ErrDependenciesNil
	}

	items, err := s.history.ListReceived(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("list received history: %w", err)
	}
	return items, nil
}

func (s *Service) GetHistoryBetween(ctx context.Context, a, b string) ([]model.LikeHistory, error) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return nil, ErrValidation
	}
	if s.history == nil {
		return nil, ErrDependenciesNil
	}

	items, err := s.history.ListBetween(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("list history between users: %w", err)
	}
	return items, nil
}

func (s *Service) GetMostRecentAction(ctx context.Context, from, to string) (model.LikeHistory, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return model.LikeHistory{}, ErrValidation
	}
	if s.history == nil {
		return model.LikeHistory{}, ErrDependenciesNil
	}

	entry, err := s.history.MostRecent(ctx, from, to)
	if err != nil {
		if errors.Is(err, pgrepo.ErrHistoryNotFound) {
			return model.LikeHistory{}, ErrHistoryNotFound
		}
		return model.LikeHistory{}, fmt.Errorf("find most recent action: %w", err)
	}
	return entry, nil
}
