package profiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"OrtPrepBot/internal/models/domain"
	"OrtPrepBot/internal/repositories"
)

// Store is the persistence surface the service needs.
type Store interface {
	UpsertProfile(ctx context.Context, userID int64, fullName string, score int) error
	GetProfile(ctx context.Context, userID int64) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	PutPending(ctx context.Context, userID int64, fullName string, score int) error
	GetPending(ctx context.Context, userID int64) (*domain.PendingProfile, error)
	ListPending(ctx context.Context) ([]domain.PendingProfile, error)
	DeletePending(ctx context.Context, userID int64) (bool, error)
}

// Ranked is a profile annotated with its leaderboard position.
type Ranked struct {
	Position int
	Profile  domain.Profile
}

// Service manages exam-score profiles, their moderation queue and the
// derived leaderboard.
type Service struct {
	store Store
	log   *slog.Logger
}

func New(logger *slog.Logger, store Store) *Service {
	return &Service{
		store: store,
		log:   logger,
	}
}

func validate(fullName string, score int) error {
	if strings.TrimSpace(fullName) == "" {
		return errors.New("full name must not be empty")
	}
	if score < 0 || score > domain.MaxScore {
		return fmt.Errorf("score %d out of range 0..%d", score, domain.MaxScore)
	}
	return nil
}

// Upsert creates or replaces a user's approved profile.
func (s *Service) Upsert(ctx context.Context, userID int64, fullName string, score int) error {
	op := "profiles.Service.Upsert()"
	if err := validate(fullName, score); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.UpsertProfile(ctx, userID, strings.TrimSpace(fullName), score); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get returns a user's approved profile, or repositories.ErrNotFound.
func (s *Service) Get(ctx context.Context, userID int64) (*domain.Profile, error) {
	return s.store.GetProfile(ctx, userID)
}

// Rank returns the user's leaderboard position and the total number of
// participants. Position 0 with a nil error means the user has no approved
// profile yet.
func (s *Service) Rank(ctx context.Context, userID int64) (int, int, error) {
	op := "profiles.Service.Rank()"
	ranked, err := s.rankAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	for _, r := range ranked {
		if r.Profile.UserID == userID {
			return r.Position, len(ranked), nil
		}
	}
	return 0, len(ranked), nil
}

// Rankings returns all approved profiles ordered by descending score.
// Equal scores keep their insertion order, so earlier submissions rank higher.
func (s *Service) Rankings(ctx context.Context) ([]Ranked, error) {
	op := "profiles.Service.Rankings()"
	ranked, err := s.rankAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ranked, nil
}

func (s *Service) rankAll(ctx context.Context) ([]Ranked, error) {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Score > profiles[j].Score
	})

	ranked := make([]Ranked, len(profiles))
	for i, p := range profiles {
		ranked[i] = Ranked{Position: i + 1, Profile: p}
	}
	return ranked, nil
}

// SubmitPending queues a submission for moderation, replacing any earlier
// pending submission from the same user.
func (s *Service) SubmitPending(ctx context.Context, userID int64, fullName string, score int) error {
	op := "profiles.Service.SubmitPending()"
	if err := validate(fullName, score); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.PutPending(ctx, userID, strings.TrimSpace(fullName), score); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("profile submitted for moderation", slog.Int64("userID", userID))
	return nil
}

// PendingList returns every submission awaiting moderation, oldest first.
func (s *Service) PendingList(ctx context.Context) ([]domain.PendingProfile, error) {
	op := "profiles.Service.PendingList()"
	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pending, nil
}

// Approve promotes a pending submission into the approved set. It reports
// false when no pending submission exists, which makes repeated moderation
// taps on the same submission harmless.
func (s *Service) Approve(ctx context.Context, userID int64) (bool, error) {
	op := "profiles.Service.Approve()"
	pending, err := s.store.GetPending(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.UpsertProfile(ctx, pending.UserID, pending.FullName, pending.Score); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.store.DeletePending(ctx, userID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("profile approved", slog.Int64("userID", userID))
	return true, nil
}

// Reject discards a pending submission. It reports false when there was
// nothing to reject.
func (s *Service) Reject(ctx context.Context, userID int64) (bool, error) {
	op := "profiles.Service.Reject()"
	removed, err := s.store.DeletePending(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if removed {
		s.log.Info("profile rejected", slog.Int64("userID", userID))
	}
	return removed, nil
}
