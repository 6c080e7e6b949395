package profiles

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"OrtPrepBot/internal/models/domain"
	"OrtPrepBot/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory Store that preserves insertion order, matching the
// created_at ordering of the real repository.
type memStore struct {
	order    []int64
	profiles map[int64]domain.Profile
	pending  map[int64]domain.PendingProfile
}

func newMemStore() *memStore {
	return &memStore{
		profiles: make(map[int64]domain.Profile),
		pending:  make(map[int64]domain.PendingProfile),
	}
}

func (m *memStore) UpsertProfile(_ context.Context, userID int64, fullName string, score int) error {
	if _, ok := m.profiles[userID]; !ok {
		m.order = append(m.order, userID)
	}
	m.profiles[userID] = domain.Profile{UserID: userID, FullName: fullName, Score: score}
	return nil
}

func (m *memStore) GetProfile(_ context.Context, userID int64) (*domain.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("memStore: %w", repositories.ErrNotFound)
	}
	return &p, nil
}

func (m *memStore) ListProfiles(_ context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.profiles[id])
	}
	return out, nil
}

func (m *memStore) PutPending(_ context.Context, userID int64, fullName string, score int) error {
	m.pending[userID] = domain.PendingProfile{UserID: userID, FullName: fullName, Score: score}
	return nil
}

func (m *memStore) GetPending(_ context.Context, userID int64) (*domain.PendingProfile, error) {
	p, ok := m.pending[userID]
	if !ok {
		return nil, fmt.Errorf("memStore: %w", repositories.ErrNotFound)
	}
	return &p, nil
}

func (m *memStore) ListPending(_ context.Context) ([]domain.PendingProfile, error) {
	out := make([]domain.PendingProfile, 0, len(m.pending))
	for _, p := range m.pending {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) DeletePending(_ context.Context, userID int64) (bool, error) {
	if _, ok := m.pending[userID]; !ok {
		return false, nil
	}
	delete(m.pending, userID)
	return true, nil
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := New(testLogger(), store)

	entries := []struct {
		userID int64
		name   string
		score  int
	}{
		{1, "Low", 100},
		{2, "High", 240},
		{3, "Mid", 180},
	}
	for _, e := range entries {
		if err := svc.Upsert(ctx, e.userID, e.name, e.score); err != nil {
			t.Fatalf("Upsert(%d) error: %v", e.userID, err)
		}
	}

	tests := []struct {
		userID   int64
		wantRank int
	}{
		{2, 1},
		{3, 2},
		{1, 3},
	}
	for _, tt := range tests {
		rank, total, err := svc.Rank(ctx, tt.userID)
		if err != nil {
			t.Fatalf("Rank(%d) error: %v", tt.userID, err)
		}
		if rank != tt.wantRank || total != 3 {
			t.Errorf("Rank(%d) = %d/%d, want %d/3", tt.userID, rank, total, tt.wantRank)
		}
	}
}

func TestRankAbsentUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := New(testLogger(), store)

	if err := svc.Upsert(ctx, 1, "Solo", 200); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	rank, total, err := svc.Rank(ctx, 99)
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}
	if rank != 0 || total != 1 {
		t.Errorf("Rank(absent) = %d/%d, want 0/1", rank, total)
	}
}

func TestRankTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := New(testLogger(), store)

	if err := svc.Upsert(ctx, 1, "First", 200); err != nil {
		t.Fatal(err)
	}
	if err := svc.Upsert(ctx, 2, "Second", 200); err != nil {
		t.Fatal(err)
	}

	rank1, _, err := svc.Rank(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	rank2, _, err := svc.Rank(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if rank1 != 1 || rank2 != 2 {
		t.Errorf("tied ranks = %d, %d; want earlier submission first (1, 2)", rank1, rank2)
	}
}

func TestUpsertValidation(t *testing.T) {
	ctx := context.Background()
	svc := New(testLogger(), newMemStore())

	tests := []struct {
		name     string
		fullName string
		score    int
	}{
		{"empty name", "", 100},
		{"blank name", "   ", 100},
		{"negative score", "Name", -1},
		{"score above maximum", "Name", domain.MaxScore + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Upsert(ctx, 1, tt.fullName, tt.score); err == nil {
				t.Errorf("Upsert(%q, %d) succeeded, want error", tt.fullName, tt.score)
			}
		})
	}
}

func TestUpsertReplacesProfile(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := New(testLogger(), store)

	if err := svc.Upsert(ctx, 1, "Old Name", 100); err != nil {
		t.Fatal(err)
	}
	if err := svc.Upsert(ctx, 1, "New Name", 220); err != nil {
		t.Fatal(err)
	}

	p, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if p.FullName != "New Name" || p.Score != 220 {
		t.Errorf("profile = %q/%d, want \"New Name\"/220", p.FullName, p.Score)
	}

	ranked, err := svc.Rankings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 1 {
		t.Errorf("rankings have %d entries after replace, want 1", len(ranked))
	}
}

func TestApprovePromotesPending(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := New(testLogger(), store)

	if err := svc.SubmitPending(ctx, 1, "Applicant", 190); err != nil {
		t.Fatal(err)
	}

	ok, err := svc.Approve(ctx, 1)
	if err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if !ok {
		t.Fatal("Approve() = false, want true")
	}

	p, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get() after approve error: %v", err)
	}
	if p.FullName != "Applicant" || p.Score != 190 {
		t.Errorf("approved profile = %q/%d, want \"Applicant\"/190", p.FullName, p.Score)
	}

	// A second tap on the same moderation button is a no-op.
	ok, err = svc.Approve(ctx, 1)
	if err != nil {
		t.Fatalf("second Approve() error: %v", err)
	}
	if ok {
		t.Error("second Approve() = true, want false")
	}
}

func TestRejectDiscardsPending(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := New(testLogger(), store)

	if err := svc.SubmitPending(ctx, 1, "Applicant", 190); err != nil {
		t.Fatal(err)
	}

	ok, err := svc.Reject(ctx, 1)
	if err != nil {
		t.Fatalf("Reject() error: %v", err)
	}
	if !ok {
		t.Fatal("Reject() = false, want true")
	}

	if _, err := svc.Get(ctx, 1); err == nil {
		t.Error("rejected submission became an approved profile")
	}

	ok, err = svc.Reject(ctx, 1)
	if err != nil {
		t.Fatalf("second Reject() error: %v", err)
	}
	if ok {
		t.Error("second Reject() = true, want false")
	}
}

func TestSubmitPendingReplacesEarlierSubmission(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := New(testLogger(), store)

	if err := svc.SubmitPending(ctx, 1, "First Try", 150); err != nil {
		t.Fatal(err)
	}
	if err := svc.SubmitPending(ctx, 1, "Second Try", 210); err != nil {
		t.Fatal(err)
	}

	ok, err := svc.Approve(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("Approve() = %v, %v; want true, nil", ok, err)
	}

	p, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.FullName != "Second Try" || p.Score != 210 {
		t.Errorf("profile = %q/%d, want the later submission \"Second Try\"/210", p.FullName, p.Score)
	}
}
