package domain

import "time"

// Surface languages the bot speaks. Russian is the default; every user-facing
// message has a Kyrgyz counterpart.
const (
	LangRU = "ru"
	LangKG = "kg"
)

// MaxScore is the highest attainable ORT total (65 + 120 + 60).
const MaxScore = 245

// User is a bot user record. Created on first interaction with the default
// language; the language flips to whichever locale the user last used.
type User struct {
	ID        int64
	Lang      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is an approved exam-result profile eligible for ranking.
type Profile struct {
	UserID    int64
	FullName  string
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingProfile is a submitted profile awaiting moderation. Approval moves it
// into Profile, rejection deletes it; a user has at most one of each.
type PendingProfile struct {
	UserID    int64
	FullName  string
	Score     int
	CreatedAt time.Time
}

// Group is a chat registered as a broadcast target.
type Group struct {
	ChatID  int64
	AddedAt time.Time
}
