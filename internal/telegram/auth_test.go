package telegram

import (
	"testing"

	"OrtPrepBot/internal/config"
)

func testBotWithAdmins(ownerID int64, admins []int64) *Bot {
	return &Bot{
		cfg: &config.Config{
			BotConfig: config.BotConfig{
				OwnerID: ownerID,
				Admins:  admins,
			},
		},
	}
}

func TestIsAdmin(t *testing.T) {
	ortBot := testBotWithAdmins(1, []int64{2, 3})

	tests := []struct {
		name   string
		userID int64
		want   bool
	}{
		{"owner is always admin", 1, true},
		{"listed admin", 2, true},
		{"another listed admin", 3, true},
		{"regular user", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ortBot.isAdmin(tt.userID); got != tt.want {
				t.Errorf("isAdmin(%d) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}

func TestIsOwner(t *testing.T) {
	ortBot := testBotWithAdmins(1, []int64{2})

	if !ortBot.isOwner(1) {
		t.Error("isOwner(owner) = false")
	}
	if ortBot.isOwner(2) {
		t.Error("isOwner(admin) = true, only the configured owner qualifies")
	}
}
