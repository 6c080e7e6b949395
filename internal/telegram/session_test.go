package telegram

import (
	"testing"
	"time"

	"OrtPrepBot/internal/broadcast"

	"github.com/go-telegram/bot/models"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	s := newSessionStore()

	if _, ok := s.get(1); ok {
		t.Error("get() on an empty store reported a conversation")
	}

	s.set(1, awaitingPercentageScores{Lang: "kg"})
	conv, ok := s.get(1)
	if !ok {
		t.Fatal("get() = false after set")
	}
	c, ok := conv.(awaitingPercentageScores)
	if !ok {
		t.Fatalf("conversation is %T, want awaitingPercentageScores", conv)
	}
	if c.Lang != "kg" {
		t.Errorf("Lang = %q, want kg", c.Lang)
	}
}

func TestSessionStoreOverwrite(t *testing.T) {
	s := newSessionStore()

	s.set(1, awaitingProfileName{Lang: "ru"})
	s.set(1, awaitingProfileScore{Lang: "ru", FullName: "Test User"})

	conv, ok := s.get(1)
	if !ok {
		t.Fatal("get() = false after overwrite")
	}
	c, ok := conv.(awaitingProfileScore)
	if !ok {
		t.Fatalf("conversation is %T, want awaitingProfileScore", conv)
	}
	if c.FullName != "Test User" {
		t.Errorf("FullName = %q, want Test User", c.FullName)
	}
}

func TestSessionStoreClear(t *testing.T) {
	s := newSessionStore()

	s.set(1, awaitingBroadcastContent{})
	s.clear(1)

	if _, ok := s.get(1); ok {
		t.Error("get() reported a conversation after clear")
	}
}

func TestSessionStoreIsolatesChats(t *testing.T) {
	s := newSessionStore()

	s.set(1, awaitingProfileName{Lang: "ru"})
	s.set(2, awaitingCorrectAnswers{Lang: "kg"})
	s.clear(1)

	if _, ok := s.get(1); ok {
		t.Error("chat 1 still has a conversation after clear")
	}
	if _, ok := s.get(2); !ok {
		t.Error("clearing chat 1 removed chat 2's conversation")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	s := newSessionStore()
	s.set(1, awaitingProfileName{Lang: "ru"})

	s.mu.Lock()
	sess := s.data[1]
	sess.expiresAt = time.Now().Add(-time.Second)
	s.data[1] = sess
	s.mu.Unlock()

	if _, ok := s.get(1); ok {
		t.Error("get() returned an expired conversation")
	}
}

func TestConversationVariantsCarryPayload(t *testing.T) {
	payload := broadcast.Payload{Kind: broadcast.PayloadText, Text: "hello"}
	s := newSessionStore()

	s.set(1, awaitingFinalConfirm{Payload: payload, ToGroups: true, Pin: broadcast.PinSilent})

	conv, ok := s.get(1)
	if !ok {
		t.Fatal("get() = false after set")
	}
	c, ok := conv.(awaitingFinalConfirm)
	if !ok {
		t.Fatalf("conversation is %T, want awaitingFinalConfirm", conv)
	}
	if c.Payload.Text != "hello" || !c.ToGroups || c.Pin != broadcast.PinSilent {
		t.Errorf("round-tripped state = %+v, want payload/target/pin preserved", c)
	}
}

func TestBuildRoutesCoversBothLocales(t *testing.T) {
	ortBot := &Bot{}
	routes := ortBot.buildRoutes()

	pairs := [][2]string{
		{"подсчет баллов орт", "жрт баллдарын эсептөө"},
		{"профиль", "профилим"},
		{"обновить профиль", "профилди жаңыртуу"},
	}
	for _, pair := range pairs {
		for _, trigger := range pair {
			if _, ok := routes[trigger]; !ok {
				t.Errorf("trigger %q is not routed", trigger)
			}
		}
	}
	for _, trigger := range []string{"рейтинг", "рассылка", "анонс", "сезам откройся", "статистика", "заявки"} {
		if _, ok := routes[trigger]; !ok {
			t.Errorf("trigger %q is not routed", trigger)
		}
	}
}

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name   string
		msg    *models.Message
		want   broadcast.Payload
		wantOK bool
	}{
		{
			name:   "nil message",
			msg:    nil,
			wantOK: false,
		},
		{
			name:   "text message",
			msg:    &models.Message{Text: "announcement"},
			want:   broadcast.Payload{Kind: broadcast.PayloadText, Text: "announcement"},
			wantOK: true,
		},
		{
			name:   "blank text",
			msg:    &models.Message{Text: "   "},
			wantOK: false,
		},
		{
			name: "photo picks largest size",
			msg: &models.Message{
				Photo: []models.PhotoSize{
					{FileID: "small"},
					{FileID: "large"},
				},
				Caption: "look",
			},
			want:   broadcast.Payload{Kind: broadcast.PayloadPhoto, PhotoID: "large", Caption: "look"},
			wantOK: true,
		},
		{
			name:   "sticker or other content",
			msg:    &models.Message{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractPayload(tt.msg)
			if ok != tt.wantOK {
				t.Fatalf("extractPayload() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("extractPayload() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
