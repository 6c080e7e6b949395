package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"OrtPrepBot/internal/broadcast"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// sender adapts go-telegram/bot to the broadcast transport interfaces,
// translating flood-control responses into broadcast.RateLimitError.
type sender struct {
	b *bot.Bot
}

func (s *sender) Send(ctx context.Context, recipient int64, p broadcast.Payload) (broadcast.MessageRef, error) {
	var msg *models.Message
	var err error

	switch p.Kind {
	case broadcast.PayloadPhoto:
		msg, err = s.b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  recipient,
			Photo:   &models.InputFileString{Data: p.PhotoID},
			Caption: p.Caption,
		})
	default:
		msg, err = s.b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: recipient,
			Text:   p.Text,
		})
	}
	if err != nil {
		var tooMany *bot.TooManyRequestsError
		if errors.As(err, &tooMany) {
			return broadcast.MessageRef{}, &broadcast.RateLimitError{
				RetryAfter: time.Duration(tooMany.RetryAfter) * time.Second,
			}
		}
		return broadcast.MessageRef{}, &broadcast.DeliveryError{
			Recipient: recipient,
			Cause:     err,
		}
	}

	return broadcast.MessageRef{
		ChatID:    recipient,
		MessageID: msg.ID,
	}, nil
}

func (s *sender) Pin(ctx context.Context, ref broadcast.MessageRef, silent bool) error {
	ok, err := s.b.PinChatMessage(ctx, &bot.PinChatMessageParams{
		ChatID:              ref.ChatID,
		MessageID:           ref.MessageID,
		DisableNotification: silent,
	})
	if err != nil {
		return fmt.Errorf("pin message %d in chat %d: %w", ref.MessageID, ref.ChatID, err)
	}
	if !ok {
		return fmt.Errorf("pin message %d in chat %d: declined", ref.MessageID, ref.ChatID)
	}
	return nil
}
