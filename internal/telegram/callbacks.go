package telegram

import (
	"context"
	"strconv"
	"strings"

	"OrtPrepBot/internal/localization"
	"OrtPrepBot/internal/models/domain"
	"OrtPrepBot/internal/utils/logger/sl"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleCallbackQuery routes inline keyboard presses.
func (ortBot *Bot) handleCallbackQuery(ctx context.Context, update *models.Update) {
	cb := update.CallbackQuery
	data := cb.Data
	userID := cb.From.ID

	chatID := userID
	if cb.Message.Message != nil {
		chatID = cb.Message.Message.Chat.ID
	}

	ortBot.answerCallback(ctx, cb.ID, "")

	switch {
	case data == "method_percentage" || data == "method_percentage_kg":
		lang := domain.LangRU
		if strings.HasSuffix(data, "_kg") {
			lang = domain.LangKG
		}
		ortBot.rememberLang(ctx, userID, lang)
		ortBot.sessions.set(chatID, awaitingPercentageScores{Lang: lang})
		if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(localization.EnterPercentages, lang)); err != nil {
			ortBot.log.Error("failed to prompt percentages", sl.Err(err))
		}

	case data == "method_correct_answers" || data == "method_correct_answers_kg":
		lang := domain.LangRU
		if strings.HasSuffix(data, "_kg") {
			lang = domain.LangKG
		}
		ortBot.rememberLang(ctx, userID, lang)
		ortBot.sessions.set(chatID, awaitingCorrectAnswers{Lang: lang})
		if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(localization.EnterCorrectAnswers, lang)); err != nil {
			ortBot.log.Error("failed to prompt correct answers", sl.Err(err))
		}

	case data == "create_profile" || data == "update_profile":
		lang := ortBot.userLang(ctx, userID)
		ortBot.startProfileCreation(ctx, chatID, lang)

	case data == "cancel_profile":
		lang := ortBot.userLang(ctx, userID)
		ortBot.sessions.clear(chatID)
		if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(localization.ProfileRejected, lang)); err != nil {
			ortBot.log.Error("failed to confirm cancel", sl.Err(err))
		}

	case data == "show_rating":
		lang := ortBot.userLang(ctx, userID)
		ortBot.sendRating(ctx, chatID, userID, lang)

	case strings.HasPrefix(data, "approve_"):
		ortBot.handleModeration(ctx, update, strings.TrimPrefix(data, "approve_"), true)

	case strings.HasPrefix(data, "reject_"):
		ortBot.handleModeration(ctx, update, strings.TrimPrefix(data, "reject_"), false)

	case strings.HasPrefix(data, "bc_"):
		ortBot.handleBroadcastCallback(ctx, update, chatID, data)
	}
}

func (ortBot *Bot) answerCallback(ctx context.Context, callbackID, text string) {
	_, err := ortBot.b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		ortBot.log.Warn("failed to answer callback", sl.Err(err))
	}
}

func (ortBot *Bot) rememberLang(ctx context.Context, userID int64, lang string) {
	if err := ortBot.repo.SetUserLang(ctx, userID, lang); err != nil {
		ortBot.log.Warn("failed to store language", sl.Err(err))
	}
}

// handleModeration approves or rejects a pending submission. Repeated taps on
// the same moderation message are harmless: once the submission is gone the
// admin just gets told it was already handled.
func (ortBot *Bot) handleModeration(ctx context.Context, update *models.Update, rawUserID string, approve bool) {
	cb := update.CallbackQuery
	if !ortBot.isAdmin(cb.From.ID) {
		return
	}

	subjectID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		ortBot.log.Warn("bad moderation callback data", sl.Err(err))
		return
	}

	var handled bool
	if approve {
		handled, err = ortBot.profiles.Approve(ctx, subjectID)
	} else {
		handled, err = ortBot.profiles.Reject(ctx, subjectID)
	}
	if err != nil {
		ortBot.log.Error("moderation failed", sl.Err(err))
		ortBot.answerCallback(ctx, cb.ID, "❌ Ошибка")
		return
	}
	if !handled {
		ortBot.answerCallback(ctx, cb.ID, "Заявка уже обработана")
		return
	}

	lang := ortBot.userLang(ctx, subjectID)
	key := localization.ProfileApprovedByAdmin
	if !approve {
		key = localization.ProfileRejectedByAdmin
	}
	if err := ortBot.sendReply(ctx, subjectID, ortBot.loc.Resolve(key, lang)); err != nil {
		ortBot.log.Warn("failed to notify user about moderation", sl.Err(err))
	}

	if cb.Message.Message != nil {
		verdict := "✅ Подтверждено"
		if !approve {
			verdict = "❌ Отклонено"
		}
		_, err := ortBot.b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    cb.Message.Message.Chat.ID,
			MessageID: cb.Message.Message.ID,
			Text:      cb.Message.Message.Text + "\n\n" + verdict,
		})
		if err != nil {
			ortBot.log.Warn("failed to update moderation message", sl.Err(err))
		}
	}
}
