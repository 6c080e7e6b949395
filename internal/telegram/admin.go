package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"OrtPrepBot/internal/broadcast"
	"OrtPrepBot/internal/utils/logger/sl"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// noPermissionText answers non-admins who invoke an admin trigger.
const noPermissionText = "У вас нет прав для выполнения этой команды."

// handleBroadcastStart opens the broadcast composition flow for admins.
func (ortBot *Bot) handleBroadcastStart(ctx context.Context, update *models.Update) {
	msg := update.Message
	if !ortBot.isAdmin(msg.From.ID) {
		if err := ortBot.sendReply(ctx, msg.Chat.ID, noPermissionText); err != nil {
			ortBot.log.Error("failed to send permission reply", sl.Err(err))
		}
		return
	}

	ortBot.sessions.set(msg.Chat.ID, awaitingBroadcastContent{})
	if err := ortBot.sendReply(ctx, msg.Chat.ID, "Отправьте сообщение для рассылки (текст или фото):"); err != nil {
		ortBot.log.Error("failed to prompt broadcast content", sl.Err(err))
	}
}

// handleBroadcastContentInput captures the message to be broadcast and asks
// where to send it.
func (ortBot *Bot) handleBroadcastContentInput(ctx context.Context, update *models.Update) {
	msg := update.Message
	chatID := msg.Chat.ID

	payload, ok := extractPayload(msg)
	if !ok {
		if err := ortBot.sendReply(ctx, chatID, "Поддерживаются только текст и фото. Отправьте сообщение еще раз:"); err != nil {
			ortBot.log.Error("failed to reprompt broadcast content", sl.Err(err))
		}
		return
	}

	ortBot.sessions.set(chatID, choosingBroadcastTarget{Payload: payload})
	kb := inlineKeyboard(
		inlineRow(inlineBtn("👥 Пользователям", "bc_target_users")),
		inlineRow(inlineBtn("📢 В группы", "bc_target_groups")),
		inlineRow(inlineBtn("❌ Отмена", "bc_cancel")),
	)
	if err := ortBot.sendWithKeyboard(ctx, chatID, "Куда отправить рассылку?", kb); err != nil {
		ortBot.log.Error("failed to send target keyboard", sl.Err(err))
	}
}

// handleBroadcastCallback advances the broadcast flow from inline keyboard
// presses. Each step checks that the stored conversation matches, so stale
// buttons from an expired flow do nothing.
func (ortBot *Bot) handleBroadcastCallback(ctx context.Context, update *models.Update, chatID int64, data string) {
	if !ortBot.isAdmin(update.CallbackQuery.From.ID) {
		return
	}

	conv, _ := ortBot.sessions.get(chatID)

	switch data {
	case "bc_cancel":
		ortBot.sessions.clear(chatID)
		if err := ortBot.sendReply(ctx, chatID, "Рассылка отменена"); err != nil {
			ortBot.log.Error("failed to confirm cancel", sl.Err(err))
		}

	case "bc_target_users":
		c, ok := conv.(choosingBroadcastTarget)
		if !ok {
			return
		}
		ortBot.askFinalConfirm(ctx, chatID, awaitingFinalConfirm{
			Payload:  c.Payload,
			ToGroups: false,
			Pin:      broadcast.PinNone,
		})

	case "bc_target_groups":
		c, ok := conv.(choosingBroadcastTarget)
		if !ok {
			return
		}
		ortBot.sessions.set(chatID, choosingPinOption{Payload: c.Payload})
		kb := inlineKeyboard(
			inlineRow(inlineBtn("📌 Закрепить", "bc_pin_loud")),
			inlineRow(inlineBtn("🔕 Закрепить без звука", "bc_pin_silent")),
			inlineRow(inlineBtn("Без закрепления", "bc_pin_none")),
			inlineRow(inlineBtn("❌ Отмена", "bc_cancel")),
		)
		if err := ortBot.sendWithKeyboard(ctx, chatID, "Закрепить сообщение в группах?", kb); err != nil {
			ortBot.log.Error("failed to send pin keyboard", sl.Err(err))
		}

	case "bc_pin_none", "bc_pin_loud", "bc_pin_silent":
		c, ok := conv.(choosingPinOption)
		if !ok {
			return
		}
		pin := broadcast.PinNone
		switch data {
		case "bc_pin_loud":
			pin = broadcast.PinLoud
		case "bc_pin_silent":
			pin = broadcast.PinSilent
		}
		ortBot.askFinalConfirm(ctx, chatID, awaitingFinalConfirm{
			Payload:  c.Payload,
			ToGroups: true,
			Pin:      pin,
		})

	case "bc_confirm":
		c, ok := conv.(awaitingFinalConfirm)
		if !ok {
			return
		}
		ortBot.sessions.clear(chatID)
		ortBot.execBroadcast(ctx, chatID, c)
	}
}

func (ortBot *Bot) askFinalConfirm(ctx context.Context, chatID int64, c awaitingFinalConfirm) {
	ortBot.sessions.set(chatID, c)

	target := "всем пользователям"
	if c.ToGroups {
		target = "в группы"
	}
	kb := inlineKeyboard(inlineRow(
		inlineBtn("✅ Отправить", "bc_confirm"),
		inlineBtn("❌ Отмена", "bc_cancel"),
	))
	if err := ortBot.sendWithKeyboard(ctx, chatID, "Отправить рассылку "+target+"?", kb); err != nil {
		ortBot.log.Error("failed to send confirm keyboard", sl.Err(err))
	}
}

// execBroadcast resolves the recipient list and runs the delivery, editing a
// single status message as chunks complete.
func (ortBot *Bot) execBroadcast(ctx context.Context, chatID int64, c awaitingFinalConfirm) {
	op := "telegram.execBroadcast()"
	log := ortBot.log.With(slog.String("op", op))

	var recipients []int64
	var err error
	if c.ToGroups {
		recipients, err = ortBot.broadcastGroups(ctx)
		if err != nil {
			log.Error("failed to load groups", sl.Err(err))
			ortBot.replyAdminError(ctx, chatID, "Ошибка загрузки групп")
			return
		}
	} else {
		recipients, err = ortBot.repo.ListUserIDs(ctx)
		if err != nil {
			log.Error("failed to load users", sl.Err(err))
			ortBot.replyAdminError(ctx, chatID, "Ошибка загрузки пользователей")
			return
		}
	}
	if len(recipients) == 0 {
		ortBot.replyAdminError(ctx, chatID, "Список получателей пуст")
		return
	}

	statusMsg, err := ortBot.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("📤 Рассылка запущена, получателей: %d", len(recipients)),
	})
	if err != nil {
		log.Error("failed to send status message", sl.Err(err))
	}

	onProgress := func(st broadcast.Status) {
		if statusMsg == nil {
			return
		}
		_, err := ortBot.b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: statusMsg.ID,
			Text: fmt.Sprintf("📤 Отправлено: %d, ошибок: %d из %d",
				st.Sent, st.Failed, st.Total),
		})
		if err != nil {
			log.Warn("failed to update status message", sl.Err(err))
		}
	}

	var status broadcast.Status
	if c.ToGroups {
		status, err = ortBot.bcast.BroadcastGroups(ctx, c.Payload, recipients, c.Pin, onProgress)
	} else {
		status, err = ortBot.bcast.Broadcast(ctx, c.Payload, recipients, onProgress)
	}
	if err != nil {
		log.Error("broadcast aborted", sl.Err(err))
	}

	duration := status.FinishedAt.Sub(status.StartedAt).Round(time.Second)
	summary := fmt.Sprintf(
		"✅ Рассылка завершена за %s\nОтправлено: %d\nОшибок: %d\nВсего: %d",
		duration, status.Sent, status.Failed, status.Total)
	if err := ortBot.sendReply(ctx, chatID, summary); err != nil {
		log.Error("failed to send summary", sl.Err(err))
	}
}

// broadcastGroups returns the registered group chat IDs, served from the TTL
// cache when fresh.
func (ortBot *Bot) broadcastGroups(ctx context.Context) ([]int64, error) {
	if groups, ok := ortBot.groups.Get(); ok {
		return groups, nil
	}
	groups, err := ortBot.repo.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	ortBot.groups.Set(groups)
	return groups, nil
}

func (ortBot *Bot) replyAdminError(ctx context.Context, chatID int64, text string) {
	if err := ortBot.sendReply(ctx, chatID, "❌ "+text); err != nil {
		ortBot.log.Error("failed to send admin error", sl.Err(err))
	}
}

// handlePendingList re-sends every submission awaiting moderation, each with
// its approve/reject keyboard. Lets an admin catch up on missed notifications.
func (ortBot *Bot) handlePendingList(ctx context.Context, update *models.Update) {
	msg := update.Message
	if !ortBot.isAdmin(msg.From.ID) {
		if err := ortBot.sendReply(ctx, msg.Chat.ID, noPermissionText); err != nil {
			ortBot.log.Error("failed to send permission reply", sl.Err(err))
		}
		return
	}

	pending, err := ortBot.profiles.PendingList(ctx)
	if err != nil {
		ortBot.log.Error("failed to list pending profiles", sl.Err(err))
		ortBot.replyAdminError(ctx, msg.Chat.ID, "Ошибка загрузки заявок")
		return
	}
	if len(pending) == 0 {
		if err := ortBot.sendReply(ctx, msg.Chat.ID, "Новых заявок нет"); err != nil {
			ortBot.log.Error("failed to send empty pending list", sl.Err(err))
		}
		return
	}

	for _, p := range pending {
		userID := strconv.FormatInt(p.UserID, 10)
		text := fmt.Sprintf("📝 Заявка:\n👤 ФИО: %s\n📊 Балл ОРТ: %d", p.FullName, p.Score)
		kb := inlineKeyboard(inlineRow(
			inlineBtn("✅ Подтвердить", "approve_"+userID),
			inlineBtn("❌ Отклонить", "reject_"+userID),
		))
		if err := ortBot.sendWithKeyboard(ctx, msg.Chat.ID, text, kb); err != nil {
			ortBot.log.Error("failed to send pending entry", sl.Err(err))
		}
	}
}

// handleAddAdmin grants admin rights. With no argument it asks for the ID.
func (ortBot *Bot) handleAddAdmin(ctx context.Context, update *models.Update, args string) error {
	msg := update.Message
	if !ortBot.isOwner(msg.From.ID) {
		return nil
	}

	if strings.TrimSpace(args) == "" {
		ortBot.sessions.set(msg.Chat.ID, awaitingAdminID{Remove: false})
		return ortBot.sendReply(ctx, msg.Chat.ID, "Введите ID нового админа:")
	}

	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return ortBot.sendReply(ctx, msg.Chat.ID, "❌ Неверный ID")
	}
	return ortBot.addAdmin(ctx, msg.Chat.ID, id)
}

// handleRemoveAdmin revokes admin rights. With no argument it asks for the ID.
func (ortBot *Bot) handleRemoveAdmin(ctx context.Context, update *models.Update, args string) error {
	msg := update.Message
	if !ortBot.isOwner(msg.From.ID) {
		return nil
	}

	if strings.TrimSpace(args) == "" {
		ortBot.sessions.set(msg.Chat.ID, awaitingAdminID{Remove: true})
		return ortBot.sendReply(ctx, msg.Chat.ID, "Введите ID админа для удаления:")
	}

	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return ortBot.sendReply(ctx, msg.Chat.ID, "❌ Неверный ID")
	}
	return ortBot.removeAdmin(ctx, msg.Chat.ID, id)
}

// handleListAdmins prints the current admin list to the owner.
func (ortBot *Bot) handleListAdmins(ctx context.Context, update *models.Update) error {
	msg := update.Message
	if !ortBot.isOwner(msg.From.ID) {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("👮 Админы:\n")
	sb.WriteString(fmt.Sprintf("%d (владелец)\n", ortBot.cfg.BotConfig.OwnerID))
	for _, id := range ortBot.cfg.BotConfig.Admins {
		sb.WriteString(fmt.Sprintf("%d\n", id))
	}
	return ortBot.sendReply(ctx, msg.Chat.ID, sb.String())
}

// handleAdminIDInput finishes the interactive add/remove admin flow.
func (ortBot *Bot) handleAdminIDInput(ctx context.Context, update *models.Update, c awaitingAdminID) {
	msg := update.Message
	chatID := msg.Chat.ID
	ortBot.sessions.clear(chatID)

	id, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil {
		ortBot.replyAdminError(ctx, chatID, "Неверный ID")
		return
	}

	if c.Remove {
		err = ortBot.removeAdmin(ctx, chatID, id)
	} else {
		err = ortBot.addAdmin(ctx, chatID, id)
	}
	if err != nil {
		ortBot.log.Error("admin management failed", sl.Err(err))
	}
}

func (ortBot *Bot) addAdmin(ctx context.Context, chatID, id int64) error {
	for _, existing := range ortBot.cfg.BotConfig.Admins {
		if existing == id {
			return ortBot.sendReply(ctx, chatID, "Этот пользователь уже админ")
		}
	}

	ortBot.cfg.BotConfig.Admins = append(ortBot.cfg.BotConfig.Admins, id)
	if err := ortBot.cfg.Write(); err != nil {
		ortBot.log.Error("failed to persist config", sl.Err(err))
		ortBot.replyAdminError(ctx, chatID, "Не удалось сохранить конфигурацию")
		return err
	}
	return ortBot.sendReply(ctx, chatID, fmt.Sprintf("✅ Админ %d добавлен", id))
}

func (ortBot *Bot) removeAdmin(ctx context.Context, chatID, id int64) error {
	admins := ortBot.cfg.BotConfig.Admins
	found := false
	filtered := admins[:0]
	for _, existing := range admins {
		if existing == id {
			found = true
			continue
		}
		filtered = append(filtered, existing)
	}
	if !found {
		return ortBot.sendReply(ctx, chatID, "Такого админа нет")
	}

	ortBot.cfg.BotConfig.Admins = filtered
	if err := ortBot.cfg.Write(); err != nil {
		ortBot.log.Error("failed to persist config", sl.Err(err))
		ortBot.replyAdminError(ctx, chatID, "Не удалось сохранить конфигурацию")
		return err
	}
	return ortBot.sendReply(ctx, chatID, fmt.Sprintf("✅ Админ %d удален", id))
}
