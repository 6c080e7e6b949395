package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"OrtPrepBot/internal/broadcast"
	"OrtPrepBot/internal/localization"
	"OrtPrepBot/internal/models/domain"
	"OrtPrepBot/internal/ortcalc"
	"OrtPrepBot/internal/repositories"
	"OrtPrepBot/internal/utils/logger/sl"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type routeFunc func(ctx context.Context, update *models.Update)

// buildRoutes maps normalized message text to handlers. Trigger phrases come
// in Russian and Kyrgyz pairs; registering the same phrase twice is a
// programming error and panics at startup.
func (ortBot *Bot) buildRoutes() map[string]routeFunc {
	routes := make(map[string]routeFunc)
	addRoute := func(trigger string, h routeFunc) {
		if _, ok := routes[trigger]; ok {
			panic("duplicate route trigger: " + trigger)
		}
		routes[trigger] = h
	}

	addRoute("подсчет баллов орт", ortBot.handleCalcStart)
	addRoute("жрт баллдарын эсептөө", ortBot.handleCalcStart)
	addRoute("профиль", ortBot.handleProfile)
	addRoute("профилим", ortBot.handleProfile)
	addRoute("рейтинг", ortBot.handleRating)
	addRoute("обновить профиль", ortBot.handleUpdateProfile)
	addRoute("профилди жаңыртуу", ortBot.handleUpdateProfile)
	addRoute("рассылка", ortBot.handleBroadcastStart)
	addRoute("анонс", ortBot.handleBroadcastStart)
	addRoute("сезам откройся", ortBot.handleGroupRegister)
	addRoute("статистика", ortBot.handleStats)
	addRoute("заявки", ortBot.handlePendingList)

	return routes
}

// commandHandler dispatches /commands.
func (ortBot *Bot) commandHandler(ctx context.Context, update *models.Update) error {
	op := "telegram.commandHandler()"
	msg := update.Message
	chatID := msg.Chat.ID

	switch commandText(msg) {
	case "start":
		if err := ortBot.repo.EnsureUser(ctx, msg.From.ID); err != nil {
			ortBot.log.Error("failed to register user", sl.Err(err))
		}
		lang := ortBot.userLang(ctx, msg.From.ID)
		greeting := fmt.Sprintf(ortBot.loc.Resolve(localization.Greeting, lang), msg.From.FirstName)
		return ortBot.sendMenu(ctx, chatID, greeting, lang)
	case "help":
		lang := ortBot.userLang(ctx, msg.From.ID)
		return ortBot.sendMenu(ctx, chatID, ortBot.loc.Resolve(localization.Menu, lang), lang)
	case "addadmin":
		return ortBot.handleAddAdmin(ctx, update, commandArguments(msg))
	case "removeadmin":
		return ortBot.handleRemoveAdmin(ctx, update, commandArguments(msg))
	case "admins":
		return ortBot.handleListAdmins(ctx, update)
	default:
		return fmt.Errorf("%s: unknown command %q", op, commandText(msg))
	}
}

// sendMenu sends text together with the persistent main-menu keyboard.
func (ortBot *Bot) sendMenu(ctx context.Context, chatID int64, text, lang string) error {
	calcRow := "Подсчет баллов ОРТ"
	if lang == domain.LangKG {
		calcRow = "ЖРТ баллдарын эсептөө"
	}
	profileRow := "Профиль"
	if lang == domain.LangKG {
		profileRow = "Профилим"
	}

	kb := &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: calcRow}},
			{{Text: profileRow}, {Text: ortBot.loc.Resolve(localization.Rating, lang)}},
		},
		ResizeKeyboard: true,
	}
	_, err := ortBot.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		return fmt.Errorf("sendMenu: %w", err)
	}
	return nil
}

// handleMessage routes plain-text messages: the menu phrase always resets the
// conversation, an active conversation consumes the message next, and trigger
// phrases apply last.
func (ortBot *Bot) handleMessage(ctx context.Context, update *models.Update) {
	msg := update.Message
	chatID := msg.Chat.ID
	text := strings.ToLower(strings.TrimSpace(msg.Text))

	if text == "главное меню" || text == "башкы меню" {
		ortBot.sessions.clear(chatID)
		lang := ortBot.userLang(ctx, msg.From.ID)
		if err := ortBot.sendMenu(ctx, chatID, ortBot.loc.Resolve(localization.Menu, lang), lang); err != nil {
			ortBot.log.Error("failed to send menu", sl.Err(err))
		}
		return
	}

	if conv, ok := ortBot.sessions.get(chatID); ok {
		ortBot.handleSessionInput(ctx, update, conv)
		return
	}

	if h, ok := ortBot.routes[text]; ok {
		h(ctx, update)
	}
}

// handleSessionInput advances the active conversation with the user's message.
func (ortBot *Bot) handleSessionInput(ctx context.Context, update *models.Update, conv Conversation) {
	msg := update.Message
	chatID := msg.Chat.ID

	switch c := conv.(type) {
	case awaitingPercentageScores:
		ortBot.handlePercentagesInput(ctx, chatID, msg.Text, c.Lang)
	case awaitingCorrectAnswers:
		ortBot.handleCorrectAnswersInput(ctx, chatID, msg.Text, c.Lang)
	case awaitingProfileName:
		ortBot.handleProfileNameInput(ctx, chatID, msg.Text, c.Lang)
	case awaitingProfileScore:
		ortBot.handleProfileScoreInput(ctx, update, c)
	case awaitingBroadcastContent:
		ortBot.handleBroadcastContentInput(ctx, update)
	case awaitingAdminID:
		ortBot.handleAdminIDInput(ctx, update, c)
	default:
		// Steps driven by inline keyboards ignore free text.
	}
}

// handleCalcStart opens the score-calculation flow with a method choice.
func (ortBot *Bot) handleCalcStart(ctx context.Context, update *models.Update) {
	chatID := update.Message.Chat.ID
	lang := ortBot.userLang(ctx, update.Message.From.ID)
	if strings.Contains(strings.ToLower(update.Message.Text), "жрт") {
		lang = domain.LangKG
	}

	suffix := ""
	if lang == domain.LangKG {
		suffix = "_kg"
	}
	kb := inlineKeyboard(
		inlineRow(inlineBtn(ortBot.loc.Resolve(localization.MethodPercentage, lang), "method_percentage"+suffix)),
		inlineRow(inlineBtn(ortBot.loc.Resolve(localization.MethodCorrectAnswers, lang), "method_correct_answers"+suffix)),
	)
	if err := ortBot.sendWithKeyboard(ctx, chatID, ortBot.loc.Resolve(localization.ChooseMethod, lang), kb); err != nil {
		ortBot.log.Error("failed to send method keyboard", sl.Err(err))
	}
}

func (ortBot *Bot) handlePercentagesInput(ctx context.Context, chatID int64, text, lang string) {
	values, err := ortcalc.ParseScores(text)
	if err != nil {
		ortBot.replyCalcError(ctx, chatID, err, lang)
		return
	}
	result, err := ortcalc.CalculatePercentage(values)
	if err != nil {
		ortBot.replyCalcError(ctx, chatID, err, lang)
		return
	}

	ortBot.sessions.clear(chatID)
	reply := fmt.Sprintf(ortBot.loc.Resolve(localization.ResultPercentage, lang),
		result.Total, result.Math, result.Reading, result.Grammar)
	if err := ortBot.sendReply(ctx, chatID, reply); err != nil {
		ortBot.log.Error("failed to send calc result", sl.Err(err))
	}
}

func (ortBot *Bot) handleCorrectAnswersInput(ctx context.Context, chatID int64, text, lang string) {
	counts, err := ortcalc.ParseCounts(text)
	if err != nil {
		ortBot.replyCalcError(ctx, chatID, err, lang)
		return
	}
	result, err := ortcalc.CalculateCorrectAnswers(counts)
	if err != nil {
		ortBot.replyCalcError(ctx, chatID, err, lang)
		return
	}

	ortBot.sessions.clear(chatID)
	reply := fmt.Sprintf(ortBot.loc.Resolve(localization.ResultCorrect, lang),
		result.Total, result.Math, result.Reading, result.Grammar)
	if err := ortBot.sendReply(ctx, chatID, reply); err != nil {
		ortBot.log.Error("failed to send calc result", sl.Err(err))
	}
}

// replyCalcError translates calculator validation errors into user-facing
// prompts. The conversation stays open so the user can retry.
func (ortBot *Bot) replyCalcError(ctx context.Context, chatID int64, err error, lang string) {
	var vErr *ortcalc.ValidationError
	key := localization.NeedThreeNumbers
	if errors.As(err, &vErr) && vErr.Kind == ortcalc.OutOfRange {
		if conv, ok := ortBot.sessions.get(chatID); ok {
			if _, isCounts := conv.(awaitingCorrectAnswers); isCounts {
				key = localization.CountOutOfRange
			} else {
				key = localization.PercentOutOfRange
			}
		}
	}
	if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(key, lang)); err != nil {
		ortBot.log.Error("failed to send calc error", sl.Err(err))
	}
}

// handleProfile shows the user's profile with rank, or offers to create one.
func (ortBot *Bot) handleProfile(ctx context.Context, update *models.Update) {
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	lang := ortBot.userLang(ctx, userID)

	profile, err := ortBot.profiles.Get(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		kb := inlineKeyboard(inlineRow(
			inlineBtn(ortBot.loc.Resolve(localization.Yes, lang), "create_profile"),
			inlineBtn(ortBot.loc.Resolve(localization.No, lang), "cancel_profile"),
		))
		if err := ortBot.sendWithKeyboard(ctx, chatID, ortBot.loc.Resolve(localization.ProfileNotFound, lang), kb); err != nil {
			ortBot.log.Error("failed to send profile prompt", sl.Err(err))
		}
		return
	}
	if err != nil {
		ortBot.log.Error("failed to load profile", sl.Err(err))
		ortBot.replyError(ctx, chatID, lang)
		return
	}

	rank, total, err := ortBot.profiles.Rank(ctx, userID)
	if err != nil {
		ortBot.log.Error("failed to compute rank", sl.Err(err))
		ortBot.replyError(ctx, chatID, lang)
		return
	}
	rankStr := "—"
	if rank > 0 {
		rankStr = strconv.Itoa(rank)
	}

	text := fmt.Sprintf(ortBot.loc.Resolve(localization.ProfileTemplate, lang),
		profile.FullName, profile.Score, rankStr, total)
	kb := inlineKeyboard(inlineRow(
		inlineBtn(ortBot.loc.Resolve(localization.UpdateProfile, lang), "update_profile"),
		inlineBtn(ortBot.loc.Resolve(localization.Rating, lang), "show_rating"),
	))
	if err := ortBot.sendWithKeyboard(ctx, chatID, text, kb); err != nil {
		ortBot.log.Error("failed to send profile", sl.Err(err))
	}
}

// handleRating prints the leaderboard: top ten plus the requesting user's own
// line when they rank below the cut.
func (ortBot *Bot) handleRating(ctx context.Context, update *models.Update) {
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	lang := ortBot.userLang(ctx, userID)
	ortBot.sendRating(ctx, chatID, userID, lang)
}

const ratingTopSize = 10

func (ortBot *Bot) sendRating(ctx context.Context, chatID, userID int64, lang string) {
	ranked, err := ortBot.profiles.Rankings(ctx)
	if err != nil {
		ortBot.log.Error("failed to load rankings", sl.Err(err))
		ortBot.replyError(ctx, chatID, lang)
		return
	}

	var sb strings.Builder
	sb.WriteString(ortBot.loc.Resolve(localization.RankingsHeader, lang))
	sb.WriteString("\n\n")
	for _, r := range ranked {
		if r.Position > ratingTopSize {
			break
		}
		sb.WriteString(fmt.Sprintf(ortBot.loc.Resolve(localization.RankingLine, lang),
			r.Position, r.Profile.FullName, r.Profile.Score))
	}
	for _, r := range ranked {
		if r.Profile.UserID == userID && r.Position > ratingTopSize {
			sb.WriteString(fmt.Sprintf(ortBot.loc.Resolve(localization.UserRankingLine, lang),
				r.Position, r.Profile.FullName, r.Profile.Score))
		}
	}
	sb.WriteString(fmt.Sprintf(ortBot.loc.Resolve(localization.TotalParticipants, lang), len(ranked)))

	if err := ortBot.sendReply(ctx, chatID, sb.String()); err != nil {
		ortBot.log.Error("failed to send rankings", sl.Err(err))
	}
}

// handleUpdateProfile starts the profile creation flow over again.
func (ortBot *Bot) handleUpdateProfile(ctx context.Context, update *models.Update) {
	chatID := update.Message.Chat.ID
	lang := ortBot.userLang(ctx, update.Message.From.ID)
	ortBot.startProfileCreation(ctx, chatID, lang)
}

func (ortBot *Bot) startProfileCreation(ctx context.Context, chatID int64, lang string) {
	ortBot.sessions.set(chatID, awaitingProfileName{Lang: lang})
	if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(localization.EnterFullName, lang)); err != nil {
		ortBot.log.Error("failed to prompt full name", sl.Err(err))
	}
}

func (ortBot *Bot) handleProfileNameInput(ctx context.Context, chatID int64, text, lang string) {
	fullName := strings.TrimSpace(text)
	if fullName == "" {
		if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(localization.EnterFullName, lang)); err != nil {
			ortBot.log.Error("failed to reprompt full name", sl.Err(err))
		}
		return
	}
	ortBot.sessions.set(chatID, awaitingProfileScore{Lang: lang, FullName: fullName})
	if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(localization.EnterScore, lang)); err != nil {
		ortBot.log.Error("failed to prompt score", sl.Err(err))
	}
}

func (ortBot *Bot) handleProfileScoreInput(ctx context.Context, update *models.Update, c awaitingProfileScore) {
	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	score, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil || score < 0 || score > domain.MaxScore {
		if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(localization.InvalidScore, c.Lang)); err != nil {
			ortBot.log.Error("failed to send score error", sl.Err(err))
		}
		return
	}

	if err := ortBot.profiles.SubmitPending(ctx, userID, c.FullName, score); err != nil {
		ortBot.log.Error("failed to submit profile", sl.Err(err))
		ortBot.replyError(ctx, chatID, c.Lang)
		return
	}
	ortBot.sessions.clear(chatID)

	if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(localization.ProfileSubmitted, c.Lang)); err != nil {
		ortBot.log.Error("failed to confirm submission", sl.Err(err))
	}

	ortBot.notifyAdminsOfPending(ctx, msg.From, c.FullName, score)
}

// notifyAdminsOfPending forwards a new submission to every admin with
// moderation buttons.
func (ortBot *Bot) notifyAdminsOfPending(ctx context.Context, from *models.User, fullName string, score int) {
	userRef := from.FirstName
	if from.Username != "" {
		userRef = "@" + from.Username
	}
	text := fmt.Sprintf(ortBot.loc.Resolve(localization.NewProfileAdmin, domain.LangRU),
		userRef, fullName, score)
	userID := strconv.FormatInt(from.ID, 10)
	kb := inlineKeyboard(inlineRow(
		inlineBtn(ortBot.loc.Resolve(localization.Approve, domain.LangRU), "approve_"+userID),
		inlineBtn(ortBot.loc.Resolve(localization.Reject, domain.LangRU), "reject_"+userID),
	))

	admins := append([]int64{ortBot.cfg.BotConfig.OwnerID}, ortBot.cfg.BotConfig.Admins...)
	for _, adminID := range admins {
		if err := ortBot.sendWithKeyboard(ctx, adminID, text, kb); err != nil {
			ortBot.log.Warn("failed to notify admin",
				sl.Err(err),
			)
		}
	}
}

// handleGroupRegister registers the current group chat as a broadcast target.
func (ortBot *Bot) handleGroupRegister(ctx context.Context, update *models.Update) {
	msg := update.Message
	if msg.Chat.Type != "group" && msg.Chat.Type != "supergroup" {
		return
	}
	if !ortBot.isAdmin(msg.From.ID) {
		return
	}

	added, err := ortBot.repo.AddGroup(ctx, msg.Chat.ID)
	if err != nil {
		ortBot.log.Error("failed to register group", sl.Err(err))
		return
	}
	if added {
		ortBot.groups.Clear()
	}
	if err := ortBot.sendReply(ctx, msg.Chat.ID, groupRegisterReply(added)); err != nil {
		ortBot.log.Error("failed to confirm group registration", sl.Err(err))
	}
}

// groupRegisterReply answers both the first and any repeated registration of
// the same group.
func groupRegisterReply(added bool) string {
	if added {
		return "✅ Группа добавлена в список рассылки"
	}
	return "Группа уже добавлена."
}

// handleStats prints user and group counts to the owner.
func (ortBot *Bot) handleStats(ctx context.Context, update *models.Update) {
	msg := update.Message
	if !ortBot.isOwner(msg.From.ID) {
		return
	}

	users, err := ortBot.repo.CountUsers(ctx)
	if err != nil {
		ortBot.log.Error("failed to count users", sl.Err(err))
		return
	}
	groups, err := ortBot.repo.ListGroups(ctx)
	if err != nil {
		ortBot.log.Error("failed to list groups", sl.Err(err))
		return
	}

	text := fmt.Sprintf("📊 Статистика:\n👤 Пользователей: %d\n📢 Групп: %d", users, len(groups))
	if err := ortBot.sendReply(ctx, msg.Chat.ID, text); err != nil {
		ortBot.log.Error("failed to send stats", sl.Err(err))
	}
}

func (ortBot *Bot) replyError(ctx context.Context, chatID int64, lang string) {
	if err := ortBot.sendReply(ctx, chatID, ortBot.loc.Resolve(localization.ErrorOccurred, lang)); err != nil {
		ortBot.log.Error("failed to send error reply", sl.Err(err))
	}
}

// extractPayload converts a message into a broadcast payload. The second
// return value reports whether the message carried broadcastable content.
func extractPayload(msg *models.Message) (broadcast.Payload, bool) {
	if msg == nil {
		return broadcast.Payload{}, false
	}
	if len(msg.Photo) > 0 {
		// The last photo size is the largest.
		return broadcast.Payload{
			Kind:    broadcast.PayloadPhoto,
			PhotoID: msg.Photo[len(msg.Photo)-1].FileID,
			Caption: msg.Caption,
		}, true
	}
	if strings.TrimSpace(msg.Text) != "" {
		return broadcast.Payload{
			Kind: broadcast.PayloadText,
			Text: msg.Text,
		}, true
	}
	return broadcast.Payload{}, false
}
