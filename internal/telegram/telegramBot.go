package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"OrtPrepBot/internal/broadcast"
	"OrtPrepBot/internal/cache"
	"OrtPrepBot/internal/config"
	"OrtPrepBot/internal/localization"
	"OrtPrepBot/internal/models/domain"
	"OrtPrepBot/internal/profiles"
	"OrtPrepBot/internal/repositories"
	"OrtPrepBot/internal/utils/logger/sl"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Bot is the Telegram bot for OrtPrepBot.
type Bot struct {
	b        *bot.Bot
	cfg      *config.Config
	repo     *repositories.Repository
	profiles *profiles.Service
	bcast    *broadcast.Manager
	loc      *localization.Table
	groups   *cache.Cache[[]int64]
	sessions *sessionStore
	routes   map[string]routeFunc
	ctx      context.Context
	cancel   context.CancelFunc
	log      *slog.Logger
}

// New creates a new Bot instance.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	repo *repositories.Repository,
	profilesSvc *profiles.Service,
) *Bot {
	op := "telegram.New()"
	log := logger.With(slog.String("op", op))

	ctx, cancel := context.WithCancel(context.Background())

	ortBot := &Bot{
		cfg:      cfg,
		repo:     repo,
		profiles: profilesSvc,
		loc:      localization.New(),
		groups:   cache.New[[]int64](cfg.Broadcast.GroupsCacheTTL),
		sessions: newSessionStore(),
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}
	ortBot.routes = ortBot.buildRoutes()

	b, err := bot.New(cfg.BotConfig.TgbotApiToken,
		bot.WithDefaultHandler(ortBot.defaultHandler),
	)
	if err != nil {
		log.Error("error auth telegram bot", sl.Err(err))
		cancel()
		return nil
	}

	ortBot.b = b
	ortBot.bcast = broadcast.NewManager(
		logger,
		&sender{b: b},
		&sender{b: b},
		cfg.Broadcast.ChunkSize,
		cfg.Broadcast.InterChunkDelay,
	)

	log.Info("telegram bot created")
	return ortBot
}

// Sender exposes the per-chat delivery transport, used by the task scheduler.
func (ortBot *Bot) Sender() broadcast.Sender {
	return &sender{b: ortBot.b}
}

// defaultHandler is the single entry point for all updates from go-telegram/bot.
func (ortBot *Bot) defaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	op := "telegram.defaultHandler()"
	log := ortBot.log.With(slog.String("op", op))

	if update.Message != nil {
		log.Info("input message",
			slog.String("user_id", strconv.FormatInt(update.Message.From.ID, 10)),
			slog.String("user_name", update.Message.From.Username),
			slog.String("text", update.Message.Text),
		)
	}
	if update.CallbackQuery != nil {
		log.Info("input callback",
			slog.String("user_id", strconv.FormatInt(update.CallbackQuery.From.ID, 10)),
			slog.String("user_name", update.CallbackQuery.From.Username),
			slog.String("data", update.CallbackQuery.Data),
		)
	}

	switch {
	case update.Message != nil && isCommand(update.Message):
		if err := ortBot.commandHandler(ctx, update); err != nil {
			log.Error("command handler error", sl.Err(err))
		}
	case update.CallbackQuery != nil:
		ortBot.handleCallbackQuery(ctx, update)
	case update.InlineQuery != nil:
		ortBot.handleInlineQuery(ctx, update)
	case update.Message != nil:
		ortBot.handleMessage(ctx, update)
	}
}

// userLang returns the stored language preference of a user, defaulting to
// Russian for unknown users.
func (ortBot *Bot) userLang(ctx context.Context, userID int64) string {
	user, err := ortBot.repo.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			ortBot.log.Warn("failed to load user", sl.Err(err))
		}
		return domain.LangRU
	}
	return user.Lang
}

// isCommand reports whether msg is a bot command.
func isCommand(msg *models.Message) bool {
	if msg == nil || len(msg.Entities) == 0 {
		return false
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			return true
		}
	}
	return false
}

// commandText extracts /command from a message (without @botname suffix).
func commandText(msg *models.Message) string {
	if msg == nil || len(msg.Entities) == 0 {
		return ""
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			raw := []rune(msg.Text)[e.Offset : e.Offset+e.Length]
			cmd := string(raw)
			// strip leading slash
			if len(cmd) > 0 && cmd[0] == '/' {
				cmd = cmd[1:]
			}
			// strip @botname if present
			for i, c := range cmd {
				if c == '@' {
					cmd = cmd[:i]
					break
				}
			}
			return cmd
		}
	}
	return ""
}

// commandArguments returns the text that follows the first /command entity.
func commandArguments(msg *models.Message) string {
	if msg == nil || len(msg.Entities) == 0 {
		return ""
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			end := e.Offset + e.Length
			runes := []rune(msg.Text)
			if end >= len(runes) {
				return ""
			}
			// skip one space after command
			rest := string(runes[end:])
			if len(rest) > 0 && rest[0] == ' ' {
				rest = rest[1:]
			}
			return rest
		}
	}
	return ""
}

// Start begins polling for Telegram updates.
func (ortBot *Bot) Start(_ int) {
	ortBot.log.Info("starting telegram bot polling")
	ortBot.b.Start(ortBot.ctx)
	ortBot.log.Info("telegram bot polling stopped")
}

// sendReply sends a plain-text reply to the given chat.
func (ortBot *Bot) sendReply(ctx context.Context, chatID int64, text string) error {
	chunks := splitTextIntoChunks(text, 4096)
	for _, chunk := range chunks {
		p := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   chunk,
		}
		if _, err := ortBot.b.SendMessage(ctx, p); err != nil {
			return fmt.Errorf("sendReply: %w", err)
		}
	}
	return nil
}

// sendWithKeyboard sends a plain-text reply with an inline keyboard.
func (ortBot *Bot) sendWithKeyboard(
	ctx context.Context,
	chatID int64,
	text string,
	kb *models.InlineKeyboardMarkup,
) error {
	p := &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	}
	_, err := ortBot.b.SendMessage(ctx, p)
	return err
}

// inlineKeyboard builds an InlineKeyboardMarkup from rows of buttons.
func inlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// inlineRow builds a single row of inline keyboard buttons.
func inlineRow(btns ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return btns
}

// inlineBtn creates an inline keyboard button with callback data.
func inlineBtn(text, data string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: data}
}

// splitTextIntoChunks splits text into chunks of the specified size.
func splitTextIntoChunks(text string, chunkSize int) []string {
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += chunkSize {
		end := min(i+chunkSize, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Shutdown gracefully stops the bot.
func (ortBot *Bot) Shutdown(_ context.Context) error {
	ortBot.cancel()
	return nil
}
