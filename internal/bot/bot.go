package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/SL-MGx03/userbase/internal/auth"
	"github.com/SL-MGx03/userbase/internal/config"
	"github.com/SL-MGx03/userbase/internal/model"
	"github.com/SL-MGx03/userbase/internal/report"
	"github.com/SL-MGx03/userbase/internal/store"
)

const (
	cbConfirmData = "track:confirm"

	idListFileName     = "telegram_user_ids.txt"
	fullReportFileName = "full_user_report.txt"

	welcomeText      = "👋 Welcome! You have been added to the database."
	confirmedText    = "✅ Registration confirmed."
	accessDeniedText = "❌ Access denied. This command is for administrators only."
	noUsersText      = "No users found in the database yet."
	reportFailedText = "An error occurred while generating the report."
	upsertFailedText = "Something went wrong saving your profile."
	btnConfirm       = "✅ Confirm registration"
	btnOpenWebApp    = "🚀 Open Web App"
)

const storageTimeout = 10 * time.Second

// Bot routes Telegram updates into the user registry and report exports.
type Bot struct {
	api    *tgbotapi.BotAPI
	store  store.Store
	admins auth.AdminSet
	cfg    *config.Config
	log    *zap.Logger
}

func New(token string, st store.Store, admins auth.AdminSet, cfg *config.Config, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:    api,
		store:  st,
		admins: admins,
		cfg:    cfg,
		log:    log,
	}, nil
}

// Start begins polling updates until ctx is cancelled. Each update is
// handled in its own goroutine so a slow storage round trip never blocks
// other conversations.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		update := update
		switch {
		case update.CallbackQuery != nil:
			go func() {
				if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
					b.log.Error("handle callback", zap.Error(err))
				}
			}()
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			go func() {
				if err := b.handleMessage(ctx, update.Message); err != nil {
					b.log.Error("handle message", zap.Error(err))
				}
			}()
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		b.log.Info("command",
			zap.Int64("from", msg.From.ID),
			zap.String("command", msg.Command()),
		)
		return b.handleCommand(ctx, msg)
	}

	// Every plain text message counts as an observation of the sender.
	return b.trackUser(ctx, msg.From, msg.Chat.ID)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "ping":
		return b.handlePing(ctx, msg)
	case "id":
		return b.handleIDReport(ctx, msg)
	case "full":
		return b.handleFullReport(ctx, msg)
	default:
		return b.trackUser(ctx, msg.From, msg.Chat.ID)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if err := b.trackUser(ctx, msg.From, msg.Chat.ID); err != nil {
		return err
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
	reply.ReplyMarkup = b.startKeyboard()
	_, err := b.api.Send(reply)
	return err
}

// handlePing reports round-trip latency to Telegram and to storage. A
// failed leg reads "failed" instead of a duration; the other leg still
// reports.
func (b *Bot) handlePing(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.admins.Contains(msg.From.ID) {
		return b.sendText(msg.Chat.ID, accessDeniedText)
	}

	tgStart := time.Now()
	_, tgErr := b.api.GetMe()
	tgLatency := time.Since(tgStart)

	storeCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	dbStart := time.Now()
	dbErr := b.store.Ping(storeCtx)
	dbLatency := time.Since(dbStart)

	if tgErr != nil {
		b.log.Warn("telegram ping failed", zap.Error(tgErr))
	}
	if dbErr != nil {
		b.log.Warn("storage ping failed", zap.Error(dbErr))
	}

	text := fmt.Sprintf("🏓 Pong!\nTelegram: %s\nStorage: %s",
		formatLatency(tgLatency, tgErr),
		formatLatency(dbLatency, dbErr),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleIDReport(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.admins.Contains(msg.From.ID) {
		return b.sendText(msg.Chat.ID, accessDeniedText)
	}

	users, err := b.listUsers(ctx)
	if err != nil {
		b.log.Error("id report scan", zap.Error(err))
		return b.sendText(msg.Chat.ID, reportFailedText)
	}

	text, err := report.IDList(users)
	if err != nil {
		return b.sendText(msg.Chat.ID, noUsersText)
	}

	return b.sendDocument(msg.Chat.ID, idListFileName, text, "")
}

func (b *Bot) handleFullReport(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.admins.Contains(msg.From.ID) {
		return b.sendText(msg.Chat.ID, accessDeniedText)
	}

	users, err := b.listUsers(ctx)
	if err != nil {
		b.log.Error("full report scan", zap.Error(err))
		return b.sendText(msg.Chat.ID, reportFailedText)
	}

	text, count, err := report.Full(users)
	if err != nil {
		return b.sendText(msg.Chat.ID, noUsersText)
	}

	caption := fmt.Sprintf("%d users", count)
	return b.sendDocument(msg.Chat.ID, fullReportFileName, text, caption)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil {
		return nil
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("callback ack", zap.Error(err))
	}

	if cb.Data != cbConfirmData || cb.Message == nil {
		return nil
	}

	b.log.Info("registration confirmed", zap.Int64("from", cb.From.ID))
	if err := b.trackUser(ctx, cb.From, cb.Message.Chat.ID); err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, confirmedText)
	_, err := b.api.Send(edit)
	return err
}

// trackUser persists an identity observation. Storage failures never
// propagate past here: they are logged, and depending on the configured
// policy the user either sees nothing or a generic failure notice.
func (b *Bot) trackUser(ctx context.Context, from *tgbotapi.User, chatID int64) error {
	if from == nil {
		return nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if err := b.store.UpsertUser(storeCtx, observationFrom(from)); err != nil {
		b.log.Error("track user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		if b.cfg.UpsertErrorPolicy == config.PolicyReply && chatID != 0 {
			return b.sendText(chatID, upsertFailedText)
		}
	}
	return nil
}

func (b *Bot) listUsers(ctx context.Context) ([]model.User, error) {
	storeCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	return b.store.ListUsers(storeCtx)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendDocument(chatID int64, name, content, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: []byte(content),
	})
	doc.Caption = caption
	_, err := b.api.Send(doc)
	return err
}

func (b *Bot) startKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnConfirm, cbConfirmData),
		),
	}
	if b.cfg.WebAppURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btnOpenWebApp, b.cfg.WebAppURL),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func observationFrom(from *tgbotapi.User) store.Observation {
	return store.Observation{
		TelegramID: from.ID,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
		Username:   from.UserName,
		IsBot:      from.IsBot,
	}
}

func formatLatency(d time.Duration, err error) string {
	if err != nil {
		return "failed"
	}
	return d.Round(time.Millisecond).String()
}
