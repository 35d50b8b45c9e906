package workers

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"coin-economy-system/models"
	"coin-economy-system/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotWorker runs the Telegram bot: /start provisioning with referral codes,
// balance lookups and withdrawal notifications. The WebApp itself talks to
// the HTTP API; the bot is the front door.
type BotWorker struct {
	bot       *tgbotapi.BotAPI
	users     *services.UserService
	referrals *services.ReferralService
	taps      *services.TapService
	webAppURL string
}

// NewBotWorker returns nil, nil when TELEGRAM_BOT_TOKEN is unset so the API
// can run without a bot in local development.
func NewBotWorker(users *services.UserService, referrals *services.ReferralService, taps *services.TapService) (*BotWorker, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("⚠️  TELEGRAM_BOT_TOKEN not set, bot worker disabled")
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot initialization error: %w", err)
	}
	bot.Debug = false
	log.Printf("✅ Bot authorized as @%s", bot.Self.UserName)

	webAppURL := os.Getenv("WEBAPP_URL")
	if webAppURL == "" {
		webAppURL = "http://localhost:3000"
		log.Println("⚠️  WEBAPP_URL not set, using default:", webAppURL)
	}

	return &BotWorker{
		bot:       bot,
		users:     users,
		referrals: referrals,
		taps:      taps,
		webAppURL: webAppURL,
	}, nil
}

// Start polls for updates until the context is cancelled.
func (w *BotWorker) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := w.bot.GetUpdatesChan(u)
	log.Println("🚀 Bot is running...")

	for {
		select {
		case <-ctx.Done():
			w.bot.StopReceivingUpdates()
			log.Println("Bot worker stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			w.handleUpdate(update)
		}
	}
}

func (w *BotWorker) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		w.handleCommand(update.Message)
	case update.CallbackQuery != nil:
		w.handleCallback(update.CallbackQuery)
	}
}

func (w *BotWorker) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		w.handleStart(msg)
	case "balance":
		w.handleBalance(msg)
	case "refer":
		w.handleRefer(msg)
	default:
		w.reply(msg.Chat.ID, "Unknown command. Try /start, /balance or /refer.")
	}
}

func (w *BotWorker) handleStart(msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		return
	}

	user, created, err := w.users.Resolve(services.TelegramIdentity{
		TelegramID: strconv.FormatInt(from.ID, 10),
		Username:   from.UserName,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
	})
	if err != nil {
		log.Printf("❌ [BOT] Failed to provision user %d: %v", from.ID, err)
		w.reply(msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	// Deep-link payload carries the referral code: t.me/bot?start=ALPHAXXXXXX
	if code := strings.TrimSpace(msg.CommandArguments()); created && code != "" {
		if _, err := w.referrals.Attribute(user.ID, code); err != nil {
			log.Printf("⚠️  Referral code %q rejected for user %s: %v", code, user.ID, err)
		}
	}

	greeting := fmt.Sprintf("Welcome back, %s! 🐺", user.FirstName)
	if created {
		greeting = fmt.Sprintf("Welcome to Alpha Wulf, %s! 🐺\nTap, complete tasks and play games to earn coins.", user.FirstName)
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, greeting)
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🎮 Open Alpha Wulf", w.webAppURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 My balance", "balance"),
		),
	)
	if _, err := w.bot.Send(reply); err != nil {
		log.Printf("❌ [BOT] Failed to send start reply: %v", err)
	}
}

func (w *BotWorker) handleBalance(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	w.sendBalance(msg.Chat.ID, strconv.FormatInt(msg.From.ID, 10))
}

func (w *BotWorker) handleRefer(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	user, err := w.users.GetByTelegramID(strconv.FormatInt(msg.From.ID, 10))
	if err != nil {
		w.reply(msg.Chat.ID, "Use /start first to create your account.")
		return
	}

	referred, earned, err := w.referrals.Referrals(user.ID)
	if err != nil {
		log.Printf("❌ [BOT] Failed to load referrals for %s: %v", user.ID, err)
		return
	}
	w.reply(msg.Chat.ID, fmt.Sprintf(
		"Your referral code: %s\nShare it: https://t.me/%s?start=%s\n\nFriends joined: %d\nCoins earned: %d",
		user.ReferralCode, w.bot.Self.UserName, user.ReferralCode, len(referred), earned,
	))
}

func (w *BotWorker) handleCallback(query *tgbotapi.CallbackQuery) {
	// Always answer, otherwise the client shows a spinner
	if _, err := w.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("❌ [BOT] Failed to answer callback: %v", err)
	}

	if query.Data == "balance" && query.From != nil && query.Message != nil {
		w.sendBalance(query.Message.Chat.ID, strconv.FormatInt(query.From.ID, 10))
	}
}

func (w *BotWorker) sendBalance(chatID int64, telegramID string) {
	user, err := w.users.GetByTelegramID(telegramID)
	if err != nil {
		w.reply(chatID, "Use /start first to create your account.")
		return
	}

	status, err := w.taps.Status(user.ID)
	if err != nil {
		log.Printf("❌ [BOT] Failed to load tap status for %s: %v", user.ID, err)
		return
	}
	w.reply(chatID, fmt.Sprintf(
		"💰 Coins: %d\n⭐ Level %d (%d/%d XP)\n👆 Taps left: %d",
		user.Coins, user.Level, user.Experience, user.MaxExperience, status.RemainingTaps,
	))
}

// WithdrawalProcessed implements services.WithdrawalNotifier.
func (w *BotWorker) WithdrawalProcessed(user *models.User, withdrawal *models.Withdrawal) {
	chatID, err := strconv.ParseInt(user.TelegramID, 10, 64)
	if err != nil {
		return
	}

	var text string
	switch withdrawal.Status {
	case models.WithdrawalApproved:
		text = fmt.Sprintf("✅ Your withdrawal of %d coins (₹%.2f) was approved and sent to %s.",
			withdrawal.Amount, withdrawal.AmountInr, withdrawal.UpiID)
	case models.WithdrawalRejected:
		text = fmt.Sprintf("❌ Your withdrawal of %d coins was rejected and the coins were refunded.", withdrawal.Amount)
		if withdrawal.Remarks != "" {
			text += "\nReason: " + withdrawal.Remarks
		}
	default:
		return
	}
	w.reply(chatID, text)
}

func (w *BotWorker) reply(chatID int64, text string) {
	if _, err := w.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("❌ [BOT] Failed to send message to %d: %v", chatID, err)
	}
}
