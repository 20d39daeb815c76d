package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"fooddash/catalog"
	"fooddash/config"
	"fooddash/models"
	"fooddash/storefront"
)

// checkoutState tracks the delivery-details conversation for one chat.
type checkoutState struct {
	Step    string // "name", "phone", "address"
	Details models.DeliveryDetails
}

const cancelButtonText = "❌ Cancel"

// Bot is the Telegram storefront. Each chat gets its own storefront session;
// the bot only translates messages and callbacks into commands and renders
// the snapshots it gets back.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	sessions *storefront.Manager
	catalog  *catalog.Catalog

	checkout   map[int64]*checkoutState
	checkoutMu sync.RWMutex
}

func New(cfg *config.Config, sessions *storefront.Manager, cat *catalog.Catalog) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		cfg:      cfg,
		sessions: sessions,
		catalog:  cat,
		checkout: make(map[int64]*checkoutState),
	}, nil
}

// GetAPI returns the underlying bot API.
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message != nil {
			b.handleMessage(update.Message)
		}
	}
}

// session returns the storefront session for a chat, creating it with a UI
// bound to that chat on first contact.
func (b *Bot) session(chatID int64) *storefront.Session {
	id := strconv.FormatInt(chatID, 10)
	ui := newChatUI(b.api, chatID, b.catalog)
	return b.sessions.GetOrCreate(id, ui, ui)
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	s := b.session(chatID)

	if st := b.checkoutStateFor(chatID); st != nil {
		b.handleCheckoutStep(chatID, s, st, msg.Text)
		return
	}

	switch msg.Command() {
	case "start":
		b.send(chatID, "Welcome to FoodDash! 🍔\n/menu — browse the menu\n/cart — view your cart\n/history — past orders")
		s.ShowMenu()
	case "menu":
		s.ShowMenu()
	case "cart":
		b.renderCurrentCart(s)
	case "history":
		if _, err := s.ShowHistory(context.Background()); err != nil {
			logrus.WithError(err).WithField("chat", chatID).Warn("bot: history fetch failed")
		}
	default:
		b.send(chatID, "Try /menu to see what's cooking.")
	}
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID
	s := b.session(chatID)

	prefix, payload := splitCallback(cq.Data)
	switch prefix {
	case "add":
		s.AddItem(parseID(payload))
		b.answerCallback(cq, "", false)
	case "inc":
		s.UpdateQuantity(parseID(payload), 1)
		b.answerCallback(cq, "", false)
	case "dec":
		s.UpdateQuantity(parseID(payload), -1)
		b.answerCallback(cq, "", false)
	case "del":
		s.RemoveItem(parseID(payload))
		b.answerCallback(cq, "Removed", false)
	case "checkout":
		b.answerCallback(cq, "", false)
		b.beginCheckout(chatID, s)
	case "history":
		b.answerCallback(cq, "", false)
		if _, err := s.ShowHistory(context.Background()); err != nil {
			logrus.WithError(err).WithField("chat", chatID).Warn("bot: history fetch failed")
		}
	case "menu":
		b.answerCallback(cq, "", false)
		s.ShowMenu()
	case "cart":
		b.answerCallback(cq, "", false)
		b.renderCurrentCart(s)
	case "qty":
		// the quantity label is not a button, just acknowledge it
		b.answerCallback(cq, "", false)
	default:
		b.answerCallback(cq, "", false)
	}
}

// renderCurrentCart renders on demand (cart mutations re-render by themselves).
func (b *Bot) renderCurrentCart(s *storefront.Session) {
	lines, breakdown, _ := s.Cart()
	id, _ := strconv.ParseInt(s.ID, 10, 64)
	newChatUI(b.api, id, b.catalog).RenderCart(lines, breakdown, len(lines) > 0)
}

func (b *Bot) checkoutStateFor(chatID int64) *checkoutState {
	b.checkoutMu.RLock()
	defer b.checkoutMu.RUnlock()
	return b.checkout[chatID]
}

func (b *Bot) beginCheckout(chatID int64, s *storefront.Session) {
	if s.CartIsEmpty() {
		b.send(chatID, "Your cart is empty. Add items first!")
		return
	}
	b.checkoutMu.Lock()
	b.checkout[chatID] = &checkoutState{Step: "name"}
	b.checkoutMu.Unlock()
	b.sendWithCancelKeyboard(chatID, "What name should the order be under?")
}

func (b *Bot) handleCheckoutStep(chatID int64, s *storefront.Session, st *checkoutState, text string) {
	text = strings.TrimSpace(text)
	if text == cancelButtonText || text == "/cancel" {
		b.endCheckout(chatID)
		b.sendRemoveKeyboard(chatID, "Checkout cancelled.")
		return
	}

	switch st.Step {
	case "name":
		st.Details.Name = text
		st.Step = "phone"
		b.send(chatID, "Your phone number?")
	case "phone":
		st.Details.Phone = text
		st.Step = "address"
		b.send(chatID, "Delivery address?")
	case "address":
		st.Details.Address = text
		b.endCheckout(chatID)
		b.sendRemoveKeyboard(chatID, "Got it!")

		s.SetDetails(st.Details)
		if err := s.SubmitOrder(context.Background()); err != nil {
			logrus.WithError(err).WithField("chat", chatID).Warn("bot: order submission failed")
			// the submitter already toasted the reason; cart and details are kept
		}
	}
}

func (b *Bot) endCheckout(chatID int64) {
	b.checkoutMu.Lock()
	delete(b.checkout, chatID)
	b.checkoutMu.Unlock()
}

func splitCallback(data string) (prefix, payload string) {
	if i := strings.Index(data, ":"); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, ""
}

func parseID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logrus.WithError(err).Warn("bot: send")
	}
}

func (b *Bot) sendWithCancelKeyboard(chatID int64, text string) {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(cancelButtonText)),
	)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		logrus.WithError(err).Warn("bot: send")
	}
}

func (b *Bot) sendRemoveKeyboard(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		logrus.WithError(err).Warn("bot: send")
	}
}

// answerCallback answers the callback query (required for every callback path).
func (b *Bot) answerCallback(cq *tgbotapi.CallbackQuery, text string, showAlert bool) {
	cb := tgbotapi.NewCallback(cq.ID, text)
	cb.ShowAlert = showAlert
	if _, err := b.api.Request(cb); err != nil {
		logrus.WithError(err).Warn("bot: answerCallback")
	}
}
