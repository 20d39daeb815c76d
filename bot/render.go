package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fooddash/catalog"
	"fooddash/models"
	"fooddash/storefront"
)

// chatUI implements the Renderer and Notifier capabilities for one chat.
type chatUI struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	catalog *catalog.Catalog
}

func newChatUI(api *tgbotapi.BotAPI, chatID int64, cat *catalog.Catalog) *chatUI {
	return &chatUI{api: api, chatID: chatID, catalog: cat}
}

func (u *chatUI) RenderMenu(products []models.Product) {
	if len(products) == 0 {
		u.sendText("The menu is empty right now. Please check back later.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🍔 *FoodDash Menu*\n\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range products {
		fmt.Fprintf(&sb, "*%s* — %s\n%s\n\n", p.Name, money(p.Price), p.Rating)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+p.Name, fmt.Sprintf("add:%d", p.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🛒 Cart", "cart"),
		tgbotapi.NewInlineKeyboardButtonData("📦 Orders", "history"),
	))

	msg := tgbotapi.NewMessage(u.chatID, sb.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	u.send(msg)
}

func (u *chatUI) RenderCart(lines []models.CartLine, b models.Breakdown, submitEnabled bool) {
	if len(lines) == 0 {
		msg := tgbotapi.NewMessage(u.chatID, "🛒 Your cart is empty.\nAdd delicious items from the menu to get started!")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Browse Menu", "menu"),
			),
		)
		u.send(msg)
		return
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Your Cart*\n\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, line := range lines {
		p, ok := u.catalog.FindByID(line.ProductID)
		if !ok {
			continue
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		fmt.Fprintf(&sb, "%s × %d — %s\n", p.Name, line.Quantity, money(lineTotal))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("−", fmt.Sprintf("dec:%d", p.ID)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d", line.Quantity), fmt.Sprintf("qty:%d", p.ID)),
			tgbotapi.NewInlineKeyboardButtonData("+", fmt.Sprintf("inc:%d", p.ID)),
			tgbotapi.NewInlineKeyboardButtonData("✕", fmt.Sprintf("del:%d", p.ID)),
		))
	}

	fmt.Fprintf(&sb, "\nSubtotal: %s\nTax: %s\nDelivery: %s\n*Total: %s*",
		money(b.Subtotal), money(b.Tax), money(b.DeliveryFee), money(b.Total))

	if submitEnabled {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Place Order", "checkout"),
		))
	}

	msg := tgbotapi.NewMessage(u.chatID, sb.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	u.send(msg)
}

func (u *chatUI) RenderOrderHistory(orders []models.Order) {
	if len(orders) == 0 {
		u.sendText("📦 No orders yet.\nYour order history will appear here once you place an order.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📦 *Your Orders*\n\n")
	for _, o := range orders {
		fmt.Fprintf(&sb, "*%s* — %s\n", o.CreatedAt.Format("2 Jan 2006 15:04"), money(o.TotalAmount))
		for _, item := range o.Items {
			fmt.Fprintf(&sb, "  %d× %s\n", item.Qty, item.Name)
		}
		sb.WriteString("\n")
	}
	msg := tgbotapi.NewMessage(u.chatID, sb.String())
	msg.ParseMode = "Markdown"
	u.send(msg)
}

func (u *chatUI) SetSubmitInProgress(inProgress bool) {
	if inProgress {
		u.sendText("⏳ Placing Order...")
	}
}

// Show sends a toast and deletes it after the display interval, the chat
// equivalent of an auto-dismissed toast.
func (u *chatUI) Show(kind models.NotifyKind, message string) {
	icon := "✅"
	if kind == models.NotifyError {
		icon = "❌"
	}
	msg := tgbotapi.NewMessage(u.chatID, icon+" "+message)
	sent, err := u.api.Send(msg)
	if err != nil {
		logrus.WithError(err).Warn("bot: toast send")
		return
	}

	go func() {
		time.Sleep(storefront.ToastDuration + storefront.ToastExit)
		del := tgbotapi.NewDeleteMessage(u.chatID, sent.MessageID)
		if _, err := u.api.Request(del); err != nil {
			logrus.WithError(err).Debug("bot: toast delete")
		}
	}()
}

func (u *chatUI) send(msg tgbotapi.MessageConfig) {
	if _, err := u.api.Send(msg); err != nil {
		logrus.WithError(err).Warn("bot: send")
	}
}

func (u *chatUI) sendText(text string) {
	u.send(tgbotapi.NewMessage(u.chatID, text))
}

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}
