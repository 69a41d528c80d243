// Package notify pushes out-of-band alerts to the account owner.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fintrackhq/fintrack/internal/model"
)

// TelegramNotifier delivers budget alerts to a Telegram chat.
type TelegramNotifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	currency model.Currency
}

// NewTelegramNotifier authenticates against the Bot API. The currency
// controls how amounts are rendered in alert text.
func NewTelegramNotifier(token string, chatID int64, currency model.Currency) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, currency: currency}, nil
}

// BudgetAlert sends a warning that the budget has crossed its alert
// threshold (or been exceeded).
func (n *TelegramNotifier) BudgetAlert(ctx context.Context, budget model.Budget, progress float64) error {
	var text string
	if progress >= 1 {
		text = fmt.Sprintf("⚠️ Budget %q exceeded: %s spent of %s",
			budget.Name,
			n.currency.Format(budget.CurrentAmount),
			n.currency.Format(budget.TargetAmount))
	} else {
		text = fmt.Sprintf("Budget %q is at %.0f%%: %s spent of %s",
			budget.Name,
			progress*100,
			n.currency.Format(budget.CurrentAmount),
			n.currency.Format(budget.TargetAmount))
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("failed to send budget alert: %w", err)
	}
	return nil
}
