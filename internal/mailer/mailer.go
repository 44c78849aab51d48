package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends sale notifications to the sales team over SMTP.
type Mailer struct {
	dialer dialer
	from   string
	to     string
	logger *logger.Logger
}

func NewMailer(host string, port int, user, password, from, to string, log *logger.Logger) *Mailer {
	if from == "" {
		from = user
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		to:     to,
		logger: log.Named("Mailer"),
	}
}

func (m *Mailer) buildSoldMessage(p *domain.Property, inv *domain.Invoice) *gomail.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Property '%s' has been sold.\n\n", p.Name)
	fmt.Fprintf(&body, "Selling price: %.2f\n", p.SellingPrice)
	if inv != nil {
		fmt.Fprintf(&body, "Buyer: %s\n\nInvoice lines:\n", inv.PartnerID)
		for _, l := range inv.Lines {
			fmt.Fprintf(&body, "  %s: %.2f x %.2f\n", l.Name, l.Quantity, l.Price)
		}
		fmt.Fprintf(&body, "Total: %.2f\n", inv.Total())
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("Property sold: %s", p.Name))
	msg.SetBody("text/plain", body.String())
	return msg
}

// SendPropertySold mails a summary of the sale and its invoice.
func (m *Mailer) SendPropertySold(ctx context.Context, p *domain.Property, inv *domain.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.buildSoldMessage(p, inv)); err != nil {
		m.logger.Error("Failed to send sale notification", zap.String("property_id", p.ID), zap.Error(err))
		return fmt.Errorf("send sale notification for %s: %w", p.ID, err)
	}
	m.logger.Info("Sale notification sent", zap.String("property_id", p.ID), zap.String("to", m.to))
	return nil
}
