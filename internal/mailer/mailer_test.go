package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

var testTime = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func newTestMailer(d *fakeDialer) *Mailer {
	return &Mailer{dialer: d, from: "estate@example.com", to: "sales@example.com", logger: logger.NewNop()}
}

func TestSendPropertySold(t *testing.T) {
	d := &fakeDialer{}
	m := newTestMailer(d)
	p := &domain.Property{ID: "p1", Name: "Canal house", SellingPrice: 130000, BuyerID: "partner-9", BestOffer: 130000}
	inv, err := domain.NewSaleInvoice(p, testTime)
	require.NoError(t, err)

	require.NoError(t, m.SendPropertySold(context.Background(), p, inv))
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"Property sold: Canal house"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"sales@example.com"}, msg.GetHeader("To"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Total: 7900.00")
	assert.Contains(t, buf.String(), "partner-9")
}

func TestSendPropertySold_DialError(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	m := newTestMailer(d)

	err := m.SendPropertySold(context.Background(), &domain.Property{ID: "p1", Name: "Loft"}, nil)
	assert.ErrorContains(t, err, "connection refused")
}
