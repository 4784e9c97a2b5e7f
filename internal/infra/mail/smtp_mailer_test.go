//go:build !integration

package mail

import (
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/config"
	"creator-payment-ledger/internal/infra/i18n"
)

func newMailer(t *testing.T) *SMTPMailer {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("NewTranslator failed: %v", err)
	}
	logger := zerolog.New(io.Discard)
	return NewSMTPMailer(config.MailConfig{}, tr, &logger)
}

func TestRenderBody(t *testing.T) {
	m := newMailer(t)

	t.Run("uses the template's localized intro", func(t *testing.T) {
		body := m.renderBody("mail_confirmed", map[string]string{"payment_id": "pay-1"})
		if !strings.Contains(body, "Your payment was confirmed") {
			t.Errorf("body = %q, want the confirmed intro", body)
		}
		if !strings.Contains(body, "<li>payment_id: pay-1</li>") {
			t.Errorf("body = %q, want the data fields listed", body)
		}
	})

	t.Run("escapes payer-supplied values", func(t *testing.T) {
		body := m.renderBody("mail_confirmed", map[string]string{
			"payer_name": `<script>alert("x")</script>`,
		})
		if strings.Contains(body, "<script>") {
			t.Errorf("body carries unescaped markup: %q", body)
		}
		if !strings.Contains(body, "&lt;script&gt;") {
			t.Errorf("body = %q, want the value escaped", body)
		}
	})
}
