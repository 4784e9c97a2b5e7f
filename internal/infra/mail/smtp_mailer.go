package mail

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/config"
	"creator-payment-ledger/internal/domain/ports/adapter"
	"creator-payment-ledger/internal/infra/i18n"
	"creator-payment-ledger/internal/infra/logging"
)

var _ adapter.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends transactional confirmation mail over plain SMTP.
// Delivery is best-effort; callers log failures and move on.
type SMTPMailer struct {
	cfg config.MailConfig
	tr  *i18n.Translator
	log *zerolog.Logger
}

func NewSMTPMailer(cfg config.MailConfig, tr *i18n.Translator, log *zerolog.Logger) *SMTPMailer {
	l := log.With().Str("component", "smtp_mailer").Logger()
	return &SMTPMailer{cfg: cfg, tr: tr, log: &l}
}

// SendPaymentConfirmed renders and delivers one transactional mail.
// template is the locale key prefix ("mail_confirmed", "mail_tip");
// subject and intro come from "<template>_subject" / "<template>_body_plain".
func (m *SMTPMailer) SendPaymentConfirmed(ctx context.Context, to, template string, data map[string]string) error {
	subject := m.tr.T(template + "_subject")
	body := m.renderBody(template, data)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) renderBody(template string, data map[string]string) string {
	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(html.EscapeString(m.tr.T(template + "_body_plain")))
	b.WriteString("</p><ul>")
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		// Values can carry payer-supplied text (names, tip messages);
		// never interpolate them into HTML unescaped.
		fmt.Fprintf(&b, "<li>%s: %s</li>", html.EscapeString(k), html.EscapeString(data[k]))
	}
	b.WriteString("</ul>")
	return b.String()
}

func (m *SMTPMailer) send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	headers := map[string]string{
		"From":         m.cfg.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="utf-8"`,
	}

	var msg strings.Builder
	for _, k := range []string{"From", "To", "Subject", "MIME-Version", "Content-Type"} {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, headers[k])
	}
	msg.WriteString("\r\n" + body)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.log.Debug().Str("to", logging.Redact(to, false)).Msg("mail sent")
	return nil
}
