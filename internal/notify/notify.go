// Package notify delivers account e-mails: one-time codes and password reset links.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/meusugar/server/internal/logging"
)

// Kind is the purpose of a message.
type Kind string

const (
	KindTwoFactor     Kind = "two_factor"
	KindResetPassword Kind = "reset_password"
)

// Message is an outbound e-mail.
type Message struct {
	To      string
	Kind    Kind
	Subject string
	Body    string
}

// Notifier sends messages to users.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of sending them. Used in dev mode.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.log.Info(ctx, "notification",
		"to", logging.MaskEmail(msg.To),
		"kind", string(msg.Kind),
		"subject", msg.Subject,
		"body", msg.Body)
	return nil
}

// SMTPConfig is the relay used by SMTPNotifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sendMail is swapped in tests.
var sendMail = smtp.SendMail

// SMTPNotifier sends plain-text mail through an SMTP relay.
type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) Send(_ context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	if err := sendMail(addr, auth, n.cfg.From, []string{msg.To}, buildMessage(n.cfg.From, msg)); err != nil {
		return fmt.Errorf("failed to send %s mail: %w", msg.Kind, err)
	}
	return nil
}

func buildMessage(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// TwoFactorMessage is the login code e-mail.
func TwoFactorMessage(to, code string) Message {
	return Message{
		To:      to,
		Kind:    KindTwoFactor,
		Subject: "Seu código de acesso - Meu Sugar",
		Body:    fmt.Sprintf("Seu código de verificação é: %s\n\nEle expira em 10 minutos.", code),
	}
}

// ResetPasswordMessage is the password reset e-mail.
func ResetPasswordMessage(to, link string) Message {
	return Message{
		To:      to,
		Kind:    KindResetPassword,
		Subject: "Redefinição de senha - Meu Sugar",
		Body:    fmt.Sprintf("Para redefinir sua senha, acesse:\n%s\n\nO link expira em 1 hora.", link),
	}
}
