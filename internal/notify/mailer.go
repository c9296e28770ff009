package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// Notifier delivers a composed report. Transport and credentials live
// behind this interface.
type Notifier interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// SMTPNotifier sends the report over SMTP with STARTTLS.
type SMTPNotifier struct {
	host      string
	port      int
	sender    string
	password  string
	recipient string
	timeout   time.Duration
}

func NewSMTPNotifier(host string, port int, sender, password, recipient string, timeout time.Duration) *SMTPNotifier {
	return &SMTPNotifier{
		host:      host,
		port:      port,
		sender:    sender,
		password:  password,
		recipient: recipient,
		timeout:   timeout,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.sender); err != nil {
		return fmt.Errorf("invalid sender %q: %w", n.sender, err)
	}
	if err := msg.To(n.recipient); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", n.recipient, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(n.host,
		mail.WithPort(n.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.sender),
		mail.WithPassword(n.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(n.timeout),
	)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending mail via %s:%d: %w", n.host, n.port, err)
	}
	return nil
}
