package mailer

import (
	"context"
	"time"

	"github.com/wneessen/go-mail"

	"meetnotes/config"
)

// Client delivers summaries over SMTP (STARTTLS + plain auth, the Gmail
// relay shape). Credentials come from the environment via config.
type Client struct {
	host    string
	port    int
	user    string
	pass    string
	timeout time.Duration
}

func New(cfg config.AppConfig) *Client {
	return &Client{
		host:    cfg.Mail.SMTPHost,
		port:    cfg.Mail.SMTPPort,
		user:    cfg.SMTPUser,
		pass:    cfg.SMTPPass,
		timeout: cfg.MailTimeout(),
	}
}

// Send delivers one plain-text message to the given recipients. Address
// validation happens here: a malformed recipient fails before any dial.
func (c *Client) Send(ctx context.Context, recipients []string, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(c.user); err != nil {
		return err
	}
	if err := msg.To(recipients...); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.pass),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(c.timeout),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.DialAndSendWithContext(ctx, msg)
}
