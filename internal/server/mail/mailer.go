// Package mail sends the account-activation messages produced by the auth
// flows.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Mailer delivers the activation code to a user.
type Mailer interface {
	SendUserConfirmation(ctx context.Context, user *models.User, code string) error
}

// SMTPConfig describes the outbound relay. Timeout bounds a whole delivery
// when the caller's context has no deadline of its own; zero means
// DefaultSMTPTimeout.
type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	OriginURL string
	Timeout   time.Duration
}

const DefaultSMTPTimeout = 10 * time.Second

// SMTPMailer sends plain-text mails through an SMTP relay, upgrading to TLS
// when the relay offers STARTTLS and using PLAIN auth when credentials are
// configured.
type SMTPMailer struct {
	cfg    SMTPConfig
	now    func() time.Time
	dialer net.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSMTPTimeout
	}
	return &SMTPMailer{cfg: cfg, now: time.Now}
}

func (m *SMTPMailer) SendUserConfirmation(ctx context.Context, user *models.User, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil || user.Mail == "" {
		return fmt.Errorf("mail: recipient is empty")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	if err := m.send(ctx, user.Mail, m.confirmationMessage(user, code)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("mail: send to %s: %w: %v", user.Mail, ctxErr, err)
		}
		return fmt.Errorf("mail: send to %s: %w", user.Mail, err)
	}
	return nil
}

// send runs one SMTP transaction. Once ctx is done any pending read or write
// on the connection fails.
func (m *SMTPMailer) send(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Unix(1, 0)) })
	defer stop()

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}
	if m.cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (m *SMTPMailer) confirmationMessage(user *models.User, code string) []byte {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.UserName
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", user.Mail)
	fmt.Fprintf(&b, "Subject: Confirm your account\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "Hello %s,\r\n\r\n", name)
	fmt.Fprintf(&b, "Your activation code is %s.\r\n", code)
	if m.cfg.OriginURL != "" {
		fmt.Fprintf(&b, "Enter it at %s/activate to confirm your account.\r\n", strings.TrimRight(m.cfg.OriginURL, "/"))
	}
	return b.Bytes()
}

// LogMailer writes the activation code to the log instead of sending it.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendUserConfirmation(ctx context.Context, user *models.User, code string) error {
	m.logger.Debug(ctx, "activation mail", "user_id", user.ID, "mail", user.Mail, "code", code)
	return nil
}
