package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Server holds the SMTP connection parameters. They are loaded per send so
// that settings changes apply without a restart.
type Server struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type Message struct {
	From    string
	To      []string
	Bcc     []string
	Subject string
	Body    string
}

// Recipients is the SMTP envelope: To first, then Bcc.
func (m Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Bcc...)
	return out
}

type SenderAPI interface {
	Send(ctx context.Context, server Server, msg Message) error
}

var ErrNoRecipients = errors.New("mail: message has no recipients")

type SMTPSender struct {
	logger  *slog.Logger
	timeout time.Duration
}

func NewSMTPSender(logger *slog.Logger) *SMTPSender {
	return &SMTPSender{logger: logger, timeout: 30 * time.Second}
}

// Send delivers msg over SMTP, upgrading with STARTTLS when the server
// offers it and authenticating with PLAIN when a username is set.
func (s *SMTPSender) Send(ctx context.Context, server Server, msg Message) error {
	if len(msg.Recipients()) == 0 {
		return ErrNoRecipients
	}

	m, err := newMsg(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(server.Host, s.clientOptions(server)...)
	if err != nil {
		return fmt.Errorf("smtp client for %s: %w", server.Addr(), err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send via %s: %w", server.Addr(), err)
	}

	s.logger.Info("mail sent", "server", server.Addr(), "subject", msg.Subject, "recipients", len(msg.Recipients()))
	return nil
}

func (s *SMTPSender) clientOptions(server Server) []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(server.Port),
		gomail.WithTimeout(s.timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if server.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(server.Username),
			gomail.WithPassword(server.Password),
		)
	}
	return opts
}

// newMsg maps msg onto a go-mail message. Bcc addresses only travel in the
// envelope; go-mail never writes them as a header.
func newMsg(msg Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("from %q: %w", msg.From, err)
	}
	if len(msg.To) > 0 {
		if err := m.To(msg.To...); err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
	}
	if len(msg.Bcc) > 0 {
		if err := m.Bcc(msg.Bcc...); err != nil {
			return nil, fmt.Errorf("bcc: %w", err)
		}
	}
	m.Subject(singleLine(msg.Subject))
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}

// BuildMessage renders msg exactly as Send would put it on the wire.
func BuildMessage(msg Message) ([]byte, error) {
	m, err := newMsg(msg)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if _, err := m.WriteTo(&b); err != nil {
		return nil, fmt.Errorf("render message: %w", err)
	}
	return b.Bytes(), nil
}

func singleLine(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
