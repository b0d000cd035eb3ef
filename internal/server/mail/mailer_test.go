package mail

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relay is a minimal in-process SMTP server recording one transaction.
type relay struct {
	port    int
	mailErr string

	mu sync.Mutex
	tx transaction
}

type transaction struct {
	auth bool
	from string
	to   []string
	msg  string
}

func startRelay(t *testing.T, mailErr string) *relay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	r := &relay{port: ln.Addr().(*net.TCPAddr).Port, mailErr: mailErr}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go r.serve(conn)
		}
	}()
	return r
}

func (r *relay) serve(conn net.Conn) {
	defer conn.Close()
	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 relay ready")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch {
		case verb == "EHLO":
			_ = tp.PrintfLine("250-relay")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case verb == "AUTH":
			r.mu.Lock()
			r.tx.auth = true
			r.mu.Unlock()
			_ = tp.PrintfLine("235 ok")
		case verb == "MAIL":
			if r.mailErr != "" {
				_ = tp.PrintfLine("554 %s", r.mailErr)
				continue
			}
			r.mu.Lock()
			r.tx.from = strings.Trim(strings.TrimPrefix(line, "MAIL FROM:"), "<>")
			r.mu.Unlock()
			_ = tp.PrintfLine("250 ok")
		case verb == "RCPT":
			r.mu.Lock()
			r.tx.to = append(r.tx.to, strings.Trim(strings.TrimPrefix(line, "RCPT TO:"), "<>"))
			r.mu.Unlock()
			_ = tp.PrintfLine("250 ok")
		case verb == "DATA":
			_ = tp.PrintfLine("354 go ahead")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			r.mu.Lock()
			r.tx.msg = string(data)
			r.mu.Unlock()
			_ = tp.PrintfLine("250 queued")
		case verb == "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("250 ok")
		}
	}
}

func (r *relay) snapshot() transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := r.tx
	tx.to = append([]string(nil), r.tx.to...)
	return tx
}

// stalledRelay accepts connections and never answers.
func stalledRelay(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().(*net.TCPAddr).Port
}

func TestSMTPMailer_SendUserConfirmation(t *testing.T) {
	r := startRelay(t, "")

	m := NewSMTPMailer(SMTPConfig{
		Host: "127.0.0.1", Port: r.port, User: "bot", Password: "pw",
		From: "no-reply@example.com", OriginURL: "https://app.example.com/",
	})
	m.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	u := &models.User{ID: "1", Mail: "a@x.com", FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, m.SendUserConfirmation(context.Background(), u, "1234"))

	got := r.snapshot()
	assert.True(t, got.auth)
	assert.Equal(t, "no-reply@example.com", got.from)
	assert.Equal(t, []string{"a@x.com"}, got.to)
	assert.Contains(t, got.msg, "To: a@x.com\n")
	assert.Contains(t, got.msg, "Hello Ada Lovelace,")
	assert.Contains(t, got.msg, "Your activation code is 1234.")
	assert.Contains(t, got.msg, "https://app.example.com/activate")
}

func TestSMTPMailer_NoAuthWithoutUser(t *testing.T) {
	r := startRelay(t, "")

	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: r.port, From: "f@x"})
	require.NoError(t, m.SendUserConfirmation(context.Background(), &models.User{Mail: "a@x.com", UserName: "u1"}, "9999"))

	got := r.snapshot()
	assert.False(t, got.auth)
	assert.Contains(t, got.msg, "Hello u1,")
}

func TestSMTPMailer_Errors(t *testing.T) {
	r := startRelay(t, "relay down")
	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: r.port, From: "f@x"})

	err := m.SendUserConfirmation(context.Background(), &models.User{Mail: "a@x.com"}, "1000")
	assert.ErrorContains(t, err, "relay down")

	err = m.SendUserConfirmation(context.Background(), &models.User{}, "1000")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.SendUserConfirmation(ctx, &models.User{Mail: "a@x.com"}, "1000")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSMTPMailer_StalledRelayTimesOut(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{
		Host: "127.0.0.1", Port: stalledRelay(t), From: "f@x",
		Timeout: 100 * time.Millisecond,
	})

	start := time.Now()
	err := m.SendUserConfirmation(context.Background(), &models.User{Mail: "a@x.com"}, "1000")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSMTPMailer_CallerDeadlineWins(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: stalledRelay(t), Timeout: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := m.SendUserConfirmation(ctx, &models.User{Mail: "a@x.com"}, "1000")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewSMTPMailer_DefaultTimeout(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{})
	assert.Equal(t, DefaultSMTPTimeout, m.cfg.Timeout)
}

type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) Debug(_ context.Context, msg string, _ ...any) { l.msgs = append(l.msgs, msg) }
func (l *recordingLogger) Info(_ context.Context, msg string, _ ...any) { l.msgs = append(l.msgs, msg) }
func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...any) { l.msgs = append(l.msgs, msg) }
func (l *recordingLogger) Error(_ context.Context, msg string, _ ...any) { l.msgs = append(l.msgs, msg) }
func (l *recordingLogger) With(...any) logging.Logger                    { return l }

func TestLogMailer(t *testing.T) {
	l := &recordingLogger{}
	m := NewLogMailer(l)
	require.NoError(t, m.SendUserConfirmation(context.Background(), &models.User{ID: "1", Mail: "a@x.com"}, "4242"))
	assert.Equal(t, []string{"activation mail"}, l.msgs)
}
