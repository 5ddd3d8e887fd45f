package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/corpman/pkg/mail"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type fakeSMS struct {
	mu       sync.Mutex
	to       []string
	messages []string
}

func (s *fakeSMS) SendSMS(_ context.Context, to, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.to = append(s.to, to)
	s.messages = append(s.messages, message)
	return nil
}

func TestNotifierVerificationSubjects(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewNotifier(mailer, nil, WithSynchronousDelivery())

	n.VerificationCode(context.Background(), "alice@example.com", "123456", true)
	n.VerificationCode(context.Background(), "alice@example.com", "654321", false)

	require.Len(t, mailer.sent, 2)
	require.Equal(t, "Welcome", mailer.sent[0].Subject)
	require.Equal(t, "Verification", mailer.sent[1].Subject)
	require.Contains(t, mailer.sent[0].HTML, "123456")
	require.Equal(t, []string{"alice@example.com"}, mailer.sent[0].To)
}

func TestNotifierPasswordResetEscapesLink(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewNotifier(mailer, nil, WithSynchronousDelivery())

	n.PasswordReset(context.Background(), "alice@example.com", "https://corpman.test/reset?a=1&b=2")

	require.Len(t, mailer.sent, 1)
	require.Equal(t, "Reset Your Password", mailer.sent[0].Subject)
	require.Contains(t, mailer.sent[0].HTML, "a=1&amp;b=2")
}

func TestNotifierPhoneCode(t *testing.T) {
	sender := &fakeSMS{}
	n := NewNotifier(nil, sender, WithSynchronousDelivery())

	n.PhoneCode(context.Background(), "+2348000000000", "123456")

	require.Equal(t, []string{"+2348000000000"}, sender.to)
	require.Contains(t, sender.messages[0], "123456")
}

func TestNotifierBackgroundDeliverySurvivesCancelledContext(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	n := NewNotifier(mailer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n.VerificationCode(ctx, "alice@example.com", "123456", true)
	n.Wait()

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	require.Len(t, mailer.sent, 1)
}

func TestNotifierWithoutTransports(t *testing.T) {
	n := NewNotifier(nil, nil, WithSynchronousDelivery())
	n.PhoneCode(context.Background(), "+2348000000000", "123456")
	n.PasswordReset(context.Background(), "alice@example.com", "https://corpman.test")
}
