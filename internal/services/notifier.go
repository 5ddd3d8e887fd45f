package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/corpman/pkg/logger"
	"github.com/charlesng35/corpman/pkg/mail"
	"github.com/charlesng35/corpman/pkg/metrics"
	"github.com/charlesng35/corpman/pkg/sms"
)

const defaultDeliveryTimeout = 30 * time.Second

// AccountNotifier delivers account lifecycle messages.
type AccountNotifier interface {
	VerificationCode(ctx context.Context, email, code string, welcome bool)
	PhoneCode(ctx context.Context, phone, code string)
	PasswordReset(ctx context.Context, email, link string)
}

// NotifierOption customises the Notifier.
type NotifierOption func(*Notifier)

// WithDeliveryTimeout bounds each background delivery.
func WithDeliveryTimeout(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithSynchronousDelivery sends messages on the calling goroutine.
func WithSynchronousDelivery() NotifierOption {
	return func(n *Notifier) {
		n.sync = true
	}
}

// Notifier sends mail and SMS in the background. Failures are logged and never
// reach the caller.
type Notifier struct {
	mailer  mail.Mailer
	sms     sms.Sender
	timeout time.Duration
	sync    bool
	log     *zap.Logger
	wg      sync.WaitGroup
}

// NewNotifier constructs a Notifier. Nil senders disable the corresponding channel.
func NewNotifier(mailer mail.Mailer, sender sms.Sender, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		mailer:  mailer,
		sms:     sender,
		timeout: defaultDeliveryTimeout,
		log:     logger.WithModule("notifications"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// VerificationCode mails a verification code.
func (n *Notifier) VerificationCode(ctx context.Context, email, code string, welcome bool) {
	subject := "Verification"
	if welcome {
		subject = "Welcome"
	}
	body := fmt.Sprintf(`<h1>Verify your Email</h1>
<p>Please use the token below to verify your email</p>
<p style="text-align: center; font-weight: bold;">%s</p>`, html.EscapeString(code))

	n.sendMail(ctx, mail.Message{
		To:      []string{email},
		Subject: subject,
		HTML:    body,
		Body:    "Your verification code is " + code,
	})
}

// PhoneCode texts a verification code.
func (n *Notifier) PhoneCode(ctx context.Context, phone, code string) {
	message := fmt.Sprintf("Your verification code is %s. It expires in 30 minutes.", code)
	n.dispatch(ctx, "sms", func(ctx context.Context) error {
		if n.sms == nil {
			return sms.ErrSMSDisabled
		}
		return n.sms.SendSMS(ctx, phone, message)
	})
}

// PasswordReset mails a password reset link.
func (n *Notifier) PasswordReset(ctx context.Context, email, link string) {
	escaped := html.EscapeString(link)
	body := fmt.Sprintf(`<h1>Reset Your Password</h1>
<p>Please click this <a href="%s">link</a> to Reset Your Password</p>
<p>Link will expire in 10 minutes</p>`, escaped)

	n.sendMail(ctx, mail.Message{
		To:      []string{email},
		Subject: "Reset Your Password",
		HTML:    body,
		Body:    "Reset your password: " + link,
	})
}

// Wait blocks until in-flight deliveries finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) sendMail(ctx context.Context, msg mail.Message) {
	n.dispatch(ctx, "email", func(ctx context.Context) error {
		if n.mailer == nil {
			return mail.ErrSMTPDisabled
		}
		return n.mailer.Send(ctx, msg)
	})
}

func (n *Notifier) dispatch(ctx context.Context, channel string, send func(context.Context) error) {
	ctx = context.WithoutCancel(ensureContext(ctx))

	run := func() {
		sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
		defer cancel()

		err := send(sendCtx)
		switch {
		case err == nil:
			metrics.NotificationsSent.WithLabelValues(channel, "success").Inc()
		case errors.Is(err, mail.ErrSMTPDisabled), errors.Is(err, sms.ErrSMSDisabled):
			metrics.NotificationsSent.WithLabelValues(channel, "disabled").Inc()
			n.log.Debug("delivery skipped", zap.String("channel", channel), zap.Error(err))
		default:
			metrics.NotificationsSent.WithLabelValues(channel, "failure").Inc()
			n.log.Warn("delivery failed", zap.String("channel", channel), zap.Error(err))
		}
	}

	if n.sync {
		run()
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		run()
	}()
}
