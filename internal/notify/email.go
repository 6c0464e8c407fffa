package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"

	gomail "gopkg.in/gomail.v2"

	"github.com/jonathan/marketing-intel/internal/config"
	"github.com/jonathan/marketing-intel/internal/report"
	"github.com/jonathan/marketing-intel/internal/types"
)

// SubscriberLister resolves the recipient list at delivery time so signups
// between runs are picked up without restarting the monitor.
type SubscriberLister interface {
	ListActiveSubscribers(ctx context.Context) ([]string, error)
}

// Mailer sends the daily brief and the signup-flow emails over SMTP.
type Mailer struct {
	from        string
	admin       string
	appURL      string
	subscribers SubscriberLister
	send        func(messages ...*gomail.Message) error
}

// NewMailer creates a Mailer from the SMTP settings in cfg. subscribers may
// be nil, in which case only the admin receives the brief.
func NewMailer(cfg *config.Config, subscribers SubscriberLister) *Mailer {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return &Mailer{
		from:        cfg.MailFrom,
		admin:       cfg.MailAdmin,
		appURL:      cfg.AppURL,
		subscribers: subscribers,
		send:        dialer.DialAndSend,
	}
}

// Deliver emails the daily brief, HTML body plus PDF attachment, to the
// admin and every active subscriber.
func (m *Mailer) Deliver(ctx context.Context, daily *types.DailyBrief) error {
	recipients, err := m.recipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no mail recipients configured")
	}

	pdfData, err := report.PDF(daily)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.from)
	msg.SetHeader("Bcc", recipients...)
	msg.SetHeader("Subject", report.Subject(daily))
	msg.SetBody("text/html", report.HTML(daily))
	msg.Attach("marketing-strategy-report.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(pdfData))
		return err
	}))

	if err := m.send(msg); err != nil {
		return fmt.Errorf("failed to send daily brief email: %w", err)
	}
	log.Printf("[NOTIFY] Daily brief emailed to %d recipient(s)", len(recipients))
	return nil
}

func (m *Mailer) recipients(ctx context.Context) ([]string, error) {
	var recipients []string
	if m.admin != "" {
		recipients = append(recipients, m.admin)
	}
	if m.subscribers == nil {
		return recipients, nil
	}

	subs, err := m.subscribers.ListActiveSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subscribers: %w", err)
	}
	seen := map[string]bool{m.admin: true}
	for _, s := range subs {
		if !seen[s] {
			seen[s] = true
			recipients = append(recipients, s)
		}
	}
	return recipients, nil
}

// SendVerification emails a signup confirmation link.
func (m *Mailer) SendVerification(email, token string) error {
	link := fmt.Sprintf("%s/verify?token=%s", m.appURL, url.QueryEscape(token))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Confirm your Marketing Strategy Report subscription")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Thanks for signing up. Confirm your subscription to start receiving the daily report:</p>"+
			"<p><a href=\"%s\">Confirm subscription</a></p>"+
			"<p>If you did not request this, ignore this email.</p>", link))

	if err := m.send(msg); err != nil {
		return fmt.Errorf("failed to send verification email to %s: %w", email, err)
	}
	return nil
}

// SendWelcome emails the post-verification welcome note with the
// unsubscribe link.
func (m *Mailer) SendWelcome(email string) error {
	unsubscribe := fmt.Sprintf("%s/unsubscribe?email=%s", m.appURL, url.QueryEscape(email))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Welcome to the Marketing Strategy Report")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Your subscription is confirmed. The daily report arrives each morning.</p>"+
			"<p><a href=\"%s\">Unsubscribe</a> at any time.</p>", unsubscribe))

	if err := m.send(msg); err != nil {
		return fmt.Errorf("failed to send welcome email to %s: %w", email, err)
	}
	return nil
}
