// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/unitywave/trustgate/internal/config"
	"github.com/unitywave/trustgate/internal/models"
)

// Service sends the out-of-band verification mail via SMTP.
type Service struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig, baseURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SendLoginVerification mails one message carrying both the verify link
// and the block link for a newly seen sign-in context.
func (s *Service) SendLoginVerification(ctx context.Context, to string, fp models.Fingerprint, verifyToken, blockToken uuid.UUID) error {
	verifyURL := fmt.Sprintf("%s/auth/verify-login?token=%s&email=%s", s.baseURL, verifyToken, to)
	blockURL := fmt.Sprintf("%s/auth/block-device?token=%s&email=%s", s.baseURL, blockToken, to)

	subject := "Action Required: Verify Recent Login"
	body := loginVerificationBody(fp, verifyURL, blockURL)

	return s.send(ctx, to, subject, body)
}

func loginVerificationBody(fp models.Fingerprint, verifyURL, blockURL string) string {
	var b strings.Builder

	b.WriteString("We noticed a sign-in to your account from a device or location we don't recognize:\n\n")
	fmt.Fprintf(&b, "  IP address:  %s\n", fp.IP)
	fmt.Fprintf(&b, "  Location:    %s, %s\n", fp.City, fp.Country)
	fmt.Fprintf(&b, "  Browser:     %s\n", fp.Browser)
	fmt.Fprintf(&b, "  System:      %s (%s)\n", fp.OS, fp.DeviceType)
	b.WriteString("\nIf this was you, confirm the sign-in:\n\n  ")
	b.WriteString(verifyURL)
	b.WriteString("\n\nIf this was NOT you, block this device:\n\n  ")
	b.WriteString(blockURL)
	b.WriteString("\n\nThe links expire in 30 minutes.\n")

	return b.String()
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
