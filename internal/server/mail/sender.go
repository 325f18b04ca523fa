// Package mail delivers transactional email. A Sender moves a rendered
// message to SMTP, SES or the log; TemplateService renders the stored
// templates and hands the result to the configured Sender.
package mail

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fooddiary/internal/logging"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Sender interface {
	Send(ctx context.Context, msg models.EmailMessage) error
}

// NewSender returns the Sender selected by cfg.MailDriver.
func NewSender(ctx context.Context, cfg *config.Config, logger logging.Logger) (Sender, error) {
	switch cfg.MailDriver {
	case config.MailDriverSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom), nil
	case config.MailDriverSES:
		return NewSESSender(ctx, cfg.SESRegion, cfg.MailFrom)
	case config.MailDriverLog, "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.MailDriver)
	}
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("module", "mail")}
}

func (s *LogSender) Send(ctx context.Context, msg models.EmailMessage) error {
	s.logger.Info(ctx, "email not delivered, log driver", "to", msg.To, "subject", msg.Subject, "text", msg.TextBody)
	return nil
}
