package mail

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/logging"
	"github.com/dmitrijs2005/fooddiary/internal/server/metrics"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

//go:embed defaults.yaml
var defaultTemplatesYAML []byte

const (
	templateCacheSize = 64
	templateCacheTTL  = time.Minute
)

// TemplateData is the data every template is executed with.
type TemplateData struct {
	AppURL      string
	DisplayName string
	Email       string
	Token       string
	Link        string
}

// TemplateStore is the part of the template repository the service needs.
type TemplateStore interface {
	Get(ctx context.Context, key string) (*models.EmailTemplate, error)
	CreateIfMissing(ctx context.Context, t *models.EmailTemplate) (bool, error)
}

type TemplateService struct {
	store  TemplateStore
	sender Sender
	appURL string
	cache  *expirable.LRU[string, *models.EmailTemplate]
	logger logging.Logger
}

func NewTemplateService(store TemplateStore, sender Sender, appURL string, logger logging.Logger) *TemplateService {
	return &TemplateService{
		store:  store,
		sender: sender,
		appURL: strings.TrimRight(appURL, "/"),
		cache:  expirable.NewLRU[string, *models.EmailTemplate](templateCacheSize, nil, templateCacheTTL),
		logger: logger.With("module", "mail"),
	}
}

func (s *TemplateService) template(ctx context.Context, key string) (*models.EmailTemplate, error) {
	if t, ok := s.cache.Get(key); ok {
		return t, nil
	}
	t, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", key, err)
	}
	s.cache.Add(key, t)
	return t, nil
}

// Invalidate drops a cached template after it was edited.
func (s *TemplateService) Invalidate(key string) {
	s.cache.Remove(key)
}

// Render executes the stored template key for recipient to.
func (s *TemplateService) Render(ctx context.Context, key, to string, data TemplateData) (*models.EmailMessage, error) {
	t, err := s.template(ctx, key)
	if err != nil {
		return nil, err
	}
	if data.AppURL == "" {
		data.AppURL = s.appURL
	}
	if data.Email == "" {
		data.Email = to
	}
	msg, err := Render(t, data)
	if err != nil {
		return nil, err
	}
	msg.To = to
	return msg, nil
}

// Send renders template key and delivers it to the address to.
func (s *TemplateService) Send(ctx context.Context, key, to string, data TemplateData) error {
	msg, err := s.Render(ctx, key, to, data)
	if err == nil {
		err = s.sender.Send(ctx, *msg)
	}
	metrics.RecordEmail(key, err)
	if err != nil {
		s.logger.Error(ctx, "email not sent", "template", key, "error", err)
		return err
	}
	s.logger.Info(ctx, "email sent", "template", key)
	return nil
}

// SeedDefaults stores the built-in templates that are not in the store yet.
func (s *TemplateService) SeedDefaults(ctx context.Context) error {
	defaults, err := DefaultTemplates()
	if err != nil {
		return err
	}
	for _, t := range defaults {
		created, err := s.store.CreateIfMissing(ctx, t)
		if err != nil {
			return fmt.Errorf("seed template %q: %w", t.Key, err)
		}
		if created {
			s.logger.Info(ctx, "email template seeded", "template", t.Key)
		}
	}
	return nil
}

// DefaultTemplates parses the embedded template seed.
func DefaultTemplates() ([]*models.EmailTemplate, error) {
	var out []*models.EmailTemplate
	if err := yaml.Unmarshal(defaultTemplatesYAML, &out); err != nil {
		return nil, fmt.Errorf("parse default templates: %w", err)
	}
	for _, t := range out {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("default template %q: %w", t.Key, err)
		}
	}
	return out, nil
}

// Render executes subject and text body with text/template and the HTML body
// with html/template. A template that does not parse is a validation error.
func Render(t *models.EmailTemplate, data TemplateData) (*models.EmailMessage, error) {
	subject, err := execText(t.Key+":subject", t.Subject, data)
	if err != nil {
		return nil, err
	}
	text, err := execText(t.Key+":text", t.TextBody, data)
	if err != nil {
		return nil, err
	}

	var html string
	if t.HTMLBody != "" {
		tpl, err := htmltemplate.New(t.Key + ":html").Option("missingkey=error").Parse(t.HTMLBody)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		var buf bytes.Buffer
		if err := tpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		html = buf.String()
	}

	return &models.EmailMessage{
		Subject:  strings.TrimSpace(subject),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

func execText(name, body string, data TemplateData) (string, error) {
	if body == "" {
		return "", nil
	}
	tpl, err := texttemplate.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return buf.String(), nil
}
