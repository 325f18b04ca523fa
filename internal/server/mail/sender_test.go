package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/logging"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

func TestNewSender_SelectsDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	s, err := NewSender(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	cfg.MailDriver = config.MailDriverSMTP
	s, err = NewSender(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	cfg.MailDriver = "pigeon"
	_, err = NewSender(context.Background(), cfg, logging.Nop())
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender(logging.Nop()).Send(context.Background(), models.EmailMessage{To: "a@example.com"}))
}

type fakeSES struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	return &ses.SendEmailOutput{}, f.err
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	s := &SESSender{client: api, from: "no-reply@fooddiary.local"}

	err := s.Send(context.Background(), models.EmailMessage{To: "a@example.com", Subject: "Hi", TextBody: "t"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, api.in.Destination.ToAddresses)
	assert.Equal(t, "Hi", *api.in.Message.Subject.Data)
	assert.Equal(t, "t", *api.in.Message.Body.Text.Data)
	assert.Nil(t, api.in.Message.Body.Html)
	assert.Equal(t, "no-reply@fooddiary.local", *api.in.Source)
}

func TestSESSender_Error(t *testing.T) {
	s := &SESSender{client: &fakeSES{err: errors.New("throttled")}, from: "x@y.z"}
	err := s.Send(context.Background(), models.EmailMessage{To: "a@example.com", Subject: "s", TextBody: "b"})
	assert.ErrorIs(t, err, common.ErrExternalService)
}
