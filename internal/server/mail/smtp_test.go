package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

func stubSendMail(t *testing.T, fn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) {
	t.Helper()
	orig := sendMail
	sendMail = fn
	t.Cleanup(func() { sendMail = orig })
}

func TestSMTPSender_Send(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotAuth smtp.Auth
	var gotMsg []byte
	stubSendMail(t, func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	})

	s := NewSMTPSender("mail.local", 587, "user", "pass", "FoodDiary <no-reply@fooddiary.local>")
	err := s.Send(context.Background(), models.EmailMessage{To: "a@example.com", Subject: "Hi", TextBody: "plain", HTMLBody: "<p>html</p>"})
	require.NoError(t, err)

	assert.Equal(t, "mail.local:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "no-reply@fooddiary.local", gotFrom)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "multipart/alternative")
}

func TestSMTPSender_NoAuthWithoutUser(t *testing.T) {
	var gotAuth smtp.Auth = smtp.PlainAuth("", "x", "y", "z")
	stubSendMail(t, func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAuth = a
		return nil
	})

	s := NewSMTPSender("localhost", 1025, "", "", "no-reply@fooddiary.local")
	require.NoError(t, s.Send(context.Background(), models.EmailMessage{To: "a@example.com", Subject: "s", TextBody: "b"}))
	assert.Nil(t, gotAuth)
}

func TestSMTPSender_ErrorIsExternal(t *testing.T) {
	stubSendMail(t, func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") })

	s := NewSMTPSender("localhost", 25, "", "", "no-reply@fooddiary.local")
	err := s.Send(context.Background(), models.EmailMessage{To: "a@example.com", Subject: "s", TextBody: "b"})
	assert.ErrorIs(t, err, common.ErrExternalService)
}

func TestSMTPSender_BadFrom(t *testing.T) {
	s := NewSMTPSender("localhost", 25, "", "", "not an address")
	err := s.Send(context.Background(), models.EmailMessage{To: "a@example.com"})
	assert.Error(t, err)
}

func TestBuildMessage_SinglePart(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	raw, err := buildMessage("no-reply@x", models.EmailMessage{To: "a@example.com", Subject: "Grüße", TextBody: "hello"}, now)
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, "Content-Type: text/plain; charset=utf-8\r\n")
	assert.Contains(t, s, "Subject: =?utf-8?q?Gr=C3=BC=C3=9Fe?=\r\n")
	assert.True(t, strings.HasSuffix(s, "hello"))
	assert.NotContains(t, s, "multipart")
}
