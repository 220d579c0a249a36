package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmailSender struct {
	sent      []EmailMessage
	delivered bool
	err       error
}

func (r *recordingEmailSender) Send(_ context.Context, msg EmailMessage) (bool, error) {
	r.sent = append(r.sent, msg)
	return r.delivered, r.err
}

type recordingSMSSender struct {
	sent []string
	err  error
}

func (r *recordingSMSSender) SendSMS(_ context.Context, to, body string) error {
	r.sent = append(r.sent, body)
	return r.err
}

func TestSendConfirmationDeliversEmailAndSMS(t *testing.T) {
	email := &recordingEmailSender{delivered: true}
	sms := &recordingSMSSender{}
	svc := NewService(email, sms, "CareSync", time.UTC, nil)

	delivered, err := svc.SendConfirmation(context.Background(), testAppointment())
	require.NoError(t, err)
	assert.True(t, delivered)
	require.Len(t, email.sent, 1)
	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0], "confirmed")
}

func TestSendConfirmationEmailErrorSkipsSMS(t *testing.T) {
	email := &recordingEmailSender{err: errors.New("transport down")}
	sms := &recordingSMSSender{}
	svc := NewService(email, sms, "CareSync", time.UTC, nil)

	delivered, err := svc.SendConfirmation(context.Background(), testAppointment())
	assert.Error(t, err)
	assert.False(t, delivered)
	assert.Empty(t, sms.sent)
}

func TestSendConfirmationCleanFailure(t *testing.T) {
	email := &recordingEmailSender{delivered: false}
	svc := NewService(email, nil, "CareSync", time.UTC, nil)

	delivered, err := svc.SendConfirmation(context.Background(), testAppointment())
	require.NoError(t, err)
	assert.False(t, delivered)
}

func TestSMSFailureDoesNotAffectOutcome(t *testing.T) {
	email := &recordingEmailSender{delivered: true}
	sms := &recordingSMSSender{err: errors.New("sms gateway down")}
	svc := NewService(email, sms, "CareSync", time.UTC, nil)

	delivered, err := svc.SendReminder(context.Background(), testAppointment())
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestStubEmailSenderAlwaysDelivers(t *testing.T) {
	delivered, err := NewStubEmailSender(nil).Send(context.Background(), EmailMessage{To: "a@b.c"})
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestNewSendGridSenderRequiresKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{}, nil))
	assert.NotNil(t, NewSendGridSender(SendGridConfig{APIKey: "SG.test"}, nil))
}
