// internal/workers/communication/send-audit-report/handler_test.go
package sendauditreport

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"lifecycle-audit-workers/internal/audit"
	awsclient "lifecycle-audit-workers/internal/common/aws"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Senders
// ==========================

type mockEmailSender struct {
	sendFunc func(ctx context.Context, email awsclient.Email) (string, error)
	sent     []awsclient.Email
}

func (m *mockEmailSender) SendEmail(ctx context.Context, email awsclient.Email) (string, error) {
	m.sent = append(m.sent, email)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, email)
	}
	return "ses-1", nil
}

type mockAlertPublisher struct {
	publishFunc func(ctx context.Context, topicARN, subject, message string) (string, error)
	messages    []string
}

func (m *mockAlertPublisher) PublishToTopic(ctx context.Context, topicARN, subject, message string) (string, error) {
	m.messages = append(m.messages, message)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, topicARN, subject, message)
	}
	return "sns-1", nil
}

// ==========================
// Test Helpers
// ==========================

const salesTopic = "arn:aws:sns:us-east-1:123456789012:sales-alerts"

func testInput(t *testing.T) *Input {
	results, err := audit.GenerateProfessionalAudit(audit.AuditFormData{
		CompanyName: "Acme Inc",
		Email:       "jane@acme.com",
		Industry:    "Fashion & Apparel",
		Acquisition: 7, Activation: 8, Nurture: 5, Retention: 4, Winback: 6,
	}, "EUR")
	require.NoError(t, err)
	return &Input{AuditID: "audit-1", AuditResults: results}
}

func alertConfig(threshold float64) *Config {
	cfg := DefaultConfig()
	cfg.SalesAlertEnabled = true
	cfg.SalesTopicARN = salesTopic
	cfg.SalesAlertThreshold = threshold
	return cfg
}

// ==========================
// Execute
// ==========================

func TestExecute_SendsReportEmail(t *testing.T) {
	email := &mockEmailSender{}
	handler := NewHandler(DefaultConfig(), email, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), testInput(t))
	require.NoError(t, err)

	require.Len(t, email.sent, 1)
	sent := email.sent[0]
	assert.Equal(t, "jane@acme.com", sent.To)
	assert.Equal(t, "Your Customer Lifecycle Audit: 57/100", sent.Subject)
	assert.Contains(t, sent.Text, "industry benchmark of 53 (Fashion & Apparel)")
	assert.Contains(t, sent.Text, "EUR 28,000/month, EUR 336,000/year")
	assert.Contains(t, sent.HTML, "Fashion &amp; Apparel")
	assert.Contains(t, sent.HTML, "color: #EF4444")

	assert.False(t, output.SalesAlerted)
	assert.Equal(t, []models.Notification{{
		Channel: models.ChannelEmail, Recipient: "jane@acme.com", Status: models.NotificationSent, MessageID: "ses-1",
	}}, output.Notifications)
}

func TestExecute_SalesAlertThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		wantAlert bool
	}{
		{name: "below threshold", threshold: 50000, wantAlert: false},
		{name: "at threshold", threshold: 28000, wantAlert: true},
		{name: "above threshold", threshold: 10000, wantAlert: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := &mockAlertPublisher{}
			handler := NewHandler(alertConfig(tt.threshold), &mockEmailSender{}, alerts, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), testInput(t))
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlert, output.SalesAlerted)

			if tt.wantAlert {
				require.Len(t, alerts.messages, 1)
				assert.Contains(t, alerts.messages[0], "Company: Acme Inc")
				assert.Contains(t, alerts.messages[0], "Monthly opportunity: EUR 28,000")
				assert.Contains(t, alerts.messages[0], "Audit: audit-1")
				require.Len(t, output.Notifications, 2)
				assert.Equal(t, models.ChannelSNS, output.Notifications[1].Channel)
				assert.Equal(t, salesTopic, output.Notifications[1].Recipient)
			} else {
				assert.Empty(t, alerts.messages)
			}
		})
	}
}

func TestExecute_EmailDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmailEnabled = false
	email := &mockEmailSender{}

	output, err := NewHandler(cfg, email, nil, logger.NewTestLogger(t)).Execute(context.Background(), testInput(t))
	require.NoError(t, err)
	assert.Empty(t, email.sent)
	require.Len(t, output.Notifications, 1)
	assert.Equal(t, models.NotificationSkipped, output.Notifications[0].Status)
}

func TestExecute_DeliveryErrors(t *testing.T) {
	failing := func(context.Context, awsclient.Email) (string, error) { return "", assert.AnError }
	handler := NewHandler(DefaultConfig(), &mockEmailSender{sendFunc: failing}, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), testInput(t))
	requireNotificationError(t, err, "channel: email")

	// With no report email sent the alert failure is safe to retry.
	alerts := &mockAlertPublisher{publishFunc: func(context.Context, string, string, string) (string, error) {
		return "", assert.AnError
	}}
	cfg := alertConfig(0)
	cfg.EmailEnabled = false
	handler = NewHandler(cfg, &mockEmailSender{}, alerts, logger.NewTestLogger(t))

	_, err = handler.Execute(context.Background(), testInput(t))
	requireNotificationError(t, err, "channel: sns")
}

func TestExecute_AlertFailureAfterEmail(t *testing.T) {
	email := &mockEmailSender{}
	alerts := &mockAlertPublisher{publishFunc: func(context.Context, string, string, string) (string, error) {
		return "", assert.AnError
	}}
	handler := NewHandler(alertConfig(0), email, alerts, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), testInput(t))
	require.NoError(t, err)
	assert.False(t, output.SalesAlerted)
	require.Len(t, output.Notifications, 2)
	assert.Equal(t, models.NotificationSent, output.Notifications[0].Status)
	assert.Equal(t, models.ChannelSNS, output.Notifications[1].Channel)
	assert.Equal(t, models.NotificationFailed, output.Notifications[1].Status)

	// The job completed, so the broker never hands it back and the lead
	// receives exactly one report.
	assert.Len(t, email.sent, 1)
	assert.Len(t, alerts.messages, 1)
}

func requireNotificationError(t *testing.T, err error, detail string) {
	t.Helper()
	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, strings.HasPrefix(stdErr.Details, detail))
}

func TestFormatMoney(t *testing.T) {
	tests := map[float64]string{
		0:         "USD 0",
		999:       "USD 999",
		1000:      "USD 1,000",
		28000:     "USD 28,000",
		1234567.6: "USD 1,234,568",
		-4500:     "USD -4,500",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatMoney("USD", in))
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, alertConfig(1).Validate())

	cfg := alertConfig(1)
	cfg.SalesTopicARN = ""
	assert.Error(t, cfg.Validate())
	assert.Error(t, alertConfig(-1).Validate())
}
