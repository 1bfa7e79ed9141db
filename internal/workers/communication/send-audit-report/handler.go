// internal/workers/communication/send-audit-report/handler.go
package sendauditreport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsclient "lifecycle-audit-workers/internal/common/aws"
	"lifecycle-audit-workers/internal/common/camunda"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-audit-report"

	alertSubject = "High-value lifecycle audit lead"
)

// EmailSender is implemented by *awsclient.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, email awsclient.Email) (string, error)
}

// AlertPublisher is implemented by *awsclient.SNSClient.
type AlertPublisher interface {
	PublishToTopic(ctx context.Context, topicARN, subject, message string) (string, error)
}

type Handler struct {
	config     *Config
	email      EmailSender
	alerts     AlertPublisher
	templates  *renderer
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

// NewHandler builds the handler. email and alerts may be nil when the
// matching channel is disabled.
func NewHandler(config *Config, email EmailSender, alerts AlertPublisher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		email:      email,
		alerts:     alerts,
		templates:  newRenderer(),
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("Processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var output *Output
	var input Input
	err := json.Unmarshal([]byte(job.Variables), &input)
	if err != nil {
		err = errors.NewAuditInputInvalidError(fmt.Sprintf("parse variables: %v", err), nil)
	} else {
		output, err = h.Execute(ctx, &input)
	}

	camunda.FinishJob(ctx, client, job, TaskType, started, output, err, h.errHandler, h.logger)
}

// Execute emails the report to the lead and alerts sales when the monthly
// opportunity reaches the configured threshold. Once the email is sent, an
// alert failure is recorded on the output instead of failing the job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.AuditResults == nil {
		return nil, errors.NewAuditInputInvalidError("auditResults is required", []string{"auditResults"})
	}
	data := templateData{AuditID: input.AuditID, Results: input.AuditResults}
	recipient := input.AuditResults.LeadData.Email

	output := &Output{Notifications: []models.Notification{}}
	emailSent := false

	if h.config.EmailEnabled && h.email != nil && recipient != "" {
		report, err := h.templates.report(data)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		messageID, err := h.email.SendEmail(ctx, awsclient.Email{
			To:      recipient,
			Subject: report.Subject,
			Text:    report.Text,
			HTML:    report.HTML,
		})
		if err != nil {
			return nil, errors.NewNotificationSendFailedError(models.ChannelEmail, err)
		}
		emailSent = true
		output.Notifications = append(output.Notifications, models.Notification{
			Channel:   models.ChannelEmail,
			Recipient: recipient,
			Status:    models.NotificationSent,
			MessageID: messageID,
		})
	} else {
		output.Notifications = append(output.Notifications, models.Notification{
			Channel:   models.ChannelEmail,
			Recipient: recipient,
			Status:    models.NotificationSkipped,
		})
	}

	if h.shouldAlert(input.AuditResults.TotalMonthlyOpportunity) {
		message, err := h.templates.alertMessage(data)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		messageID, err := h.alerts.PublishToTopic(ctx, h.config.SalesTopicARN, alertSubject, message)
		switch {
		case err != nil && !emailSent:
			return nil, errors.NewNotificationSendFailedError(models.ChannelSNS, err)
		case err != nil:
			// Failing the job here would resend the report on retry.
			h.logger.Warn("Sales alert failed after report email was sent", map[string]interface{}{
				"auditId": input.AuditID,
				"topic":   h.config.SalesTopicARN,
				"error":   err.Error(),
			})
			output.Notifications = append(output.Notifications, models.Notification{
				Channel:   models.ChannelSNS,
				Recipient: h.config.SalesTopicARN,
				Status:    models.NotificationFailed,
			})
		default:
			output.SalesAlerted = true
			output.Notifications = append(output.Notifications, models.Notification{
				Channel:   models.ChannelSNS,
				Recipient: h.config.SalesTopicARN,
				Status:    models.NotificationSent,
				MessageID: messageID,
			})
		}
	}

	h.logger.Info("Audit report delivered", map[string]interface{}{
		"auditId":       input.AuditID,
		"notifications": len(output.Notifications),
		"salesAlerted":  output.SalesAlerted,
	})
	return output, nil
}

func (h *Handler) shouldAlert(monthlyOpportunity float64) bool {
	return h.config.SalesAlertEnabled &&
		h.alerts != nil &&
		h.config.SalesTopicARN != "" &&
		monthlyOpportunity >= h.config.SalesAlertThreshold
}
