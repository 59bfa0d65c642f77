package email

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
)

// EmailProcessor sends the admin one notification per auto-detected
// absence. The incident status doubles as the delivery ledger, so a
// redelivered message never emails twice.
type EmailProcessor struct {
	emailService core.EmailService
	repo         repository.Repository
	adminEmail   string
}

// NewProcessor sets up a new processor for handling absence email jobs.
func NewProcessor(emailService core.EmailService, repo repository.Repository, adminEmail string) *EmailProcessor {
	return &EmailProcessor{
		emailService: emailService,
		repo:         repo,
		adminEmail:   adminEmail,
	}
}

// Process is the main entry point for handling a message from the email queue.
func (p *EmailProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.AbsenceEmailEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal absence email event")
		return false, 0, err // Do not retry on malformed message
	}

	incident, err := p.repo.GetIncident(ctx, event.IncidentID)
	if err != nil {
		// If we can't read the incident, retry after a short delay.
		return true, 10, fmt.Errorf("failed to get incident for email processing: %w", err)
	}
	if incident == nil {
		log.Ctx(ctx).Warn().Str("incident_id", event.IncidentID).Msg("Incident no longer exists. Skipping.")
		return false, 0, nil
	}

	if incident.Status != model.IncidentStatusGenerated {
		log.Ctx(ctx).Info().Str("incident_id", event.IncidentID).Str("status", incident.Status).Msg("Absence already handled. Skipping.")
		return false, 0, nil
	}

	if err := p.emailService.SendAbsenceNotification(ctx, p.adminEmail, event.WorkerName, event.Date); err != nil {
		return true, calculateBackoff(receiveCount(msg)), err
	}

	err = p.repo.UpdateIncidentStatus(ctx, event.IncidentID, model.IncidentStatusNotified)
	return false, 0, err
}

func receiveCount(msg types.Message) int {
	raw := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each delivery attempt.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 { // Cap at 1 hour
		return 3600
	}
	return backoff
}
