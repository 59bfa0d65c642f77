package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/worker/payroll"
)

// LedgerProcessor handles jobs from the ledger queue by forwarding each
// closed clock-out to the legacy payroll API. A circuit breaker keeps us
// from hammering the legacy system when it is struggling.
type LedgerProcessor struct {
	payroll payroll.Client
	cb      *gobreaker.CircuitBreaker
}

// NewProcessor creates a new processor for the ledger queue.
func NewProcessor(client payroll.Client) *LedgerProcessor {
	settings := gobreaker.Settings{
		Name:        "Payroll-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is bigger than 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &LedgerProcessor{
		payroll: client,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// Process forwards one ledger event through the circuit breaker. On
// failure it asks the worker to retry with exponential backoff keyed to
// the message's receive count; the payroll API dedupes on clockEventId.
func (p *LedgerProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.LedgerEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal ledger event")
		return false, 0, err // Do not retry on malformed message
	}

	log.Ctx(ctx).Info().
		Str("worker_id", event.WorkerID).
		Int64("clock_event_id", event.ClockEventID).
		Int("worked_minutes", event.WorkedMinutes).
		Msg("Forwarding clock-out to payroll")

	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.payroll.RecordWorkedTime(ctx, event)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is OPEN; skipping payroll call")
		}
		return true, calculateBackoff(receiveCount(msg)), err
	}

	return false, 0, nil
}

// receiveCount reads how many times SQS has delivered this message.
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
	if backoff > 3600 {
		return 3600 // max at 1 hour
	}
	return backoff
}
