package core

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"attendance.service/pkg/telemetry"
)

type EmailService interface {
	SendAbsenceNotification(ctx context.Context, to, workerName, date string) error
}

type SESEmailService struct {
	client *ses.Client
	sender string
}

func NewSESEmailService(client *ses.Client, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

// SendAbsenceNotification emails the admin about one auto-detected
// unexcused absence.
func (s *SESEmailService) SendAbsenceNotification(ctx context.Context, to, workerName, date string) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if workerID := telemetry.GetWorkerIDFromContext(ctx); workerID != "" {
		span.SetAttributes(attribute.String("app.workerId", workerID))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(fmt.Sprintf("Falta de asistencia: %s", workerName)),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(fmt.Sprintf("Se ha detectado una falta de asistencia.\n\nTrabajador: %s\nFecha: %s\n\nRevise el panel de incidencias para justificarla o confirmarla.", workerName, date)),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}
