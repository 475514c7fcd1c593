package worker

// notification_worker.go
// Processes notification jobs from QueueNotification: registration decisions,
// account activation notices. Failed sends are requeued with an attempt
// counter; jobs exceeding MaxAttempts land in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"

	"auditex/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxAttempts bounds the retry loop before a job is parked in the DLQ.
const MaxAttempts = 3

// NotificationPayload is the job envelope sent to QueueNotification.
type NotificationPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotificationWorker sends notification emails via SMTP, behind a circuit
// breaker so a dead relay does not burn through every queued job.
type NotificationWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
}

func NewNotificationWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker) *NotificationWorker {
	return &NotificationWorker{mailer: mailer, breaker: breaker}
}

// Process sends the email, requeueing on failure until MaxAttempts.
func (w *NotificationWorker) Process(ctx context.Context, rdb *redis.Client, job Job) {
	var payload NotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		SendToDLQ(ctx, rdb, QueueNotification, job.Type, "", job.Payload, "invalid payload", job.Attempts)
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("notification_worker: empty to_email — skipping")
		return
	}

	err := w.breaker.Execute(func() error {
		return w.mailer.SendNotification(payload.ToEmail, payload.Subject, payload.Body, nil, "")
	})
	if err == nil {
		log.Info().Str("to", payload.ToEmail).Msg("notification_worker: email sent")
		return
	}

	job.Attempts++
	if errors.Is(err, infra.ErrCircuitOpen) {
		log.Warn().Str("to", payload.ToEmail).Msg("notification_worker: circuit open — requeueing")
	} else {
		log.Error().Err(err).Str("to", payload.ToEmail).Int("attempts", job.Attempts).
			Msg("notification_worker: send failed")
	}

	if job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, rdb, QueueNotification, job.Type, payload.ToEmail, job.Payload, err.Error(), job.Attempts)
		return
	}

	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		log.Error().Err(mErr).Msg("notification_worker: failed to re-marshal job")
		return
	}
	if pErr := rdb.LPush(ctx, QueueNotification, encoded).Err(); pErr != nil {
		log.Error().Err(pErr).Msg("notification_worker: requeue failed")
	}
}
