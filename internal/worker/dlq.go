package worker

// Dead-letter queue for notification jobs. A job is parked under
// dlq:{queue} once its SMTP sends exhausted MaxAttempts (or its payload
// could not be decoded), and stays there until an operator replays it
// with RejouerDLQ after the relay recovers.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry is one parked job. Destinataire is surfaced out of the payload
// so an operator can triage entries without decoding them.
type DLQEntry struct {
	FileOrigine  string          `json:"file_origine"`
	TypeJob      string          `json:"type_job"`
	Destinataire string          `json:"destinataire,omitempty"`
	Payload      json.RawMessage `json:"payload"`
	Raison       string          `json:"raison"`
	EchoueeLe    time.Time       `json:"echouee_le"`
	Tentatives   int             `json:"tentatives"`
}

func nouvelleEntreeDLQ(queue, typeJob, destinataire string, payload json.RawMessage, raison string, tentatives int) DLQEntry {
	return DLQEntry{
		FileOrigine:  queue,
		TypeJob:      typeJob,
		Destinataire: destinataire,
		Payload:      payload,
		Raison:       raison,
		EchoueeLe:    time.Now().UTC(),
		Tentatives:   tentatives,
	}
}

// SendToDLQ parks a failed job under dlq:{queue}.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, typeJob, destinataire string, payload json.RawMessage, raison string, tentatives int) {
	entry := nouvelleEntreeDLQ(queue, typeJob, destinataire, payload, raison, tentatives)

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("type_job", typeJob).
		Str("destinataire", destinataire).
		Str("raison", raison).
		Int("tentatives", tentatives).
		Msg("dlq: job parked")
}

// DLQLength returns the number of parked entries for a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// RejouerDLQ drains up to max parked entries back onto their origin queue
// with a reset attempt counter, and returns how many were requeued.
// Undecodable entries are dropped rather than requeued forever.
func RejouerDLQ(ctx context.Context, rdb *redis.Client, queue string, max int) (int, error) {
	rejouees := 0
	for rejouees < max {
		data, err := rdb.RPop(ctx, DLQPrefix+queue).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return rejouees, err
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq: dropping undecodable entry")
			continue
		}

		job := Job{Type: entry.TypeJob, Payload: entry.Payload, Attempts: 0}
		encoded, err := json.Marshal(job)
		if err != nil {
			return rejouees, err
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			return rejouees, err
		}
		rejouees++
	}

	if rejouees > 0 {
		log.Info().Str("queue", queue).Int("rejouees", rejouees).Msg("dlq: entries replayed")
	}
	return rejouees, nil
}
