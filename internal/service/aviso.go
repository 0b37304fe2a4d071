package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AvisoStream is the redis stream consumed by the notification sender.
const AvisoStream = "megasys:avisos"

// AvisoPublisher enqueues notification tasks (visit notices, loan due
// reminders) to the redis stream.
type AvisoPublisher struct {
	queue *redis.Client
	log   zerolog.Logger
}

func NewAvisoPublisher(queue *redis.Client, log zerolog.Logger) *AvisoPublisher {
	return &AvisoPublisher{queue: queue, log: log}
}

func (p *AvisoPublisher) Publish(ctx context.Context, payload map[string]any) error {
	if p.queue == nil {
		return nil
	}
	_, err := p.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: AvisoStream,
		Values: payload,
	}).Result()
	return err
}

func (p *AvisoPublisher) VisitaAviso(ctx context.Context, visitaID, sedeID string) error {
	return p.Publish(ctx, map[string]any{
		"type":      "visita_aviso",
		"visita_id": visitaID,
		"sede_id":   sedeID,
	})
}

func (p *AvisoPublisher) RemitoVencimiento(ctx context.Context, remitoID string, dias int) error {
	return p.Publish(ctx, map[string]any{
		"type":      "remito_vencimiento",
		"remito_id": remitoID,
		"dias":      dias,
	})
}
