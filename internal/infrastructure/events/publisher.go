package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/container-tracker/internal/application/container"
)

var (
	_ container.EventPublisher = (*KafkaPublisher)(nil)
	_ container.EventPublisher = NoopPublisher{}
)

// Writer subconjunto de kafka.Writer que usa el publicador (permite inyectar uno falso en tests).
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica eventos de transición de contenedores en un topic de Kafka.
// La clave del mensaje es el ID del contenedor: los eventos de un mismo contenedor van a la misma partición.
type KafkaPublisher struct {
	writer Writer
	log    zerolog.Logger
}

// NewKafkaPublisher crea el publicador contra broker/topic.
func NewKafkaPublisher(broker, topic string, log zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return NewKafkaPublisherWithWriter(w, log)
}

// NewKafkaPublisherWithWriter construye el publicador sobre un Writer dado.
func NewKafkaPublisherWithWriter(w Writer, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, log: log.With().Str("component", "events").Logger()}
}

// Publish serializa value a JSON y lo escribe con la clave dada.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b}); err != nil {
		return fmt.Errorf("escribir en kafka: %w", err)
	}
	p.log.Debug().Str("container_id", key).RawJSON("event", b).Msg("evento publicado")
	return nil
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher descarta los eventos (KAFKA_BROKER vacío).
type NoopPublisher struct{}

// Publish no hace nada.
func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// Close no hace nada.
func (NoopPublisher) Close() error { return nil }
