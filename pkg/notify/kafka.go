package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"casakit.xyz/smarthome-service/pkg/models"
)

// Publisher forwards created alerts to a Kafka topic. Messages are keyed
// by device id so alerts of one device land on one partition in order.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

type alertEvent struct {
	ID             uint     `json:"id"`
	DeviceID       string   `json:"device_id"`
	AlertType      string   `json:"alert_type"`
	Severity       string   `json:"severity"`
	Message        string   `json:"message"`
	ThresholdValue *float64 `json:"threshold_value"`
	CurrentValue   *float64 `json:"current_value"`
	CreatedAt      string   `json:"created_at"`
}

func (p *Publisher) PublishAlert(ctx context.Context, alert *models.SensorAlert) error {
	event := alertEvent{
		ID:             alert.ID,
		DeviceID:       alert.DeviceID,
		AlertType:      string(alert.AlertType),
		Severity:       string(alert.Severity),
		Message:        alert.Message,
		ThresholdValue: alert.ThresholdValue,
		CurrentValue:   alert.CurrentValue,
		CreatedAt:      alert.CreatedAt.UTC().Format(time.RFC3339),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(alert.DeviceID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
