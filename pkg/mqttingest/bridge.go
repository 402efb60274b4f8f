package mqttingest

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/models"
	"casakit.xyz/smarthome-service/pkg/sensors"
)

// Bridge subscribes to an MQTT topic and feeds incoming sensor batches
// into the same ingestion path the HTTP endpoint uses. Firmware that
// cannot reach the REST API publishes here instead.
type Bridge struct {
	client mqtt.Client
	topic  string
	ingest sensors.IIngest
}

type batchMessage struct {
	DeviceID string                 `json:"device_id"`
	Readings []models.ReadingInput `json:"readings"`
}

func NewBridge(broker, clientID, topic string, ingest sensors.IIngest) (*Bridge, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Bridge{client: client, topic: topic, ingest: ingest}, nil
}

// Start subscribes with QoS 1. Handler errors are logged and never stop
// the subscription.
func (b *Bridge) Start() error {
	logger := common.GetLoggerWith(common.LoggerNameMqttBridge)

	token := b.client.Subscribe(b.topic, 1, func(client mqtt.Client, msg mqtt.Message) {
		deviceID, entries, err := decodeBatch(msg.Payload())
		if err != nil {
			logger.Warn("Dropping undecodable MQTT message",
				zap.String("topic", msg.Topic()), zap.Error(err))
			return
		}

		stored, err := b.ingest.IngestBatch(deviceID, entries)
		if err != nil {
			logger.Warn("MQTT batch rejected",
				zap.String("device_id", deviceID), zap.Error(err))
			return
		}
		logger.Info("Stored MQTT batch",
			zap.String("device_id", deviceID), zap.Int("stored", stored))
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", b.topic, token.Error())
	}
	return nil
}

func (b *Bridge) Stop() {
	b.client.Disconnect(250)
}

func (b *Bridge) IsConnected() bool {
	return b.client.IsConnected()
}

// decodeBatch parses one published payload. Per-entry validation stays
// in the ingestion path; this only requires a device id and a non-empty
// readings array.
func decodeBatch(payload []byte) (string, []models.ReadingInput, error) {
	var msg batchMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return "", nil, fmt.Errorf("failed to decode batch: %w", err)
	}
	if msg.DeviceID == "" {
		return "", nil, fmt.Errorf("batch missing device_id")
	}
	if len(msg.Readings) == 0 {
		return "", nil, fmt.Errorf("batch has no readings")
	}
	return msg.DeviceID, msg.Readings, nil
}
