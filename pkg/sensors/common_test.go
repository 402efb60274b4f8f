package sensors

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"
	"casakit.xyz/smarthome-service/pkg/db"
	"casakit.xyz/smarthome-service/pkg/models"
	"casakit.xyz/smarthome-service/pkg/sensors/mocks"
)

func GetMockSensorsWithMemorySqliteDialector(t *testing.T, useMockRegistry, useMockReadings, useMockAlerts, useMockEvaluator bool) (
	*gomock.Controller,
	*Sensors,
	*mocks.MockIRegistry,
	*mocks.MockIReadings,
	*mocks.MockIAlerts,
	*mocks.MockIEvaluator,
) {
	ctrl := gomock.NewController(t)

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockReadings := mocks.NewMockIReadings(ctrl)
	mockAlerts := mocks.NewMockIAlerts(ctrl)
	mockEvaluator := mocks.NewMockIEvaluator(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	sensorsInstance := (&Sensors{Db: *dbInstance})

	registryService := sensorsInstance.GetIRegistry()
	if useMockRegistry {
		registryService = mockRegistry
	}

	readingsService := sensorsInstance.GetIReadings()
	if useMockReadings {
		readingsService = mockReadings
	}

	alertsService := sensorsInstance.GetIAlerts()
	if useMockAlerts {
		alertsService = mockAlerts
	}

	evaluatorService := sensorsInstance.GetIEvaluator()
	if useMockEvaluator {
		evaluatorService = mockEvaluator
	}

	sensorsInstance.WithServices(ServiceOpts{
		Registry:  registryService,
		Readings:  readingsService,
		Alerts:    alertsService,
		Ingest:    sensorsInstance.GetIIngest(),
		Evaluator: evaluatorService,
	})

	return ctrl, sensorsInstance, mockRegistry, mockReadings, mockAlerts, mockEvaluator
}

type captureNotifier struct {
	published []models.SensorAlert
	err       error
}

func (cn *captureNotifier) PublishAlert(_ context.Context, alert *models.SensorAlert) error {
	if cn.err != nil {
		return cn.err
	}
	cn.published = append(cn.published, *alert)
	return nil
}

type captureCache struct {
	latest map[string]models.SensorReading
}

func (cc *captureCache) SetLatest(_ context.Context, reading *models.SensorReading) error {
	if cc.latest == nil {
		cc.latest = map[string]models.SensorReading{}
	}
	cc.latest[reading.DeviceID+":"+reading.SensorType] = *reading
	return nil
}

func (cc *captureCache) GetLatest(_ context.Context, deviceID, sensorType string) (*models.SensorReading, error) {
	reading, ok := cc.latest[deviceID+":"+sensorType]
	if !ok {
		return nil, nil
	}
	return &reading, nil
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
