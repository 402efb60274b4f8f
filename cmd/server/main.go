package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"casakit.xyz/smarthome-service/pkg/assist"
	"casakit.xyz/smarthome-service/pkg/cache"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/db"
	"casakit.xyz/smarthome-service/pkg/home"
	smarthomeHttp "casakit.xyz/smarthome-service/pkg/http"
	"casakit.xyz/smarthome-service/pkg/metrics"
	"casakit.xyz/smarthome-service/pkg/mqttingest"
	"casakit.xyz/smarthome-service/pkg/notify"
	"casakit.xyz/smarthome-service/pkg/ota"
	"casakit.xyz/smarthome-service/pkg/sensors"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	dbType := os.Getenv(common.EnvKeyDBType)
	switch dbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	case "postgres":
		dbInstance = db.GetInstance(db.UsePostgresDialector())
	default:
		log.Fatal("Unknown SMARTHOME_DB_TYPE: " + dbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyDefaultRate), 64); err != nil {
		log.Fatal("Invalid SMARTHOME_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid SMARTHOME_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()
	serviceMetrics := metrics.New()

	sensorCore := sensors.Sensors{
		Db:      *dbInstance,
		Metrics: serviceMetrics,
	}
	sensorCore.WithServices(sensors.ServiceOpts{
		Registry:  sensorCore.GetIRegistry(),
		Readings:  sensorCore.GetIReadings(),
		Alerts:    sensorCore.GetIAlerts(),
		Ingest:    sensorCore.GetIIngest(),
		Evaluator: sensorCore.GetIEvaluator(),
	})

	if brokers := strings.TrimSpace(os.Getenv(common.EnvKeyKafkaBrokers)); brokers != "" {
		topic := os.Getenv(common.EnvKeyKafkaTopic)
		if topic == "" {
			topic = "smarthome.alerts"
		}
		publisher := notify.NewPublisher(strings.Split(brokers, ","), topic)
		defer publisher.Close()
		sensorCore.Notifier = publisher
		logger.Info("Alert publishing enabled", zap.String("topic", topic))
	}

	if redisAddr := strings.TrimSpace(os.Getenv(common.EnvKeyRedisAddr)); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
		sensorCore.Cache = cache.NewReadingCache(redisClient)
		logger.Info("Reading cache enabled", zap.String("addr", redisAddr))
	}

	if mqttBroker := strings.TrimSpace(os.Getenv(common.EnvKeyMqttBroker)); mqttBroker != "" {
		topic := os.Getenv(common.EnvKeyMqttTopic)
		if topic == "" {
			topic = "smarthome/sensors/data"
		}
		bridge, err := mqttingest.NewBridge(
			mqttBroker,
			"smarthome-server-"+uuid.New().String()[:8],
			topic,
			sensorCore.Ingest,
		)
		if err != nil {
			log.Fatalf("mqtt bridge failed to connect: %v", err)
		}
		defer bridge.Stop()
		if err := bridge.Start(); err != nil {
			log.Fatalf("mqtt bridge failed to subscribe: %v", err)
		}
		logger.Info("MQTT ingestion bridge enabled", zap.String("topic", topic))
	}

	homeCore := home.New(*dbInstance)

	var upstream *assist.Upstream
	if apiKey := os.Getenv(common.EnvKeyOpenAIApiKey); apiKey != "" {
		upstream = assist.NewUpstream(os.Getenv(common.EnvKeyOpenAIApiBase), apiKey)
	}
	assistService := assist.NewService(homeCore, upstream)

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	logger.Info("Starting HTTP server on port " + httpHostPort)
	rs := &smarthomeHttp.RestfulServer{
		Server:           gin.Default(),
		Sensors:          &sensorCore,
		Home:             homeCore,
		Assist:           assistService,
		OTA:              ota.NewService(*dbInstance, sensorCore.Registry),
		Metrics:          serviceMetrics,
		RateLimiterStore: sensors.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
