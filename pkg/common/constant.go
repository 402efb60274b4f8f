package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyDBType string = "SMARTHOME_DB_TYPE"
	EnvKeyDBPath string = "SMARTHOME_DB_PATH"
	EnvKeyDBDsn  string = "SMARTHOME_DB_DSN"

	EnvKeyHttpHostPort string = "SMARTHOME_HTTP_HOST_PORT"

	EnvKeyLogDir string = "SMARTHOME_LOG_DIR"

	EnvKeyDefaultRate  string = "SMARTHOME_DEFAULT_RATE"
	EnvKeyDefaultBurst string = "SMARTHOME_DEFAULT_BURST"

	EnvKeyRedisAddr    string = "SMARTHOME_REDIS_ADDR"
	EnvKeyKafkaBrokers string = "SMARTHOME_KAFKA_BROKERS"
	EnvKeyKafkaTopic   string = "SMARTHOME_KAFKA_TOPIC"
	EnvKeyMqttBroker   string = "SMARTHOME_MQTT_BROKER"
	EnvKeyMqttTopic    string = "SMARTHOME_MQTT_TOPIC"

	EnvKeyOpenAIApiKey  string = "SMARTHOME_OPENAI_API_KEY"
	EnvKeyOpenAIApiBase string = "SMARTHOME_OPENAI_API_BASE"

	LoggerNameSensorCore    string = "sensor_core"
	LoggerNameHomeCore      string = "home_core"
	LoggerNameAssist        string = "assist"
	LoggerNameOTA           string = "ota"
	LoggerNameNotifier      string = "notifier"
	LoggerNameMqttBridge    string = "mqtt_bridge"
	LoggerNameRestfulServer string = "restful_server"

	LoggerFieldCategory    string = "category"
	LoggerCategoryRegistry string = "registry"
	LoggerCategoryReading  string = "reading"
	LoggerCategoryAlert    string = "alert"
	LoggerCategoryIngest   string = "ingest"
	LoggerCategoryEvaluate string = "evaluate"
)
