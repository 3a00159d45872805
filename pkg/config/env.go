package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvStorageBackend   = "STORAGE_BACKEND"
	EnvDataDir          = "DATA_DIR"
	EnvReservationsFile = "RESERVATIONS_FILE"
	EnvRoomsFile        = "ROOMS_FILE"
	EnvSQLiteDSN        = "SQLITE_DSN"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvNotifier              = "NOTIFIER"
	EnvKafkaReservationTopic = "KAFKA_RESERVATION_TOPIC"
	EnvKafkaNotifierGroupID  = "KAFKA_NOTIFIER_GROUP_ID"
	EnvKafkaDLQTopic         = "KAFKA_DLQ_TOPIC"
	EnvNotificationTimeout   = "NOTIFICATION_TIMEOUT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
