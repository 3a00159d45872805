package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roombook/pkg/client"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
	"roombook/pkg/logger"
)

type Config struct {
	Port string

	StorageBackend   string
	DataDir          string
	ReservationsFile string
	RoomsFile        string
	SQLiteDSN        string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Notifier              string
	KafkaReservationTopic string
	KafkaNotifierGroupID  string
	KafkaDLQTopic         string
	NotificationTimeout   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
	Kafka  *kafka_config.Config

	// KafkaMetrics counts traffic through producers and consumers built from this config.
	KafkaMetrics *kafka_middleware.Metrics
}

func Load(serviceName string) *Config {
	cfg := FromEnv(serviceName)

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads the configuration without validating it.
func FromEnv(serviceName string) *Config {
	return &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		StorageBackend:   strings.ToLower(getEnvStr(EnvStorageBackend, DefaultStorageBackend)),
		DataDir:          getEnvStr(EnvDataDir, DefaultDataDir),
		ReservationsFile: getEnvStr(EnvReservationsFile, DefaultReservationsFile),
		RoomsFile:        getEnvStr(EnvRoomsFile, DefaultRoomsFile),
		SQLiteDSN:        getEnvStr(EnvSQLiteDSN, DefaultSQLiteDSN),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Notifier:              strings.ToLower(getEnvStr(EnvNotifier, DefaultNotifier)),
		KafkaReservationTopic: getEnvStr(EnvKafkaReservationTopic, DefaultKafkaReservationTopic),
		KafkaNotifierGroupID:  getEnvStr(EnvKafkaNotifierGroupID, DefaultKafkaNotifierGroupID),
		KafkaDLQTopic:         getEnvStr(EnvKafkaDLQTopic, DefaultKafkaDLQTopic),
		NotificationTimeout:   getEnvDuration(EnvNotificationTimeout, DefaultNotificationTimeout),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client:       client.NewClient(),
		KafkaMetrics: &kafka_middleware.Metrics{},
	}
}

// SetStorage opens the connection the configured backend needs.
func (cfg *Config) SetStorage() {
	switch cfg.StorageBackend {
	case BackendMongo:
		cfg.SetMongo()
	case BackendSQLite:
		cfg.Client.SetSQLite(cfg.Log, cfg.SQLiteDSN, cfg.MongoConnTimeout)
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) LoadKafka() {
	if cfg.Kafka != nil {
		return
	}
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)
	cfg.Kafka = kafkaCfg
}

// SetKafkaProducer creates the reservation event producer.
func (cfg *Config) SetKafkaProducer() {
	cfg.LoadKafka()

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.KafkaReservationTopic, cfg.KafkaDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(cfg.KafkaMetrics.ProducerMiddleware())
	}
	cfg.Client.SetKafka(producer)
}

// NewKafkaConsumer creates a consumer of the reservation event topic.
func (cfg *Config) NewKafkaConsumer(handler kafka.MessageHandler) *kafka.Consumer {
	cfg.LoadKafka()

	consumer, err := kafka.NewConsumer(cfg.Kafka, cfg.KafkaReservationTopic, cfg.KafkaNotifierGroupID, cfg.KafkaDLQTopic, handler, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(cfg.KafkaMetrics.ConsumerMiddleware())
	}
	return consumer
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StorageBackend {
	case BackendFile:
		if cfg.DataDir == "" {
			errors = append(errors, "DataDir cannot be empty")
		}
		if cfg.ReservationsFile == "" || cfg.RoomsFile == "" {
			errors = append(errors, "ReservationsFile and RoomsFile cannot be empty")
		}
	case BackendSQLite:
		if cfg.SQLiteDSN == "" {
			errors = append(errors, "SQLiteDSN cannot be empty")
		}
	case BackendMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
	default:
		errors = append(errors, fmt.Sprintf("StorageBackend must be one of [file, mongo, sqlite], got: %s", cfg.StorageBackend))
	}

	switch cfg.Notifier {
	case NotifierLog:
	case NotifierKafka:
		if cfg.KafkaReservationTopic == "" {
			errors = append(errors, "KafkaReservationTopic cannot be empty when Notifier is kafka")
		}
		if cfg.KafkaNotifierGroupID == "" {
			errors = append(errors, "KafkaNotifierGroupID cannot be empty when Notifier is kafka")
		}
	default:
		errors = append(errors, fmt.Sprintf("Notifier must be one of [log, kafka], got: %s", cfg.Notifier))
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.NotificationTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationTimeout must be positive, got: %s", cfg.NotificationTimeout))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"storage_backend", cfg.StorageBackend,
		"data_dir", cfg.DataDir,
		"reservations_file", cfg.ReservationsFile,
		"rooms_file", cfg.RoomsFile,
		"sqlite_dsn", cfg.SQLiteDSN,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"notifier", cfg.Notifier,
		"kafka_reservation_topic", cfg.KafkaReservationTopic,
		"kafka_notifier_group_id", cfg.KafkaNotifierGroupID,
		"kafka_dlq_topic", cfg.KafkaDLQTopic,
		"notification_timeout", cfg.NotificationTimeout,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown(ctx context.Context) {
	if err := cfg.Client.GracefulShutdown(ctx); err != nil {
		cfg.Log.Error("Failed to close clients", "error", err)
	}
}
