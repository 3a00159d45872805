package kafka_config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"roombook/pkg/logger"
)

var validCompressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

// Config is shared by the reservation event producer and the notifier
// consumer. Topics and group IDs belong to the service config.
type Config struct {
	Brokers          []string
	ClientID         string
	EnableMiddleware bool

	Producer ProducerConfig
	Consumer ConsumerConfig
}

type ProducerConfig struct {
	MaxAttempts  int
	BatchTimeout time.Duration
	RequiredAcks string // all, leader or none
	Compression  string
	Async        bool
}

type ConsumerConfig struct {
	StartOffset       string // oldest or newest
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	CommitInterval    time.Duration
	HeartbeatInterval time.Duration
	SessionTimeout    time.Duration
	RebalanceTimeout  time.Duration
	MaxRetries        int
	RetryBackoff      time.Duration
}

// StartOffsetValue maps StartOffset to the kafka-go FirstOffset/LastOffset values.
func (c ConsumerConfig) StartOffsetValue() int64 {
	if c.StartOffset == OffsetNewest {
		return -1
	}
	return -2
}

func Load() (*Config, error) {
	cfg := &Config{
		Brokers:          splitBrokers(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers)),
		ClientID:         getEnvStr(EnvKafkaClientID, DefaultClientID),
		EnableMiddleware: getEnvBool(EnvKafkaEnableMiddleware, DefaultEnableMiddleware),
		Producer: ProducerConfig{
			MaxAttempts:  getEnvNum(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
			BatchTimeout: getEnvDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
			RequiredAcks: strings.ToLower(getEnvStr(EnvKafkaProducerRequiredAcks, DefaultProducerRequiredAcks)),
			Compression:  strings.ToLower(getEnvStr(EnvKafkaProducerCompression, DefaultProducerCompression)),
			Async:        getEnvBool(EnvKafkaProducerAsync, DefaultProducerAsync),
		},
		Consumer: ConsumerConfig{
			StartOffset:       strings.ToLower(getEnvStr(EnvKafkaConsumerStartOffset, DefaultConsumerStartOffset)),
			MinBytes:          getEnvNum(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes),
			MaxBytes:          getEnvNum(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes),
			MaxWait:           getEnvDuration(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait),
			CommitInterval:    getEnvDuration(EnvKafkaConsumerCommitInterval, DefaultConsumerCommitInterval),
			HeartbeatInterval: getEnvDuration(EnvKafkaConsumerHeartbeatInterval, DefaultConsumerHeartbeatInterval),
			SessionTimeout:    getEnvDuration(EnvKafkaConsumerSessionTimeout, DefaultConsumerSessionTimeout),
			RebalanceTimeout:  getEnvDuration(EnvKafkaConsumerRebalanceTimeout, DefaultConsumerRebalanceTimeout),
			MaxRetries:        getEnvNum(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries),
			RetryBackoff:      getEnvDuration(EnvKafkaConsumerRetryBackoff, DefaultConsumerRetryBackoff),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kafka configuration: %w", err)
	}
	return cfg, nil
}

func splitBrokers(s string) []string {
	brokers := strings.Split(s, ",")
	for i, broker := range brokers {
		brokers[i] = strings.TrimSpace(broker)
	}
	return brokers
}

// Validate reports every invalid setting at once.
func (cfg *Config) Validate() error {
	var errs []error

	if len(cfg.Brokers) == 0 {
		errs = append(errs, errors.New("at least one broker is required"))
	}
	for i, broker := range cfg.Brokers {
		if broker == "" {
			errs = append(errs, fmt.Errorf("broker %d is empty", i))
		}
	}
	if cfg.ClientID == "" {
		errs = append(errs, errors.New("client id is required"))
	}

	p := cfg.Producer
	if p.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("producer max attempts must be positive, got %d", p.MaxAttempts))
	}
	if p.BatchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("producer batch timeout must be positive, got %s", p.BatchTimeout))
	}
	if !slices.Contains([]string{AcksAll, AcksLeader, AcksNone}, p.RequiredAcks) {
		errs = append(errs, fmt.Errorf("producer required acks must be all, leader or none, got %q", p.RequiredAcks))
	}
	if !slices.Contains(validCompressions, p.Compression) {
		errs = append(errs, fmt.Errorf("producer compression must be one of %v, got %q", validCompressions, p.Compression))
	}

	c := cfg.Consumer
	if c.StartOffset != OffsetOldest && c.StartOffset != OffsetNewest {
		errs = append(errs, fmt.Errorf("consumer start offset must be oldest or newest, got %q", c.StartOffset))
	}
	if c.MinBytes <= 0 || c.MaxBytes < c.MinBytes {
		errs = append(errs, fmt.Errorf("consumer byte limits must satisfy 0 < min <= max, got %d..%d", c.MinBytes, c.MaxBytes))
	}
	for name, d := range map[string]time.Duration{
		"max wait":           c.MaxWait,
		"commit interval":    c.CommitInterval,
		"heartbeat interval": c.HeartbeatInterval,
		"session timeout":    c.SessionTimeout,
		"rebalance timeout":  c.RebalanceTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("consumer %s must be positive, got %s", name, d))
		}
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("consumer max retries cannot be negative, got %d", c.MaxRetries))
	}
	if c.RetryBackoff < 0 {
		errs = append(errs, fmt.Errorf("consumer retry backoff cannot be negative, got %s", c.RetryBackoff))
	}

	return errors.Join(errs...)
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Info("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"client_id", cfg.ClientID,
		"enable_middleware", cfg.EnableMiddleware,
		"producer_required_acks", cfg.Producer.RequiredAcks,
		"producer_compression", cfg.Producer.Compression,
		"producer_max_attempts", cfg.Producer.MaxAttempts,
		"producer_async", cfg.Producer.Async,
		"consumer_start_offset", cfg.Consumer.StartOffset,
		"consumer_max_wait", cfg.Consumer.MaxWait,
		"consumer_max_retries", cfg.Consumer.MaxRetries,
		"consumer_retry_backoff", cfg.Consumer.RetryBackoff,
	)
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvNum(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
