package kafka_config

import "time"

const (
	AcksAll    = "all"
	AcksLeader = "leader"
	AcksNone   = "none"

	OffsetOldest = "oldest"
	OffsetNewest = "newest"
)

const (
	DefaultKafkaBrokers     = "localhost:9092"
	DefaultClientID         = "roombook"
	DefaultEnableMiddleware = true

	// Reservation events are small and must not be lost, so every replica acks.
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequiredAcks = AcksAll
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	// A new notifier group replays the topic from the beginning.
	DefaultConsumerStartOffset       = OffsetOldest
	DefaultConsumerMinBytes          = 1
	DefaultConsumerMaxBytes          = 1 << 20
	DefaultConsumerMaxWait           = 500 * time.Millisecond
	DefaultConsumerCommitInterval    = time.Second
	DefaultConsumerHeartbeatInterval = 3 * time.Second
	DefaultConsumerSessionTimeout    = 10 * time.Second
	DefaultConsumerRebalanceTimeout  = 60 * time.Second
	DefaultConsumerMaxRetries        = 3
	DefaultConsumerRetryBackoff      = 200 * time.Millisecond
)
