package config

import "time"

const (
	BackendFile   = "file"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"

	NotifierLog   = "log"
	NotifierKafka = "kafka"
)

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultStorageBackend   = BackendFile
	DefaultDataDir          = "data"
	DefaultReservationsFile = "reservations.json"
	DefaultRoomsFile        = "rooms.json"
	DefaultSQLiteDSN        = "data/roombook.db"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roombook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultNotifier              = NotifierLog
	DefaultKafkaReservationTopic = "reservation-events"
	DefaultKafkaNotifierGroupID  = "roombook-notifier"
	DefaultKafkaDLQTopic         = "reservation-events-dlq"
	DefaultNotificationTimeout   = 5 * time.Second

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Snapshot names shared by every storage backend.
const (
	ReservationsSnapshot = "reservations"
	RoomsSnapshot        = "rooms"
)
