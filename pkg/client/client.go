package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"roombook/pkg/db/sqlite"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client holds the shared connections a service opens at startup.
type Client struct {
	Mongo  *mongo.Client
	SQLite *sql.DB
	Kafka  *kafka.Producer
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

func (c *Client) SetSQLite(log *logger.Logger, dsn string, connTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	conn, err := sqlite.Open(ctx, dsn)
	if err != nil {
		log.Fatal("Failed to open SQLite database", "error", err, "dsn", dsn)
	}

	log.Info("Successfully opened SQLite database", "dsn", dsn)
	c.SQLite = conn
}

func (c *Client) SetKafka(producer *kafka.Producer) {
	c.Kafka = producer
}

// GracefulShutdown closes every connection that was opened.
func (c *Client) GracefulShutdown(ctx context.Context) error {
	var errs []error

	if c.Kafka != nil {
		if err := c.Kafka.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka: %w", err))
		}
	}
	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sqlite: %w", err))
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close clients: %v", errs)
	}
	return nil
}
