package config

import (
	"fmt"
	"path/filepath"

	"roombook/pkg/db"
	"roombook/pkg/db/file"
	"roombook/pkg/db/mongo"
	"roombook/pkg/db/sqlite"
	"roombook/pkg/model"
)

// ReservationPersister returns the durable snapshot store for reservations
// on the configured backend. SetStorage must have run first.
func (cfg *Config) ReservationPersister() (db.Persister[model.ReservationDocument], error) {
	return newPersister[model.ReservationDocument](cfg, ReservationsSnapshot, cfg.ReservationsFile)
}

func (cfg *Config) RoomPersister() (db.Persister[model.RoomDocument], error) {
	return newPersister[model.RoomDocument](cfg, RoomsSnapshot, cfg.RoomsFile)
}

func newPersister[T any](cfg *Config, name, fileName string) (db.Persister[T], error) {
	switch cfg.StorageBackend {
	case BackendFile:
		return file.NewJSONPersister[T](filepath.Join(cfg.DataDir, fileName)), nil
	case BackendMongo:
		if cfg.Client.Mongo == nil {
			return nil, fmt.Errorf("mongo client is not connected")
		}
		return mongo.NewSnapshotPersister[T](cfg.Client.Mongo, cfg.MongoDatabaseName, name, cfg.ReadTimeout, cfg.WriteTimeout), nil
	case BackendSQLite:
		if cfg.Client.SQLite == nil {
			return nil, fmt.Errorf("sqlite database is not open")
		}
		return sqlite.NewSnapshotPersister[T](cfg.Client.SQLite, name, model.CurrentSchemaVersion), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
