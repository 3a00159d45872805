package main

import (
	"context"

	"roombook/internal/health"
	"roombook/internal/notifications"
	reservationhandler "roombook/internal/reservations/handler"
	reservationrepository "roombook/internal/reservations/repository"
	reservationservice "roombook/internal/reservations/service"
	reservationvalidator "roombook/internal/reservations/validator"
	roomhandler "roombook/internal/rooms/handler"
	roomrepository "roombook/internal/rooms/repository"
	roomservice "roombook/internal/rooms/service"
	roomvalidator "roombook/internal/rooms/validator"
	"roombook/pkg/app"
	"roombook/pkg/config"
	"roombook/pkg/db"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStorage()

	cfg.Log.Info("Starting Reservations service", "storage_backend", cfg.StorageBackend, "notifier", cfg.Notifier)

	ctx := context.Background()
	reservationRepo, roomRepo := initRepositories(ctx, cfg)
	sink := initNotifier(cfg)

	reservationService := reservationservice.NewReservationService(
		reservationRepo,
		reservationvalidator.NewReservationValidator(cfg.Log),
		sink,
		cfg,
	)
	roomService := roomservice.NewRoomService(
		roomRepo,
		reservationRepo,
		roomvalidator.NewRoomValidator(cfg.Log),
		cfg,
	)

	healthHandler := health.NewHealthHandler(map[string]db.Pinger{
		"reservations": reservationRepo,
		"rooms":        roomRepo,
	}, cfg.Log)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, healthHandler,
		reservationhandler.NewReservationHandler(reservationService, cfg.Log),
		roomhandler.NewRoomHandler(roomService, cfg.Log),
	)
	serverApp.OnShutdown("notifications", sink.Close)
	serverApp.Run()
}

func initRepositories(ctx context.Context, cfg *config.Config) (reservationrepository.ReservationRepository, roomrepository.RoomRepository) {
	reservationPersister, err := cfg.ReservationPersister()
	if err != nil {
		cfg.Log.Fatal("Failed to configure reservation storage", "error", err)
	}
	reservationRepo, err := reservationrepository.NewReservationRepository(ctx, reservationPersister, cfg.Log.Component("reservation-store"))
	if err != nil {
		cfg.Log.Fatal("Failed to load reservations", "error", err)
	}

	roomPersister, err := cfg.RoomPersister()
	if err != nil {
		cfg.Log.Fatal("Failed to configure room storage", "error", err)
	}
	roomRepo, err := roomrepository.NewRoomRepository(ctx, roomPersister, cfg.Log.Component("room-store"))
	if err != nil {
		cfg.Log.Fatal("Failed to load rooms", "error", err)
	}

	return reservationRepo, roomRepo
}

// initNotifier picks the delivery channel and always wraps it so requests
// never wait on notifications.
func initNotifier(cfg *config.Config) *notifications.AsyncSink {
	var next notifications.Sink
	switch cfg.Notifier {
	case config.NotifierKafka:
		cfg.SetKafkaProducer()
		next = notifications.NewKafkaSink(cfg.Client.Kafka, ServiceName)
		cfg.Log.Info("Publishing reservation events to Kafka", "topic", cfg.Client.Kafka.Topic())
	default:
		next = notifications.NewLogSink(cfg.Log)
	}
	return notifications.NewAsyncSink(next, cfg.NotificationTimeout, cfg.Log)
}
