package main

import (
	bookingshandler "roomly/internal/bookings/handler"
	bookingsrepo "roomly/internal/bookings/repository"
	bookingssvc "roomly/internal/bookings/service"
	bookingsvalidator "roomly/internal/bookings/validator"
	roomshandler "roomly/internal/rooms/handler"
	roomsrepo "roomly/internal/rooms/repository"
	roomssvc "roomly/internal/rooms/service"
	roomsvalidator "roomly/internal/rooms/validator"
	"roomly/pkg/app"
	"roomly/pkg/audit"
	"roomly/pkg/cache"
	"roomly/pkg/config"
	"roomly/pkg/kafka"
	kafka_config "roomly/pkg/kafka/config"
)

const ServiceName = "roomly"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Roomly server")

	recorder := initAuditRecorder(cfg)
	roomService, bookingService := initServices(cfg, recorder)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		roomshandler.NewHealthHandler(cfg.Client.Mongo.Client, cfg.Client.Redis, cfg.Log),
		roomshandler.NewRoomHandler(roomService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

// initAuditRecorder wires the kafka-backed recorder. A missing broker
// degrades to a no-op: auditing never decides whether the service runs.
func initAuditRecorder(cfg *config.Config) audit.Recorder {
	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, audit.TopicEvents)
	if err != nil {
		cfg.Log.Warn("Audit producer unavailable, events will be dropped", "error", err)
		return audit.NopRecorder{}
	}

	return audit.NewKafkaRecorder(producer, ServiceName, cfg.Log)
}

func initServices(cfg *config.Config, recorder audit.Recorder) (roomssvc.RoomService, bookingssvc.BookingService) {
	responseCache := cache.NewRedisCache(cfg.Client.Redis, cfg.Log)

	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewRoomLockRepository(cfg)

	roomService := roomssvc.NewRoomService(
		cfg,
		roomRepo,
		bookingRepo,
		roomsvalidator.NewRoomValidator(cfg.Log),
		responseCache,
		recorder,
	)

	bookingService := bookingssvc.NewBookingService(
		cfg,
		bookingRepo,
		lockRepo,
		roomRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		responseCache,
		recorder,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return roomService, bookingService
}
