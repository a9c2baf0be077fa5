package main

import (
	directoryhandler "skyfare/internal/directory/handler"
	directoryrepo "skyfare/internal/directory/repository"
	directoryservice "skyfare/internal/directory/service"
	"skyfare/internal/inventory/handler"
	"skyfare/internal/inventory/repository"
	"skyfare/internal/inventory/service"
	"skyfare/internal/inventory/validator"
	"skyfare/pkg/app"
	"skyfare/pkg/config"
	"skyfare/pkg/kafka"
	kafkaconfig "skyfare/pkg/kafka/config"
)

const ServiceName = "inventory"

func main() {
	cfg := config.Load(ServiceName)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	// Log all configuration values
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Inventory service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	publisher, closeProducer := initPublisher(cfg)
	defer closeProducer()

	inventoryService, directoryService := initServices(cfg, publisher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewInventoryHandler(inventoryService, cfg.Log),
		directoryhandler.NewDirectoryHandler(directoryService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher service.EventPublisher) (service.InventoryService, directoryservice.DirectoryService) {
	inventoryValidator := validator.NewInventoryValidator(cfg.Log)

	directoryRepo := directoryrepo.NewMongoDirectoryRepository(cfg)
	routeRepo := repository.NewMongoRouteRepository(cfg)
	legRepo := repository.NewMongoLegRepository(cfg)
	counterRepo := repository.NewMongoCounterRepository(cfg)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewLegLockRepository(cfg)

	inventoryService := service.NewInventoryService(
		routeRepo,
		legRepo,
		counterRepo,
		reservationRepo,
		bookingRepo,
		lockRepo,
		directoryRepo,
		inventoryValidator,
		publisher,
		cfg,
	)
	directoryService := directoryservice.NewDirectoryService(directoryRepo, cfg)

	cfg.Log.Info("Inventory service initialized", "database", cfg.MongoDatabaseName)
	return inventoryService, directoryService
}

func initPublisher(cfg *config.Config) (service.EventPublisher, func()) {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Event publishing disabled")
		return nil, func() {}
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Event publishing enabled", "topic", cfg.EventsTopic)
	return producer, func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	}
}
