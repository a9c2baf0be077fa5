package config

import (
	"fmt"
	"os"
	"regexp"
	"skyfare/pkg/client"
	"skyfare/pkg/logger"
	"strconv"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MongoReadTimeout  time.Duration
	MongoWriteTimeout time.Duration

	LegSequenceCeiling int
	ReservationLockTTL time.Duration
	MaxSeatsPerHold    int

	EventsEnabled  bool
	EventsTopic    string
	EventsDLQTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		MongoReadTimeout:  getEnvDuration(EnvMongoReadTimeout, DefaultMongoReadTimeout),
		MongoWriteTimeout: getEnvDuration(EnvMongoWriteTimeout, DefaultMongoWriteTimeout),

		LegSequenceCeiling: getEnvNum(EnvLegSequenceCeiling, DefaultLegSequenceCeiling),
		ReservationLockTTL: getEnvDuration(EnvReservationLockTTL, DefaultReservationLockTTL),
		MaxSeatsPerHold:    getEnvNum(EnvMaxSeatsPerHold, DefaultMaxSeatsPerHold),

		EventsEnabled:  getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		EventsTopic:    getEnvStr(EnvEventsTopic, DefaultEventsTopic),
		EventsDLQTopic: getEnvStr(EnvEventsDLQTopic, DefaultEventsDLQTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
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
	if cfg.MongoReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoReadTimeout must be positive, got: %s", cfg.MongoReadTimeout))
	}
	if cfg.MongoWriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoWriteTimeout must be positive, got: %s", cfg.MongoWriteTimeout))
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.LegSequenceCeiling < 1 || cfg.LegSequenceCeiling > 999 {
		errors = append(errors, fmt.Sprintf("LegSequenceCeiling must be between 1 and 999, got: %d", cfg.LegSequenceCeiling))
	}
	if cfg.ReservationLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("ReservationLockTTL must be positive, got: %s", cfg.ReservationLockTTL))
	}
	if cfg.MaxSeatsPerHold < 1 || cfg.MaxSeatsPerHold > 9 {
		errors = append(errors, fmt.Sprintf("MaxSeatsPerHold must be between 1 and 9, got: %d", cfg.MaxSeatsPerHold))
	}

	if cfg.EventsEnabled && cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty when events are enabled")
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
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"mongo_read_timeout", cfg.MongoReadTimeout,
		"mongo_write_timeout", cfg.MongoWriteTimeout,
		"leg_sequence_ceiling", cfg.LegSequenceCeiling,
		"reservation_lock_ttl", cfg.ReservationLockTTL,
		"max_seats_per_hold", cfg.MaxSeatsPerHold,
		"events_enabled", cfg.EventsEnabled,
		"events_topic", cfg.EventsTopic,
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

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
