package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "skyfare"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMongoReadTimeout  = 5 * time.Second
	DefaultMongoWriteTimeout = 5 * time.Second

	// Leg sequence numbers are three digits on the wire; the counter wraps
	// back to 1 after the ceiling.
	DefaultLegSequenceCeiling = 999

	DefaultReservationLockTTL = 10 * time.Second
	DefaultMaxSeatsPerHold    = 9

	DefaultEventsEnabled  = false
	DefaultEventsTopic    = "skyfare.inventory"
	DefaultEventsDLQTopic = ""
)
