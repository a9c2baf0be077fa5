package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvMongoReadTimeout  = "MONGO_READ_TIMEOUT"
	EnvMongoWriteTimeout = "MONGO_WRITE_TIMEOUT"

	EnvLegSequenceCeiling = "LEG_SEQUENCE_CEILING"
	EnvReservationLockTTL = "RESERVATION_LOCK_TTL"
	EnvMaxSeatsPerHold    = "MAX_SEATS_PER_HOLD"

	EnvEventsEnabled  = "EVENTS_ENABLED"
	EnvEventsTopic    = "EVENTS_TOPIC"
	EnvEventsDLQTopic = "EVENTS_DLQ_TOPIC"
)
