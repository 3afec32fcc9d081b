package configs

// Config holds all configuration for the application.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Log         LogConfig         `mapstructure:"log" validate:"required"`
	FileStorage FileStorageConfig `mapstructure:"file_storage" validate:"required"`
	Realtime    RealtimeConfig    `mapstructure:"realtime" validate:"required"`
	Health      HealthConfig      `mapstructure:"health" validate:"required"`
	Rollup      RollupConfig      `mapstructure:"rollup" validate:"required"`
	Redis       RedisConfig       `mapstructure:"redis"`
	ClickHouse  ClickHouseConfig  `mapstructure:"clickhouse"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// FileStorageConfig holds the root directory for durable rollup records.
type FileStorageConfig struct {
	RootDir string `mapstructure:"root_dir" validate:"required"`
}

// RealtimeConfig tunes the in-memory aggregation pipeline.
type RealtimeConfig struct {
	ActivityTimeoutSeconds   int `mapstructure:"activity_timeout_seconds" validate:"required,min=1"`
	SessionTimeoutSeconds    int `mapstructure:"session_timeout_seconds" validate:"required,min=1"`
	SweepIntervalSeconds     int `mapstructure:"sweep_interval_seconds" validate:"required,min=1"`
	RecentEventsCapacity     int `mapstructure:"recent_events_capacity" validate:"required,min=1"`
	SnapshotCacheMillis      int `mapstructure:"snapshot_cache_millis" validate:"required,min=1"`
	BroadcastIntervalSeconds int `mapstructure:"broadcast_interval_seconds" validate:"required,min=1"`
	CounterHorizonMinutes    int `mapstructure:"counter_horizon_minutes" validate:"required,min=1"`
	TrailingWindowMinutes    int `mapstructure:"trailing_window_minutes" validate:"required,min=1"`
}

// HealthConfig holds the health-score policy thresholds. The defaults in
// configs.yml (1%/5% error rate, 1000/2000 ms response time) are policy
// constants, not derived values.
type HealthConfig struct {
	ErrorRateWarnPercent     float64 `mapstructure:"error_rate_warn_percent" validate:"required"`
	ErrorRateCriticalPercent float64 `mapstructure:"error_rate_critical_percent" validate:"required"`
	SlowResponseMs           float64 `mapstructure:"slow_response_ms" validate:"required"`
	VerySlowResponseMs       float64 `mapstructure:"very_slow_response_ms" validate:"required"`
}

// RollupConfig holds historical rollup scheduling configuration.
type RollupConfig struct {
	Granularities       []string `mapstructure:"granularities" validate:"required,min=1,dive,oneof=minute hour day week month"`
	QueryTimeoutSeconds int      `mapstructure:"query_timeout_seconds" validate:"required,min=1"`
	RetentionDays       int      `mapstructure:"retention_days" validate:"required,min=1"`
}

// RedisConfig holds the optional key-value/pub-sub backing store settings.
// When disabled, the pipeline runs purely in-process.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ClickHouseConfig holds the optional time-series raw-event store settings.
// When disabled, raw events are kept in a bounded in-memory store.
type ClickHouseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Database string `mapstructure:"database" validate:"required_if=Enabled true"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}
