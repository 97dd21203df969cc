package config

import "time"

// RedisConfig selects the Redis deployment holding sessions and cached users.
// URI may be host:port or a redis:// / rediss:// URL. UseCluster wins over
// UseSentinel when both are set.
type RedisConfig struct {
	URI      string `env:"URI" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`

	UseSentinel bool           `env:"USE_SENTINEL" envDefault:"false"`
	Sentinel    SentinelConfig `envPrefix:"SENTINEL_"`

	UseCluster   bool     `env:"USE_CLUSTER" envDefault:"false"`
	ClusterNodes []string `env:"CLUSTER_NODES" envDefault:""`

	// PoolSize of 0 keeps the go-redis default (10 per CPU).
	PoolSize    int           `env:"POOL_SIZE" envDefault:"0"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
}

// SentinelConfig addresses a Sentinel-managed primary.
type SentinelConfig struct {
	Nodes      []string `env:"NODES" envDefault:"localhost:26379"`
	MasterName string   `env:"MASTER_NAME" envDefault:"mymaster"`
	Password   string   `env:"PASSWORD" envDefault:""`
}
