package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/financehub/financehub-web/config"
)

const redisPingTimeout = 5 * time.Second

// RedisConnectConfig contains configuration for the Redis connection that
// backs sessions and the cached shell user.
type RedisConnectConfig struct {
	Redis  config.RedisConfig
	Logger *slog.Logger
}

// ConnectRedis opens a client for the configured topology and pings it.
//
//nolint:ireturn // callers get a single, sentinel, or cluster client depending on config.
func ConnectRedis(ctx context.Context, cfg RedisConnectConfig) (redis.UniversalClient, error) {
	target, err := resolveRedisTarget(cfg.Redis)
	if err != nil {
		return nil, err
	}
	client := target.newClient(cfg.Redis)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis %s: %w", target, pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis connected", "topology", target.topology, "addr", target.String())
	}
	return client, nil
}

type redisTopology string

const (
	topologyDirect   redisTopology = "direct"
	topologySentinel redisTopology = "sentinel"
	topologyCluster  redisTopology = "cluster"
)

// redisTarget is the resolved endpoint set and credentials. It never carries
// the raw URI so it is safe to log.
type redisTarget struct {
	topology redisTopology
	addrs    []string
	username string
	password string
	db       int
	tls      *tls.Config

	masterName       string
	sentinelPassword string
}

func (t redisTarget) String() string {
	switch t.topology {
	case topologySentinel:
		return "sentinel:" + t.masterName
	case topologyCluster:
		return "cluster:" + strings.Join(t.addrs, ",")
	default:
		return strings.Join(t.addrs, ",")
	}
}

func resolveRedisTarget(cfg config.RedisConfig) (redisTarget, error) {
	switch {
	case cfg.UseCluster:
		return clusterTarget(cfg)
	case cfg.UseSentinel:
		return sentinelTarget(cfg)
	default:
		return directTarget(cfg)
	}
}

func clusterTarget(cfg config.RedisConfig) (redisTarget, error) {
	t := redisTarget{topology: topologyCluster, addrs: normalizeAddrs(cfg.ClusterNodes), password: cfg.Password}
	if len(t.addrs) > 0 {
		return t, nil
	}

	// No node list: seed discovery from the single URI.
	seed, err := targetFromURI(cfg.URI, cfg.Password)
	if err != nil {
		return redisTarget{}, fmt.Errorf("parse redis cluster url: %w", err)
	}
	if len(seed.addrs) == 0 {
		return redisTarget{}, errors.New("redis cluster configuration requires at least one address")
	}
	seed.topology = topologyCluster
	seed.db = 0
	return seed, nil
}

func sentinelTarget(cfg config.RedisConfig) (redisTarget, error) {
	nodes := normalizeAddrs(cfg.Sentinel.Nodes)
	if len(nodes) == 0 {
		return redisTarget{}, errors.New("redis sentinel configuration requires at least one sentinel node")
	}
	return redisTarget{
		topology:         topologySentinel,
		addrs:            nodes,
		password:         cfg.Password,
		db:               cfg.DB,
		masterName:       cfg.Sentinel.MasterName,
		sentinelPassword: cfg.Sentinel.Password,
	}, nil
}

func directTarget(cfg config.RedisConfig) (redisTarget, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return redisTarget{}, errors.New("redis direct configuration requires a URI")
	}
	t, err := targetFromURI(cfg.URI, cfg.Password)
	if err != nil {
		return redisTarget{}, fmt.Errorf("parse redis url: %w", err)
	}
	if !isRedisURL(strings.TrimSpace(cfg.URI)) {
		t.db = cfg.DB
	}
	return t, nil
}

// targetFromURI accepts host:port or a redis URL. URL credentials override
// defaultPassword; an empty URI yields no addresses.
func targetFromURI(uri, defaultPassword string) (redisTarget, error) {
	t := redisTarget{topology: topologyDirect, password: defaultPassword}
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return t, nil
	}
	if !isRedisURL(uri) {
		t.addrs = []string{uri}
		return t, nil
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		return redisTarget{}, err
	}
	t.addrs = []string{opt.Addr}
	t.username = opt.Username
	if opt.Password != "" {
		t.password = opt.Password
	}
	t.db = opt.DB
	t.tls = opt.TLSConfig
	return t, nil
}

//nolint:ireturn // the concrete client type follows the topology.
func (t redisTarget) newClient(cfg config.RedisConfig) redis.UniversalClient {
	switch t.topology {
	case topologyCluster:
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:       t.addrs,
			Username:    t.username,
			Password:    t.password,
			TLSConfig:   t.tls,
			PoolSize:    cfg.PoolSize,
			DialTimeout: cfg.DialTimeout,
		})
	case topologySentinel:
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       t.masterName,
			SentinelAddrs:    t.addrs,
			SentinelPassword: t.sentinelPassword,
			Password:         t.password,
			DB:               t.db,
			PoolSize:         cfg.PoolSize,
			DialTimeout:      cfg.DialTimeout,
		})
	default:
		return redis.NewClient(&redis.Options{
			Addr:        t.addrs[0],
			Username:    t.username,
			Password:    t.password,
			DB:          t.db,
			TLSConfig:   t.tls,
			PoolSize:    cfg.PoolSize,
			DialTimeout: cfg.DialTimeout,
		})
	}
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}
