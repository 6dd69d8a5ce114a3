package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/greenseat-forecast/internal/config"
	"github.com/iwvelando/greenseat-forecast/internal/snapshot"
	"github.com/iwvelando/greenseat-forecast/pkg/constants"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	MaxBodySize    string               `yaml:"maxBodySize"`
	Logging        config.LoggingConfig `yaml:"logging"`
	AllowedOrigins []string             `yaml:"allowedOrigins"`
	Storage        StorageConfig        `yaml:"storage"`
	bodySizeBytes  int64
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	Backend       string `yaml:"backend"` // memory, redis
	RedisAddress  string `yaml:"redisAddress"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	TTL           string `yaml:"ttl"` // e.g. 720h; 0 keeps snapshots forever
	ttl           time.Duration
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:       constants.DefaultServerAddress,
		MaxBodySize:   fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
		Logging:       config.LoggingConfig{},
		bodySizeBytes: constants.DefaultMaxBodySizeBytes,
		Storage: StorageConfig{
			Backend: constants.StorageBackendMemory,
			ttl:     constants.DefaultSnapshotTTL,
		},
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the configured request body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = fmt.Sprintf("%d", size)
	}
}

// SnapshotTTL returns how long snapshots are kept.
func (s StorageConfig) SnapshotTTL() time.Duration {
	return s.ttl
}

// ApplyEnv applies environment overrides. A Redis address in the environment
// switches the backend to redis.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if addr := strings.TrimSpace(getenv(constants.RedisAddressEnv)); addr != "" {
		c.Storage.RedisAddress = addr
		c.Storage.Backend = constants.StorageBackendRedis
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	if err := c.Storage.normalize(); err != nil {
		return err
	}

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		c.MaxBodySize = fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = bytes
	return nil
}

func (s *StorageConfig) normalize() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case "":
		s.Backend = constants.StorageBackendMemory
	case constants.StorageBackendMemory, constants.StorageBackendRedis:
	default:
		return fmt.Errorf("unsupported storage backend %q", s.Backend)
	}

	ttlStr := strings.TrimSpace(s.TTL)
	if ttlStr == "" {
		s.ttl = constants.DefaultSnapshotTTL
		return nil
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return fmt.Errorf("invalid storage ttl %q: %w", s.TTL, err)
	}
	if ttl < 0 {
		return fmt.Errorf("storage ttl must not be negative, got %s", s.TTL)
	}
	s.ttl = ttl
	return nil
}

// OpenStore opens the configured snapshot backend. The returned close
// function releases it.
func OpenStore(ctx context.Context, logger *zap.Logger, s StorageConfig) (snapshot.Store, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch s.Backend {
	case constants.StorageBackendRedis:
		addr := s.RedisAddress
		if addr == "" {
			addr = constants.DefaultRedisAddress
		}
		store := snapshot.NewRedisStore(snapshot.RedisOptions{
			Address:  addr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
		})
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		logger.Info("using redis snapshot store",
			zap.String("op", "server.OpenStore"),
			zap.String("address", addr),
		)
		return store, store.Close, nil
	case constants.StorageBackendMemory, "":
		logger.Info("using in-memory snapshot store",
			zap.String("op", "server.OpenStore"),
		)
		return snapshot.NewMemoryStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", s.Backend)
	}
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
