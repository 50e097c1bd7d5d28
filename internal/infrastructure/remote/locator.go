package remote

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrServiceNotLocated is returned when no instance of a service is known
var ErrServiceNotLocated = errors.New("remote: service not located")

// Locator maps a logical service name to the base URL of one of its instances.
// It is consulted on every lookup.
type Locator interface {
	Locate(ctx context.Context, service string) (string, error)
}

// StaticLocator serves base URLs from configuration
type StaticLocator struct {
	services map[string]string
}

// NewStaticLocator copies services, a map of service name to base URL
func NewStaticLocator(services map[string]string) *StaticLocator {
	m := make(map[string]string, len(services))
	for name, base := range services {
		m[strings.ToLower(name)] = strings.TrimRight(base, "/")
	}
	return &StaticLocator{services: m}
}

// Locate returns the configured base URL of service
func (l *StaticLocator) Locate(ctx context.Context, service string) (string, error) {
	base, ok := l.services[strings.ToLower(service)]
	if !ok || base == "" {
		return "", fmt.Errorf("%w: %s has no configured address", ErrServiceNotLocated, service)
	}
	return base, nil
}

// DiscoveryKeyPrefix prefixes the sorted set holding the live instances of a service
const DiscoveryKeyPrefix = "discovery:services:"

// DiscoveryKey returns the sorted set key of service
func DiscoveryKey(service string) string {
	return DiscoveryKeyPrefix + strings.ToLower(service)
}

// zsetReader is the subset of the redis client used by RedisLocator
type zsetReader interface {
	ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd
}

// RedisLocator reads live instances from redis. Members are base URLs; the
// score is the instance's expiry in unix milliseconds. Instances whose expiry
// has passed are ignored. Live instances are used round-robin.
type RedisLocator struct {
	client zsetReader
	next   atomic.Uint64
	now    func() time.Time
}

// NewRedisLocator creates a locator backed by client
func NewRedisLocator(client redis.UniversalClient) *RedisLocator {
	return newRedisLocator(client)
}

func newRedisLocator(client zsetReader) *RedisLocator {
	return &RedisLocator{client: client, now: time.Now}
}

// Locate returns the base URL of a live instance of service
func (l *RedisLocator) Locate(ctx context.Context, service string) (string, error) {
	members, err := l.client.ZRangeByScore(ctx, DiscoveryKey(service), &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(l.now().UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", service, err)
	}
	if len(members) == 0 {
		return "", fmt.Errorf("%w: no live instance of %s", ErrServiceNotLocated, service)
	}
	i := l.next.Add(1) - 1
	return strings.TrimRight(members[i%uint64(len(members))], "/"), nil
}

// ChainLocator asks each locator in turn and returns the first address found
type ChainLocator struct {
	locators []Locator
	logger   *zap.Logger
}

// NewChainLocator creates a locator that falls through locators in order
func NewChainLocator(logger *zap.Logger, locators ...Locator) *ChainLocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainLocator{locators: locators, logger: logger}
}

// Locate returns the first address any locator yields
func (c *ChainLocator) Locate(ctx context.Context, service string) (string, error) {
	var errs []error
	for _, l := range c.locators {
		base, err := l.Locate(ctx, service)
		if err == nil {
			return base, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		c.logger.Debug("locator miss, trying next",
			zap.String("service", service),
			zap.Error(err),
		)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrServiceNotLocated, service)
	}
	return "", errors.Join(errs...)
}
