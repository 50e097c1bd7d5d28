package remote

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// zsetWriter is the subset of the redis client used by Registrar
type zsetWriter interface {
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	ZRemRangeByScore(ctx context.Context, key, min, max string) *redis.IntCmd
}

// RegistrarConfig holds registration settings
type RegistrarConfig struct {
	Service      string
	AdvertiseURL string
	TTL          time.Duration
	Heartbeat    time.Duration
}

// Registrar announces this instance in the discovery sorted set of its
// service until Stop is called.
type Registrar struct {
	client zsetWriter
	cfg    RegistrarConfig
	logger *zap.Logger
	now    func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRegistrar creates a registrar. TTL defaults to 30s and Heartbeat to a
// third of TTL.
func NewRegistrar(client redis.UniversalClient, cfg RegistrarConfig, logger *zap.Logger) (*Registrar, error) {
	return newRegistrar(client, cfg, logger)
}

func newRegistrar(client zsetWriter, cfg RegistrarConfig, logger *zap.Logger) (*Registrar, error) {
	if cfg.Service == "" || cfg.AdvertiseURL == "" {
		return nil, errors.New("remote: registrar requires a service name and an advertise url")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.Heartbeat <= 0 || cfg.Heartbeat >= cfg.TTL {
		cfg.Heartbeat = cfg.TTL / 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registrar{
		client:   client,
		cfg:      cfg,
		logger:   logger.With(zap.String("service", cfg.Service)),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}, nil
}

// Register announces the instance once and keeps re-announcing it every
// heartbeat in the background.
func (r *Registrar) Register(ctx context.Context) error {
	if err := r.beat(ctx); err != nil {
		return err
	}
	r.wg.Add(1)
	go r.loop()
	r.logger.Info("Registered in service discovery",
		zap.String("advertise_url", r.cfg.AdvertiseURL),
		zap.Duration("ttl", r.cfg.TTL),
	)
	return nil
}

func (r *Registrar) loop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.Heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Heartbeat)
			if err := r.beat(ctx); err != nil {
				r.logger.Warn("Discovery heartbeat failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// beat refreshes this instance's expiry and prunes expired instances
func (r *Registrar) beat(ctx context.Context) error {
	key := DiscoveryKey(r.cfg.Service)
	now := r.now()
	expiry := now.Add(r.cfg.TTL).UnixMilli()
	if err := r.client.ZAdd(ctx, key, redis.Z{Score: float64(expiry), Member: r.cfg.AdvertiseURL}).Err(); err != nil {
		return err
	}
	return r.client.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now.UnixMilli(), 10)).Err()
}

// Stop ends the heartbeat and withdraws the instance
func (r *Registrar) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
	r.wg.Wait()
	return r.client.ZRem(ctx, DiscoveryKey(r.cfg.Service), r.cfg.AdvertiseURL).Err()
}
