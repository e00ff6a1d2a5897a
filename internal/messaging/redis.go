package messaging

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"car-controller/internal/logger"
	"car-controller/internal/scheduler"

	"github.com/redis/go-redis/v9"
)

// Command lists. Clients LPUSH a value, the controller BRPOPs it.
const (
	EngineKey      = "car:engine"
	SideLightKey   = "car:sidelight"
	IndicatorKey   = "car:indicator"
	AcceleratorKey = "car:accelerator"
	BrakeKey       = "car:brake"

	DashboardHash    = "dashboard"
	DashboardChannel = "dashboard"
)

type Callbacks struct {
	EngineCallback      func(bool) error
	SideLightCallback   func(bool) error
	IndicatorCallback   func(left, right bool) error
	AcceleratorCallback func(float64) error
	BrakeCallback       func(float64) error
}

type RedisClient struct {
	client    *redis.Client
	callbacks Callbacks
	logger    *logger.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewRedisClient(host string, port int, l *logger.Logger, callbacks Callbacks) *RedisClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", host, port),
			DB:   0,
		}),
		callbacks: callbacks,
		logger:    l.WithTag("redis"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (r *RedisClient) Connect() error {
	r.logger.Infof("Attempting to connect to Redis at %s", r.client.Options().Addr)

	if err := r.client.Ping(r.ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection failed: %w", err)
	}
	r.logger.Infof("Successfully connected to Redis")
	return nil
}

// StartListening starts one BRPOP listener per command list.
func (r *RedisClient) StartListening() {
	r.logger.Infof("Starting Redis listeners")

	r.wg.Add(5)
	go r.listCommandListener(EngineKey, r.handleEngineCommand)
	go r.listCommandListener(SideLightKey, r.handleSideLightCommand)
	go r.listCommandListener(IndicatorKey, r.handleIndicatorCommand)
	go r.listCommandListener(AcceleratorKey, r.handleAcceleratorCommand)
	go r.listCommandListener(BrakeKey, r.handleBrakeCommand)
}

func (r *RedisClient) listCommandListener(key string, handler func(string) error) {
	defer r.wg.Done()
	r.logger.Debugf("Starting list command listener for %s", key)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debugf("Context cancelled, exiting %s listener", key)
			return
		default:
		}

		// Short timeout so cancellation is noticed between pops.
		result, err := r.client.BRPop(r.ctx, 5*time.Second, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || r.ctx.Err() != nil {
				r.logger.Debugf("Context cancelled, exiting %s listener", key)
				return
			}
			r.logger.Warnf("Error reading from %s list: %v", key, err)
			if scheduler.Sleep(r.ctx, time.Second) != nil {
				return
			}
			continue
		}

		if len(result) >= 2 { // BRPOP returns [key, value]
			value := result[1]
			r.logger.Debugf("Received command from %s: %s", key, value)
			if err := handler(value); err != nil {
				r.logger.Warnf("Error handling %s command: %v", key, err)
			}
		}
	}
}

func (r *RedisClient) handleEngineCommand(value string) error {
	if r.callbacks.EngineCallback == nil {
		return nil
	}
	on, err := parseOnOff(value)
	if err != nil {
		return fmt.Errorf("invalid engine command: %w", err)
	}
	return r.callbacks.EngineCallback(on)
}

func (r *RedisClient) handleSideLightCommand(value string) error {
	if r.callbacks.SideLightCallback == nil {
		return nil
	}
	on, err := parseOnOff(value)
	if err != nil {
		return fmt.Errorf("invalid sidelight command: %w", err)
	}
	return r.callbacks.SideLightCallback(on)
}

func (r *RedisClient) handleIndicatorCommand(value string) error {
	if r.callbacks.IndicatorCallback == nil {
		return nil
	}
	switch value {
	case "off":
		return r.callbacks.IndicatorCallback(false, false)
	case "left":
		return r.callbacks.IndicatorCallback(true, false)
	case "right":
		return r.callbacks.IndicatorCallback(false, true)
	case "both":
		return r.callbacks.IndicatorCallback(true, true)
	default:
		return fmt.Errorf("invalid indicator command: %s", value)
	}
}

func (r *RedisClient) handleAcceleratorCommand(value string) error {
	if r.callbacks.AcceleratorCallback == nil {
		return nil
	}
	v, err := parsePedal(value)
	if err != nil {
		return fmt.Errorf("invalid accelerator command: %w", err)
	}
	return r.callbacks.AcceleratorCallback(v)
}

func (r *RedisClient) handleBrakeCommand(value string) error {
	if r.callbacks.BrakeCallback == nil {
		return nil
	}
	v, err := parsePedal(value)
	if err != nil {
		return fmt.Errorf("invalid brake command: %w", err)
	}
	return r.callbacks.BrakeCallback(v)
}

// SetDashboardLines stores the display content and notifies subscribers.
func (r *RedisClient) SetDashboardLines(lines []string) error {
	values := make(map[string]interface{}, len(lines))
	for i, line := range lines {
		values[fmt.Sprintf("line%d", i)] = line
	}

	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, DashboardHash, values)
	pipe.Publish(r.ctx, DashboardChannel, "lines")
	_, err := pipe.Exec(r.ctx)
	return err
}

func (r *RedisClient) Close() error {
	r.logger.Infof("Closing Redis client")
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Debugf("All Redis goroutines finished")
	case <-time.After(5 * time.Second):
		r.logger.Warnf("Timeout waiting for Redis goroutines to finish")
	}

	return r.client.Close()
}

func parseOnOff(value string) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
}

func parsePedal(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	return v, nil
}
