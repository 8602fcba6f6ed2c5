package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"vendortrack/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long cached entities live between writes.
const DefaultTTL = 5 * time.Minute

type CacheService interface {
	// Vendor caching
	GetVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
	SetVendor(ctx context.Context, vendor *models.Vendor, ttl time.Duration) error
	DeleteVendor(ctx context.Context, vendorID uuid.UUID) error

	// Service caching
	GetService(ctx context.Context, serviceID uuid.UUID) (*models.Service, error)
	SetService(ctx context.Context, service *models.Service, ttl time.Duration) error
	DeleteService(ctx context.Context, serviceID uuid.UUID) error

	// Dashboard caching, keyed by calendar day so a cached snapshot never
	// leaks across a date boundary
	GetDashboard(ctx context.Context, day time.Time) (*models.DashboardStats, error)
	SetDashboard(ctx context.Context, day time.Time, stats *models.DashboardStats, ttl time.Duration) error
	InvalidateDashboard(ctx context.Context) error

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	key := fmt.Sprintf("vendortrack:vendor:%s", vendorID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var vendor models.Vendor
	if err := json.Unmarshal(data, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *redisCacheService) SetVendor(ctx context.Context, vendor *models.Vendor, ttl time.Duration) error {
	key := fmt.Sprintf("vendortrack:vendor:%s", vendor.ID.String())
	data, err := json.Marshal(vendor)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteVendor(ctx context.Context, vendorID uuid.UUID) error {
	key := fmt.Sprintf("vendortrack:vendor:%s", vendorID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetService(ctx context.Context, serviceID uuid.UUID) (*models.Service, error) {
	key := fmt.Sprintf("vendortrack:service:%s", serviceID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var service models.Service
	if err := json.Unmarshal(data, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *redisCacheService) SetService(ctx context.Context, service *models.Service, ttl time.Duration) error {
	key := fmt.Sprintf("vendortrack:service:%s", service.ID.String())
	data, err := json.Marshal(service)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteService(ctx context.Context, serviceID uuid.UUID) error {
	key := fmt.Sprintf("vendortrack:service:%s", serviceID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetDashboard(ctx context.Context, day time.Time) (*models.DashboardStats, error) {
	data, err := r.client.Get(ctx, dashboardKey(day)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var stats models.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *redisCacheService) SetDashboard(ctx context.Context, day time.Time, stats *models.DashboardStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, dashboardKey(day), data, ttl).Err()
}

func (r *redisCacheService) InvalidateDashboard(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "vendortrack:dashboard:*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func dashboardKey(day time.Time) string {
	return fmt.Sprintf("vendortrack:dashboard:%s", models.DateOf(day).Format("2006-01-02"))
}
