package redis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"backwater-server/db"
	"backwater-server/log"
)

// Report kinds, each with its own key namespace. Bump the version suffix
// whenever the stored payload shape changes.
const (
	TREND_KEY_PREFIX     = "trend_v1"
	COMPOSITE_KEY_PREFIX = "composite_v1"
	LAYERS_KEY_PREFIX    = "layers_v1"
)

const REPORT_KEY_FORMAT = "%s:%s"

// ReportKinds lists every namespace cleared by DeleteAll.
var ReportKinds = []string{TREND_KEY_PREFIX, COMPOSITE_KEY_PREFIX, LAYERS_KEY_PREFIX}

// RedisReportDAO stores computed reports as msgpack snapshots.
type RedisReportDAO struct {
	client db.RedisClient
}

// NewRedisReportDAO initializes a RedisReportDAO with the Redis client.
func NewRedisReportDAO(client db.RedisClient) *RedisReportDAO {
	return &RedisReportDAO{client: client}
}

// ReportKey builds the storage key of a report.
func ReportKey(kind, hash string) string {
	return fmt.Sprintf(REPORT_KEY_FORMAT, kind, hash)
}

// KindOf returns the namespace part of a report key.
func KindOf(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}

// SetReport stores v under key. A zero ttl keeps it until DeleteAll.
func (dao *RedisReportDAO) SetReport(key string, v interface{}, ttl time.Duration) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal report %s: %w", key, err)
	}
	if err := dao.client.Set(key, string(data), ttl); err != nil {
		return fmt.Errorf("failed to set report in redis: %w", err)
	}
	return nil
}

// msgpack decodes timestamps in the local zone; reports holding times
// implement utcNormalizer so a cache hit matches a fresh computation.
type utcNormalizer interface {
	InUTC()
}

// GetReport decodes the report stored under key into out. found is false
// when the key is absent or expired.
func (dao *RedisReportDAO) GetReport(key string, out interface{}) (found bool, err error) {
	str, err := dao.client.Get(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get report from redis: %w", err)
	}
	if err := msgpack.Unmarshal([]byte(str), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal report %s: %w", key, err)
	}
	if n, ok := out.(utcNormalizer); ok {
		n.InUTC()
	}
	return true, nil
}

// ListReportKeys returns the stored keys of one report kind.
func (dao *RedisReportDAO) ListReportKeys(kind string) ([]string, error) {
	keys, err := dao.client.Keys(ReportKey(kind, "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s keys: %w", kind, err)
	}
	return keys, nil
}

// DeleteAll drops every stored report of every kind and returns how many were removed.
func (dao *RedisReportDAO) DeleteAll() (int, error) {
	deleted := 0
	for _, kind := range ReportKinds {
		keys, err := dao.ListReportKeys(kind)
		if err != nil {
			return deleted, err
		}
		if len(keys) == 0 {
			continue
		}
		if err := dao.client.Del(keys...); err != nil {
			return deleted, fmt.Errorf("failed to delete %s keys: %w", kind, err)
		}
		deleted += len(keys)
	}
	log.Infof("[RedisReportDAO] Deleted %d cached reports", deleted)
	return deleted, nil
}
