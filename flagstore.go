package bulkbench

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

// DefaultFlagFileName 默认哨兵文件名，删除该文件可在下次启动时强制重建数据集
const DefaultFlagFileName = "data-generated.delete-me-to-regenerate"

// FlagStore 数据集完成标记存储
// 标记存在与否本身就是信号，内容无意义；标记位于事务性存储之外，
// 可注入实现以便在没有真实文件系统或 Redis 的情况下测试
type FlagStore interface {
	// Exists 标记是否存在
	Exists(ctx context.Context) (bool, error)

	// Create 写入标记
	Create(ctx context.Context) error

	// Remove 删除标记
	Remove(ctx context.Context) error
}

var _ FlagStore = (*FileFlagStore)(nil)
var _ FlagStore = (*RedisFlagStore)(nil)

// FileFlagStore 基于哨兵文件的标记存储（单实例部署的默认实现）
type FileFlagStore struct {
	path string
}

// NewFileFlagStore 创建文件标记存储，path 为空时使用默认文件名
func NewFileFlagStore(path string) *FileFlagStore {
	if path == "" {
		path = DefaultFlagFileName
	}
	return &FileFlagStore{path: path}
}

func (s *FileFlagStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat flag file %s: %w", s.path, err)
}

func (s *FileFlagStore) Create(_ context.Context) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create flag file %s: %w", s.path, err)
	}
	return f.Close()
}

func (s *FileFlagStore) Remove(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove flag file %s: %w", s.path, err)
	}
	return nil
}

// Path 哨兵文件路径
func (s *FileFlagStore) Path() string {
	return s.path
}

// RedisFlagStore 基于 Redis 键的标记存储（多实例部署共享同一份标记）
type RedisFlagStore struct {
	client *redis.Client
	key    string
}

// NewRedisFlagStore 创建 Redis 标记存储，key 为空时使用默认哨兵文件名作为键名
func NewRedisFlagStore(client *redis.Client, key string) *RedisFlagStore {
	if key == "" {
		key = DefaultFlagFileName
	}
	return &RedisFlagStore{client: client, key: key}
}

func (s *RedisFlagStore) Exists(ctx context.Context) (bool, error) {
	n, err := s.client.Exists(ctx, s.key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check flag key %s: %w", s.key, err)
	}
	return n > 0, nil
}

func (s *RedisFlagStore) Create(ctx context.Context) error {
	if err := s.client.Set(ctx, s.key, "1", 0).Err(); err != nil {
		return fmt.Errorf("failed to set flag key %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisFlagStore) Remove(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete flag key %s: %w", s.key, err)
	}
	return nil
}
