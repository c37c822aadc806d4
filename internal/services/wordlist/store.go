package wordlist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/groupguard-tgbot-go/internal/config"
	"github.com/groupguard-tgbot-go/internal/models"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Store persists the forbidden-word list as a whole document.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, words []string) error
}

// NewStore creates the backend selected by configuration.
func NewStore(cfg *config.Config, logger *logrus.Logger) (Store, error) {
	switch cfg.Storage.Type {
	case "file":
		return NewFileStore(cfg.Storage.File.Path), nil
	case "redis":
		return NewRedisStore(cfg, logger)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}

// FileStore keeps the word list in a single JSON document on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		// Absence is expected on first run
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read word list file: %w", err)
	}

	var doc models.WordListDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode word list file: %w", err)
	}
	return doc.Filter, nil
}

func (s *FileStore) Save(ctx context.Context, words []string) error {
	data, err := json.MarshalIndent(models.WordListDocument{Filter: words}, "", "    ")
	if err != nil {
		return fmt.Errorf("encode word list: %w", err)
	}

	// Write-then-rename so a reader never observes a partial document
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp word list file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write word list file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close word list file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace word list file: %w", err)
	}
	return nil
}

// RedisStore keeps the word list document under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *logrus.Logger
}

func NewRedisStore(cfg *config.Config, logger *logrus.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Storage.Redis.Addr,
		Password: cfg.Storage.Redis.Password,
		DB:       cfg.Storage.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		key:    cfg.Storage.Redis.Key,
		logger: logger,
	}, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]string, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read word list from redis: %w", err)
	}

	var doc models.WordListDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("decode word list from redis: %w", err)
	}
	return doc.Filter, nil
}

func (s *RedisStore) Save(ctx context.Context, words []string) error {
	data, err := json.Marshal(models.WordListDocument{Filter: words})
	if err != nil {
		return fmt.Errorf("encode word list: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write word list to redis: %w", err)
	}
	return nil
}

// MemoryStore keeps the word list in process memory, for tests and dev runs.
type MemoryStore struct {
	cache *cache.Cache
}

const memoryKey = "wordlist"

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

func (s *MemoryStore) Load(ctx context.Context) ([]string, error) {
	if val, found := s.cache.Get(memoryKey); found {
		return val.([]string), nil
	}
	return nil, nil
}

func (s *MemoryStore) Save(ctx context.Context, words []string) error {
	s.cache.Set(memoryKey, words, cache.NoExpiration)
	return nil
}
