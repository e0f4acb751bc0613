package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"debate-server/pkg/retry"
)

// ErrUnavailable сигнализирует о недоступности базы данных.
// Обработчики транслируют эту ошибку в 503.
var ErrUnavailable = errors.New("база данных недоступна")

// Config содержит настройки подключения к MongoDB
type Config struct {
	URI                    string
	Database               string
	MaxPoolSize            uint64
	MinPoolSize            uint64
	ConnectTimeout         time.Duration
	SocketTimeout          time.Duration
	ServerSelectionTimeout time.Duration
	ConnectRetry           retry.Policy
}

// Manager владеет единственным подключением к MongoDB на процесс.
// Подключение создается лениво при первом обращении; конкурентные ранние
// вызовы ждут одну и ту же попытку, а не открывают дубликаты.
type Manager struct {
	cfg Config

	mu     sync.Mutex
	client *mongo.Client
}

// NewManager создает менеджер подключения. Само подключение не открывается
// до первого вызова Database.
func NewManager(cfg Config) *Manager {
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = 10
	}
	if cfg.MinPoolSize == 0 {
		cfg.MinPoolSize = 1
	}
	if cfg.ConnectRetry.MaxAttempts == 0 {
		cfg.ConnectRetry = retry.Policy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Multiplier: 2}
	}
	return &Manager{cfg: cfg}
}

// Database возвращает разделяемый дескриптор базы данных.
// При ошибке подключения кеш очищается, чтобы следующий вызов
// попробовал подключиться заново.
func (m *Manager) Database(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client.Database(m.cfg.Database), nil
	}

	var client *mongo.Client
	err := m.cfg.ConnectRetry.Do(ctx, func(ctx context.Context) error {
		c, err := m.dial(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("mongodb connection attempt failed")
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	m.client = client
	log.Info().Str("database", m.cfg.Database).Msg("mongodb connection established")
	return m.client.Database(m.cfg.Database), nil
}

// dial открывает и проверяет одно подключение
func (m *Manager) dial(ctx context.Context) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(m.cfg.URI).
		SetMaxPoolSize(m.cfg.MaxPoolSize).
		SetMinPoolSize(m.cfg.MinPoolSize).
		SetConnectTimeout(m.cfg.ConnectTimeout).
		SetSocketTimeout(m.cfg.SocketTimeout).
		SetServerSelectionTimeout(m.cfg.ServerSelectionTimeout)

	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании клиента MongoDB: %w", err)
	}

	// Проверяем, что сервер действительно отвечает
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("не удалось подключиться к MongoDB: %w", err)
	}
	return client, nil
}

// Close закрывает подключение, если оно было открыто
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	if err != nil {
		return fmt.Errorf("ошибка при закрытии подключения к MongoDB: %w", err)
	}
	log.Info().Msg("mongodb connection closed")
	return nil
}
