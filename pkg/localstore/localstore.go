// Package localstore реализует локальное файловое хранилище сценариев.
// Аналог локального хранилища браузера: весь набор сценариев лежит
// в одном JSON-файле, метки времени сериализуются в ISO-формате.
// Сетевых операций нет, поэтому нет ни таймаутов, ни повторов.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"debate-server/internal/model"
)

// ErrNotFound — сценарий с указанным идентификатором отсутствует в файле
var ErrNotFound = errors.New("сценарий не найден в локальном хранилище")

// Store хранит сценарии в одном JSON-файле
type Store struct {
	path string
	mu   sync.Mutex
}

// New создает локальное хранилище поверх указанного файла.
// Файл создается при первой записи.
func New(path string) *Store {
	return &Store{path: path}
}

// load читает весь массив сценариев из файла.
// Отсутствующий файл равнозначен пустому хранилищу.
func (s *Store) load() ([]model.Scenario, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Scenario{}, nil
		}
		return nil, fmt.Errorf("ошибка при чтении локального хранилища: %w", err)
	}
	if len(data) == 0 {
		return []model.Scenario{}, nil
	}

	var scenarios []model.Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("ошибка при разборе локального хранилища: %w", err)
	}
	return scenarios, nil
}

// save записывает весь массив сценариев атомарно, через временный файл
func (s *Store) save(scenarios []model.Scenario) error {
	data, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка при сериализации локального хранилища: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ошибка при создании директории хранилища: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("ошибка при записи локального хранилища: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("ошибка при замене файла хранилища: %w", err)
	}
	return nil
}

// List возвращает все сценарии из локального файла
func (s *Store) List(ctx context.Context) ([]model.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get возвращает сценарий по идентификатору
func (s *Store) Get(ctx context.Context, id string) (model.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenarios, err := s.load()
	if err != nil {
		return model.Scenario{}, err
	}
	for _, sc := range scenarios {
		if sc.ID.Hex() == id {
			return sc, nil
		}
	}
	return model.Scenario{}, ErrNotFound
}

// Save создает или заменяет сценарий. Новому сценарию назначается
// локальный идентификатор и метки времени; у существующего обновляется
// updated_at. Запись идет по принципу "последняя запись побеждает".
func (s *Store) Save(ctx context.Context, scenario model.Scenario) (model.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenarios, err := s.load()
	if err != nil {
		return model.Scenario{}, err
	}

	now := time.Now().UTC()
	scenario.Normalize()

	if scenario.ID.IsZero() {
		scenario.ID = primitive.NewObjectID()
		scenario.CreatedAt = now
		scenario.UpdatedAt = now
		scenarios = append(scenarios, scenario)
	} else {
		found := false
		for i, sc := range scenarios {
			if sc.ID == scenario.ID {
				scenario.CreatedAt = sc.CreatedAt
				scenario.UpdatedAt = now
				scenarios[i] = scenario
				found = true
				break
			}
		}
		if !found {
			// Сценарий с клиентским идентификатором, которого еще нет в файле
			if scenario.CreatedAt.IsZero() {
				scenario.CreatedAt = now
			}
			scenario.UpdatedAt = now
			scenarios = append(scenarios, scenario)
		}
	}

	if err := s.save(scenarios); err != nil {
		return model.Scenario{}, err
	}
	return scenario, nil
}

// Delete удаляет сценарий из файла
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenarios, err := s.load()
	if err != nil {
		return err
	}

	for i, sc := range scenarios {
		if sc.ID.Hex() == id {
			scenarios = append(scenarios[:i], scenarios[i+1:]...)
			return s.save(scenarios)
		}
	}
	return ErrNotFound
}
