// Package store определяет общий интерфейс хранилища сценариев.
// Его реализуют два независимых бэкенда: локальный файл (pkg/localstore)
// и серверное API (pkg/client). Бэкенды не синхронизируются между собой,
// вызывающий код выбирает один из них явно.
package store

import (
	"context"

	"debate-server/internal/model"
)

// ScenarioStore — способность хранить и извлекать сценарии дебатов
type ScenarioStore interface {
	List(ctx context.Context) ([]model.Scenario, error)
	Get(ctx context.Context, id string) (model.Scenario, error)
	// Save создает сценарий, если идентификатор пуст, иначе заменяет
	// существующий. Возвращает сохраненный документ с проставленными
	// идентификатором и метками времени.
	Save(ctx context.Context, scenario model.Scenario) (model.Scenario, error)
	Delete(ctx context.Context, id string) error
}
