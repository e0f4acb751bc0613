package client

import (
	"context"

	"debate-server/internal/model"
	"debate-server/pkg/store"
)

// scenarioBackend адаптирует Client к интерфейсу store.ScenarioStore,
// делая серверное хранилище взаимозаменяемым с локальным файлом
type scenarioBackend struct {
	c *Client
}

// ScenarioStore возвращает серверный бэкенд хранилища сценариев
func (c *Client) ScenarioStore() store.ScenarioStore {
	return &scenarioBackend{c: c}
}

const backendPageSize = 100

// List выгружает все сценарии, постранично обходя серверный список
func (b *scenarioBackend) List(ctx context.Context) ([]model.Scenario, error) {
	var all []model.Scenario
	for page := 1; ; page++ {
		scenarios, meta, err := b.c.ListScenarios(ctx, page, backendPageSize, "")
		if err != nil {
			return nil, err
		}
		all = append(all, scenarios...)
		if page >= meta.Pages || len(scenarios) == 0 {
			break
		}
	}
	return all, nil
}

func (b *scenarioBackend) Get(ctx context.Context, id string) (model.Scenario, error) {
	return b.c.GetScenario(ctx, id)
}

func (b *scenarioBackend) Save(ctx context.Context, scenario model.Scenario) (model.Scenario, error) {
	if scenario.ID.IsZero() {
		return b.c.CreateScenario(ctx, scenario)
	}
	return b.c.UpdateScenario(ctx, scenario.ID.Hex(), scenario)
}

func (b *scenarioBackend) Delete(ctx context.Context, id string) error {
	return b.c.DeleteScenario(ctx, id)
}
