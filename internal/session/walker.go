// Package session содержит логику проведения дебатов: линейный обход
// активностей по трем этапам сценария и таймер обратного отсчета.
package session

import (
	"sync"

	"debate-server/internal/model"
)

// Position указывает текущую активность в сценарии
type Position struct {
	Stage    int // индекс этапа, 0..2
	Activity int // индекс активности внутри этапа
}

// Walker обходит активности сценария в фиксированном порядке этапов.
// Переходы не зациклены: в конце последнего этапа Next ничего не делает,
// в начале первого этапа Previous ничего не делает.
type Walker struct {
	mu     sync.Mutex
	stages []model.Stage
	pos    Position
}

// NewWalker создает обходчик для сценария.
// Начальная позиция — первая активность первого непустого этапа.
func NewWalker(scenario model.Scenario) *Walker {
	w := &Walker{stages: scenario.Stages.Ordered()}
	// Этап без активностей пропускаем сразу
	for w.pos.Stage < len(w.stages)-1 && len(w.stages[w.pos.Stage].Activities) == 0 {
		w.pos.Stage++
	}
	return w
}

// Position возвращает текущую позицию
func (w *Walker) Position() Position {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos
}

// Current возвращает текущие этап и активность.
// Вторым значением возвращается nil, если текущий этап пуст.
func (w *Walker) Current() (model.Stage, *model.Activity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	stage := w.stages[w.pos.Stage]
	if w.pos.Activity >= len(stage.Activities) {
		return stage, nil
	}
	activity := stage.Activities[w.pos.Activity]
	return stage, &activity
}

// Next переходит к следующей активности. На последней активности этапа
// переходит к первой активности следующего этапа; на последней активности
// последнего этапа ничего не делает. Возвращает true, если позиция изменилась.
func (w *Walker) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pos.Activity+1 < len(w.stages[w.pos.Stage].Activities) {
		w.pos.Activity++
		return true
	}

	// Ищем следующий этап с хотя бы одной активностью
	for stage := w.pos.Stage + 1; stage < len(w.stages); stage++ {
		if len(w.stages[stage].Activities) > 0 {
			w.pos = Position{Stage: stage, Activity: 0}
			return true
		}
	}
	return false
}

// Previous переходит к предыдущей активности, зеркально к Next.
// Возвращает true, если позиция изменилась.
func (w *Walker) Previous() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pos.Activity > 0 {
		w.pos.Activity--
		return true
	}

	for stage := w.pos.Stage - 1; stage >= 0; stage-- {
		if n := len(w.stages[stage].Activities); n > 0 {
			w.pos = Position{Stage: stage, Activity: n - 1}
			return true
		}
	}
	return false
}
