package session

import (
	"sync"
	"time"
)

const tickInterval = 100 * time.Millisecond

// Timer — таймер обратного отсчета для одной активности.
// Запускается, ставится на паузу и сбрасывается пользователем; длительность
// можно менять на ходу. По достижении нуля один раз вызывается onComplete.
// Таймер не связан с Walker: завершение отсчета не переключает активность.
type Timer struct {
	mu         sync.Mutex
	duration   time.Duration
	remaining  time.Duration
	running    bool
	stopCh     chan struct{}
	onComplete func()
}

// NewTimer создает таймер с указанной длительностью в остановленном состоянии
func NewTimer(duration time.Duration) *Timer {
	return &Timer{
		duration:  duration,
		remaining: duration,
	}
}

// SetOnComplete устанавливает обработчик завершения отсчета
func (t *Timer) SetOnComplete(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onComplete = fn
}

// Start запускает отсчет. Повторный вызов на работающем таймере ничего не делает.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running || t.remaining <= 0 {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	go t.run(t.stopCh)
}

// run уменьшает остаток времени до нуля или до остановки
func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			t.remaining -= tickInterval
			if t.remaining > 0 {
				t.mu.Unlock()
				continue
			}
			t.remaining = 0
			t.running = false
			fn := t.onComplete
			t.mu.Unlock()

			if fn != nil {
				fn()
			}
			return
		}
	}
}

// Pause останавливает отсчет, сохраняя остаток времени
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	close(t.stopCh)
	t.stopCh = nil
}

// Reset останавливает отсчет и возвращает остаток к полной длительности
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		t.running = false
		close(t.stopCh)
		t.stopCh = nil
	}
	t.remaining = t.duration
}

// SetDuration изменяет длительность. Остаток времени сбрасывается
// к новой длительности, работающий отсчет останавливается.
func (t *Timer) SetDuration(duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		t.running = false
		close(t.stopCh)
		t.stopCh = nil
	}
	t.duration = duration
	t.remaining = duration
}

// Remaining возвращает остаток времени
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running возвращает true, если отсчет идет
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
