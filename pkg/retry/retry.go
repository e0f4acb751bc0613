package retry

import (
	"context"
	"time"
)

// Policy описывает политику повторных попыток с экспоненциальной задержкой.
// Используется и менеджером подключения к БД, и HTTP-клиентом.
type Policy struct {
	MaxAttempts int           // максимальное число попыток, минимум 1
	BaseDelay   time.Duration // задержка перед второй попыткой
	Multiplier  float64       // множитель задержки, обычно 2
}

// Do выполняет fn до первого успеха, но не более MaxAttempts раз.
// Между попытками ждет BaseDelay * Multiplier^(n-1), уважая отмену контекста.
// Возвращает ошибку последней попытки.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	multiplier := p.Multiplier
	if multiplier <= 0 {
		multiplier = 2
	}

	delay := p.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * multiplier)
	}
	return lastErr
}
