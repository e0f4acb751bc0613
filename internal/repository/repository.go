package repository

import (
	"context"
	"errors"
	"time"

	"debate-server/internal/model"
)

// Ошибки слоя хранилища. Обработчики сопоставляют их с HTTP-статусами.
var (
	// ErrNotFound — документ с указанным идентификатором не существует
	ErrNotFound = errors.New("документ не найден")
	// ErrInvalidID — идентификатор не соответствует ожидаемому формату.
	// Отличается от ErrNotFound: это ошибка запроса, а не состояния хранилища.
	ErrInvalidID = errors.New("неверный формат идентификатора")
	// ErrTimeout — операция превысила отведенный лимит времени
	ErrTimeout = errors.New("операция превысила лимит времени")
)

// OperationTimeout — верхняя граница длительности любой операции с БД
const OperationTimeout = 30 * time.Second

// Page описывает параметры пагинации списочных запросов
type Page struct {
	Number int // номер страницы, начиная с 1
	Limit  int
}

// Meta содержит метаданные списочного ответа
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Normalize приводит параметры страницы к допустимым значениям
func (p *Page) Normalize() {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
}

// Skip возвращает число пропускаемых документов
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

// NewMeta вычисляет метаданные по общему числу документов
func NewMeta(total int64, p Page) Meta {
	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}
	return Meta{Total: total, Page: p.Number, Limit: p.Limit, Pages: pages}
}

// ScenarioRepository определяет методы для работы с хранилищем сценариев
type ScenarioRepository interface {
	Create(ctx context.Context, scenario model.Scenario) (model.Scenario, error)
	GetByID(ctx context.Context, id string) (model.Scenario, error)
	List(ctx context.Context, page Page, search string) ([]model.Scenario, Meta, error)
	Update(ctx context.Context, id string, patch model.Scenario) (model.Scenario, error)
	Delete(ctx context.Context, id string) error
}

// TopicFilter описывает фильтры списочного запроса тем
type TopicFilter struct {
	Query   string // подстрока в title или background, без учета регистра
	Subject string // точное вхождение в subjects; "all" отключает фильтр
}

// TopicRepository определяет методы для работы с хранилищем тем дебатов
type TopicRepository interface {
	Create(ctx context.Context, topic model.Topic) (model.Topic, error)
	GetByID(ctx context.Context, id string) (model.Topic, error)
	List(ctx context.Context, page Page, filter TopicFilter) ([]model.Topic, Meta, error)
	Update(ctx context.Context, id string, patch model.Topic) (model.Topic, error)
	Delete(ctx context.Context, id string) error
	// Subjects возвращает отсортированный список всех уникальных предметов
	Subjects(ctx context.Context) ([]string, error)
}
