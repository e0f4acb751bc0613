package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"debate-server/internal/database"
	"debate-server/internal/model"
)

const scenarioCollection = "scenarios"

// MongoScenarioRepository реализует ScenarioRepository поверх MongoDB
type MongoScenarioRepository struct {
	manager   *database.Manager
	indexOnce sync.Once
}

// NewScenarioRepository создает репозиторий сценариев.
// Дескриптор базы данных запрашивается у менеджера при каждой операции,
// поэтому недоступность базы на старте не мешает созданию репозитория.
func NewScenarioRepository(manager *database.Manager) *MongoScenarioRepository {
	return &MongoScenarioRepository{manager: manager}
}

// collection возвращает коллекцию сценариев, при первом обращении создавая индексы
func (r *MongoScenarioRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.manager.Database(ctx)
	if err != nil {
		return nil, err
	}

	col := db.Collection(scenarioCollection)
	r.indexOnce.Do(func() {
		// Текстовый индекс для поиска по заголовку и индекс сортировки списка
		indexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "title", Value: "text"}},
				Options: options.Index().SetName("idx_title_text"),
			},
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_created_at"),
			},
		}
		if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
			// Отсутствие индекса не мешает работе CRUD, поэтому не считаем это фатальным
			log.Warn().Err(err).Str("collection", scenarioCollection).Msg("failed to ensure indexes")
		}
	})
	return col, nil
}

// Create сохраняет новый сценарий, проставляя метки времени
func (r *MongoScenarioRepository) Create(ctx context.Context, scenario model.Scenario) (model.Scenario, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return model.Scenario{}, err
	}

	scenario.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	scenario.CreatedAt = now
	scenario.UpdatedAt = now
	scenario.Normalize()

	if _, err := col.InsertOne(ctx, scenario); err != nil {
		return model.Scenario{}, classify(err)
	}
	return scenario, nil
}

// GetByID возвращает сценарий по идентификатору
func (r *MongoScenarioRepository) GetByID(ctx context.Context, id string) (model.Scenario, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Scenario{}, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return model.Scenario{}, err
	}

	var scenario model.Scenario
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&scenario); err != nil {
		return model.Scenario{}, classify(err)
	}
	return scenario, nil
}

// List возвращает страницу сценариев, отсортированных по дате создания (новые первыми).
// Непустой search ограничивает выборку текстовым совпадением по заголовку.
func (r *MongoScenarioRepository) List(ctx context.Context, page Page, search string) ([]model.Scenario, Meta, error) {
	page.Normalize()

	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, Meta{}, err
	}

	filter := bson.M{}
	if search != "" {
		filter["$text"] = bson.M{"$search": search}
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, Meta{}, classify(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, Meta{}, classify(err)
	}
	defer cur.Close(ctx)

	scenarios := make([]model.Scenario, 0, page.Limit)
	if err := cur.All(ctx, &scenarios); err != nil {
		return nil, Meta{}, classify(err)
	}
	return scenarios, NewMeta(total, page), nil
}

// Update выполняет merge-обновление документа и обновляет updated_at.
// Возвращает документ после обновления.
func (r *MongoScenarioRepository) Update(ctx context.Context, id string, patch model.Scenario) (model.Scenario, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Scenario{}, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return model.Scenario{}, err
	}

	patch.Normalize()
	set := bson.M{
		"title":                  patch.Title,
		"total_duration_minutes": patch.TotalDurationMinutes,
		"stages":                 patch.Stages,
		"ai_generated":           patch.AIGenerated,
		"updated_at":             time.Now().UTC(),
	}
	if patch.GroupCount != nil {
		set["group_count"] = *patch.GroupCount
	}
	if patch.Details != nil {
		set["details"] = patch.Details
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Scenario
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return model.Scenario{}, classify(err)
	}
	return updated, nil
}

// Delete удаляет сценарий. Удаление несуществующего документа возвращает ErrNotFound.
func (r *MongoScenarioRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return classify(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
