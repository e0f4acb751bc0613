package repository

import (
	"context"
	"regexp"
	"sort"
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

const topicCollection = "topics"

// MongoTopicRepository реализует TopicRepository поверх MongoDB
type MongoTopicRepository struct {
	manager   *database.Manager
	indexOnce sync.Once
}

// NewTopicRepository создает репозиторий тем дебатов
func NewTopicRepository(manager *database.Manager) *MongoTopicRepository {
	return &MongoTopicRepository{manager: manager}
}

// collection возвращает коллекцию тем, при первом обращении создавая индексы
func (r *MongoTopicRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.manager.Database(ctx)
	if err != nil {
		return nil, err
	}

	col := db.Collection(topicCollection)
	r.indexOnce.Do(func() {
		indexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "subjects", Value: 1}},
				Options: options.Index().SetName("idx_subjects"),
			},
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_created_at"),
			},
		}
		if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
			log.Warn().Err(err).Str("collection", topicCollection).Msg("failed to ensure indexes")
		}
	})
	return col, nil
}

// Create сохраняет новую тему, проставляя метки времени и начальный счетчик использований
func (r *MongoTopicRepository) Create(ctx context.Context, topic model.Topic) (model.Topic, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return model.Topic{}, err
	}

	topic.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	topic.CreatedAt = now
	topic.UpdatedAt = now
	topic.UseCount = 0

	if _, err := col.InsertOne(ctx, topic); err != nil {
		return model.Topic{}, classify(err)
	}
	return topic, nil
}

// GetByID возвращает тему по идентификатору
func (r *MongoTopicRepository) GetByID(ctx context.Context, id string) (model.Topic, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Topic{}, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return model.Topic{}, err
	}

	var topic model.Topic
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&topic); err != nil {
		return model.Topic{}, classify(err)
	}
	return topic, nil
}

// List возвращает страницу тем с фильтрацией.
// Query ищется без учета регистра в title и background; Subject со значением
// "all" (или пустым) отключает фильтр по предмету.
func (r *MongoTopicRepository) List(ctx context.Context, page Page, filter TopicFilter) ([]model.Topic, Meta, error) {
	page.Normalize()

	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, Meta{}, err
	}

	query := bson.M{}
	if filter.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"background": pattern},
		}
	}
	if filter.Subject != "" && filter.Subject != model.SubjectAll {
		query["subjects"] = filter.Subject
	}

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, Meta{}, classify(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cur, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, Meta{}, classify(err)
	}
	defer cur.Close(ctx)

	topics := make([]model.Topic, 0, page.Limit)
	if err := cur.All(ctx, &topics); err != nil {
		return nil, Meta{}, classify(err)
	}
	return topics, NewMeta(total, page), nil
}

// Update выполняет merge-обновление темы и обновляет updated_at
func (r *MongoTopicRepository) Update(ctx context.Context, id string, patch model.Topic) (model.Topic, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Topic{}, err
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return model.Topic{}, err
	}

	set := bson.M{
		"title":             patch.Title,
		"background":        patch.Background,
		"grade":             patch.Grade,
		"pro_arguments":     patch.ProArguments,
		"con_arguments":     patch.ConArguments,
		"teacher_tips":      patch.TeacherTips,
		"key_questions":     patch.KeyQuestions,
		"expected_outcomes": patch.ExpectedOutcomes,
		"subjects":          patch.Subjects,
		"updated_at":        time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Topic
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return model.Topic{}, classify(err)
	}
	return updated, nil
}

// Delete удаляет тему
func (r *MongoTopicRepository) Delete(ctx context.Context, id string) error {
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

// Subjects возвращает уникальные значения предметов по всем темам,
// отсортированные по алфавиту. Используется для наполнения фильтров в UI.
func (r *MongoTopicRepository) Subjects(ctx context.Context) ([]string, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	values, err := col.Distinct(ctx, "subjects", bson.M{})
	if err != nil {
		return nil, classify(err)
	}

	subjects := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			subjects = append(subjects, s)
		}
	}
	sort.Strings(subjects)
	return subjects, nil
}
