package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestPageNormalize(t *testing.T) {
	p := Page{Number: 0, Limit: -5}
	p.Normalize()
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 10, p.Limit)

	p = Page{Number: 3, Limit: 25}
	p.Normalize()
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 25, p.Limit)
}

func TestPageSkip(t *testing.T) {
	assert.Equal(t, int64(0), Page{Number: 1, Limit: 10}.Skip())
	assert.Equal(t, int64(40), Page{Number: 5, Limit: 10}.Skip())
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(21, Page{Number: 2, Limit: 10})
	assert.Equal(t, int64(21), meta.Total)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 3, meta.Pages, "21 documents over pages of 10 is 3 pages")

	meta = NewMeta(20, Page{Number: 1, Limit: 10})
	assert.Equal(t, 2, meta.Pages)

	meta = NewMeta(0, Page{Number: 1, Limit: 10})
	assert.Equal(t, 0, meta.Pages)
}

func TestParseID(t *testing.T) {
	// Валидный hex ObjectID
	_, err := parseID("64f1b2a3c4d5e6f708192a3b")
	assert.NoError(t, err)

	// Невалидный формат — отдельная ошибка, не ErrNotFound
	_, err = parseID("not-an-object-id")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = parseID("")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(mongo.ErrNoDocuments), ErrNotFound)
	assert.ErrorIs(t, classify(context.DeadlineExceeded), ErrTimeout)

	// Прочие ошибки проходят без изменений
	plain := errors.New("boom")
	assert.Equal(t, plain, classify(plain))
}
