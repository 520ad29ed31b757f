package mongo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	driver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/accountworker/pkg/mongo"
)

func TestNew_EmptyURL(t *testing.T) {
	t.Parallel()
	_, err := mongo.New(context.Background(), mongo.Config{})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()
	assert.True(t, mongo.IsNotFoundError(fmt.Errorf("find: %w", driver.ErrNoDocuments)))
	assert.False(t, mongo.IsNotFoundError(nil))
	assert.False(t, mongo.IsDuplicateKeyError(nil))
}
