package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/models"
)

func TestSubscribe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	reader := createTestUser(t, db, "reader")
	author := createTestUser(t, db, "author")

	got, err := svc.Subscribe(reader.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, got.ID)

	subscribed, err := svc.IsSubscribed(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)
}

func TestSubscribeToSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "alice")

	_, err := svc.Subscribe(user.ID, user.ID)
	ve, ok := AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, "author", ve.Field)
}

func TestSubscribeDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	reader := createTestUser(t, db, "reader")
	author := createTestUser(t, db, "author")

	_, err := svc.Subscribe(reader.ID, author.ID)
	require.NoError(t, err)

	_, err = svc.Subscribe(reader.ID, author.ID)
	_, ok := AsValidation(err)
	assert.True(t, ok, "expected a validation error, got %v", err)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	reader := createTestUser(t, db, "reader")

	_, err := svc.Subscribe(reader.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnsubscribeMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	reader := createTestUser(t, db, "reader")
	author := createTestUser(t, db, "author")

	err := svc.Unsubscribe(reader.ID, author.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscriptionsRecipesLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	reader := createTestUser(t, db, "reader")
	author := createTestUser(t, db, "author")

	for _, name := range []string{"Pancakes", "Waffles", "Crepes"} {
		recipe := models.Recipe{AuthorID: author.ID, Name: name, Text: "mix and fry", CookingTime: 10}
		require.NoError(t, db.Create(&recipe).Error)
	}
	_, err := svc.Subscribe(reader.ID, author.ID)
	require.NoError(t, err)

	subs, err := svc.Subscriptions(reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Recipes, 1)
	assert.Equal(t, int64(3), subs[0].RecipesCount)

	subs, err = svc.Subscriptions(reader.ID, -1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Recipes, 3)
}

func TestIsSubscribedAnonymous(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	author := createTestUser(t, db, "author")

	subscribed, err := svc.IsSubscribed(0, author.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}
