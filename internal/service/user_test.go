package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestListUsers(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	for i := 0; i < 5; i++ {
		testhelpers.CreateUser(t, db, fmt.Sprintf("user%d", i))
	}
	svc := NewUserService(db)
	ctx := context.Background()

	users, total, err := svc.ListUsers(ctx, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, users, 2)
	assert.Equal(t, "user0", users[0].Username)

	users, _, err = svc.ListUsers(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "user4", users[0].Username)
}

func TestGetUser(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateUser(t, db, "cook")
	svc := NewUserService(db)

	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", got.Email)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chef := testhelpers.CreateUser(t, f.db, "chef")
	svc := NewUserService(f.db)

	_, err := f.relations.Follow(ctx, f.reader.ID, f.author.ID)
	require.NoError(t, err)
	_, err = f.relations.Follow(ctx, f.reader.ID, chef.ID)
	require.NoError(t, err)
	_, err = f.relations.Follow(ctx, f.author.ID, chef.ID)
	require.NoError(t, err)

	users, total, err := svc.Subscriptions(ctx, f.reader.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, "author", users[0].Username)
	assert.Equal(t, "chef", users[1].Username)

	users, total, err = svc.Subscriptions(ctx, chef.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)
}
