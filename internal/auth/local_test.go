package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eter-store/eter-admin/internal/db/models"
)

func TestLocalProviderAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	roles := seedRoles(t, db)
	p := NewLocalProvider(db)
	ctx := context.Background()

	created := createUser(t, db, "ana", "ana@eter.store", roles[models.RoleStaff].ID)
	assert.NotEqual(t, "s3cret-pass", created.Password)

	user, err := p.Authenticate(ctx, "ana", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, models.RoleStaff, user.Role.Name)

	_, err = p.Authenticate(ctx, "ana", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = p.Authenticate(ctx, "nobody", "s3cret-pass")
	require.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, p.SetActive(ctx, created.ID, false))

	_, err = p.Authenticate(ctx, "ana", "s3cret-pass")
	require.ErrorIs(t, err, ErrUserAccountDisabled)
}

func TestLocalProviderCreateUserDuplicate(t *testing.T) {
	db := setupTestDB(t)
	roles := seedRoles(t, db)

	createUser(t, db, "ana", "ana@eter.store", roles[models.RoleStaff].ID)

	_, err := NewLocalProvider(db).CreateUser(context.Background(), NewUser{
		Username: "other",
		Email:    "ANA@eter.store",
		Password: "x",
		RoleID:   roles[models.RoleStaff].ID,
	})
	assert.ErrorIs(t, err, ErrUserNameOrEmailExists)
}

func TestLocalProviderChangePassword(t *testing.T) {
	db := setupTestDB(t)
	roles := seedRoles(t, db)
	p := NewLocalProvider(db)
	ctx := context.Background()

	user := createUser(t, db, "ana", "ana@eter.store", roles[models.RoleStaff].ID)

	require.ErrorIs(t, p.ChangePassword(ctx, user.ID, "wrong", "new-pass"), ErrInvalidOldPassword)
	require.NoError(t, p.ChangePassword(ctx, user.ID, "s3cret-pass", "new-pass"))

	_, err := p.Authenticate(ctx, "ana", "new-pass")
	require.NoError(t, err)

	require.ErrorIs(t, p.ChangePassword(ctx, 999, "a", "b"), ErrUserNotFound)
}

func TestActorFromContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithActor(context.Background(), "42")
	actor, ok := ContextIdentity{}.Actor(ctx)
	assert.True(t, ok)
	assert.Equal(t, "42", actor)

	_, ok = ActorFromContext(WithActor(context.Background(), ""))
	assert.False(t, ok)
}
