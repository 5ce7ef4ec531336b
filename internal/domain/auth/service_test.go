package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
	"github.com/cardbazar/cardbazar/marketplace/database/repositories"
)

type fakeUserRepo struct {
	byID    map[int64]*models.User
	byEmail map[string]*models.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[int64]*models.User),
		byEmail: make(map[string]*models.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return repositories.ErrDuplicate
	}
	user.ID = f.nextID
	f.nextID++
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func newTestService(repo *fakeUserRepo) Service {
	return NewService(repo, Config{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
}

func TestService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)

	token, err := s.Register(context.Background(), "ana@example.com", "hunter2", "ana")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	user := repo.byEmail["ana@example.com"]
	require.NotNil(t, user)
	assert.Equal(t, int64(StartingBalance), user.Balance)
	assert.NotEqual(t, "hunter2", user.Password, "password must be stored hashed")

	_, err = s.Register(context.Background(), "ana@example.com", "other", "ana2")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)

	_, err := s.Register(context.Background(), "ana@example.com", "hunter2", "ana")
	require.NoError(t, err)

	token, err := s.Login(context.Background(), "ana@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = s.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = s.Login(context.Background(), "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_ResolveActor(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)

	token, err := s.Register(context.Background(), "ana@example.com", "hunter2", "ana")
	require.NoError(t, err)

	actor, err := s.ResolveActor(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, actor.Resolved())
	assert.Equal(t, "ana", actor.Username)
	assert.False(t, actor.IsAdmin)
}

func TestService_ResolveActor_Invalid(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)

	_, err := s.ResolveActor(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret.
	other := NewService(repo, Config{JWTSecret: "other-secret", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost})
	token, err := other.Register(context.Background(), "bob@example.com", "pw", "bob")
	require.NoError(t, err)

	_, err = s.ResolveActor(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ResolveActor_DeletedUser(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)

	token, err := s.Register(context.Background(), "ana@example.com", "hunter2", "ana")
	require.NoError(t, err)

	delete(repo.byID, 1)

	_, err = s.ResolveActor(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
