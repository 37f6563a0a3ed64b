package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"backend-template/internal/data/entity"
	"backend-template/internal/data/repository"
	"backend-template/internal/dto/request"
	"backend-template/pkg/apperror"
	"backend-template/pkg/metrics"
	"backend-template/pkg/storage"
	"backend-template/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userFixture struct {
	users   *MockUserRepository
	tokens  *MockTokenRepository
	avatars *MockAvatarStorage
	metrics *metrics.Manager
	svc     UserService
}

func newUserFixture(withStorage bool) *userFixture {
	f := &userFixture{
		users:   new(MockUserRepository),
		tokens:  new(MockTokenRepository),
		avatars: new(MockAvatarStorage),
		metrics: metrics.NewManager("test"),
	}
	repo := &repository.Repository{User: f.users, Token: f.tokens}

	var avatars storage.AvatarStorage
	if withStorage {
		avatars = f.avatars
	}
	f.svc = NewUserService(repo, avatars, f.metrics, zap.NewNop())
	return f
}

func strPtr(s string) *string { return &s }

func TestUserCreate_Registers(t *testing.T) {
	f := newUserFixture(false)
	ctx := context.Background()

	f.users.On("FindByUsername", ctx, "alice").Return(nil, nil)
	f.users.On("FindByEmail", ctx, "alice@example.com").Return(nil, nil)
	f.users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "alice" && u.IsActive && u.Gender == entity.GenderOther &&
			utils.CheckPasswordHash("secret123", u.PasswordHash)
	})).Return(nil)

	resp, err := f.svc.Create(ctx, &request.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", *resp.Email)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.UsersRegistered))
	f.users.AssertExpectations(t)
}

func TestUserCreate_RejectsDuplicatesAndInvalidInput(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate username", func(t *testing.T) {
		f := newUserFixture(false)
		f.users.On("FindByUsername", ctx, "alice").Return(&entity.User{ID: uuid.New()}, nil)
		f.users.On("FindByEmail", ctx, "alice@example.com").Return(nil, nil)

		_, err := f.svc.Create(ctx, &request.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
		requireAppError(t, err, http.StatusBadRequest, apperror.MsgValidation)

		var appErr *apperror.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, msgUsernameTaken, appErr.Fields["username"])
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("short password", func(t *testing.T) {
		f := newUserFixture(false)
		_, err := f.svc.Create(ctx, &request.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "123"})

		var appErr *apperror.Error
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Fields, "password")
	})
}

func TestUserUpdate_Permissions(t *testing.T) {
	target := &entity.User{ID: uuid.New(), Username: "bob", Email: strPtr("bob@example.com"), Gender: entity.GenderOther, IsActive: true}
	stranger := &entity.User{ID: uuid.New(), Username: "eve"}

	t.Run("anonymous", func(t *testing.T) {
		f := newUserFixture(false)
		_, err := f.svc.Update(context.Background(), target.ID.String(), &request.UpdateUserRequest{}, true)
		requireAppError(t, err, http.StatusUnauthorized, apperror.MsgNotAuthed)
	})

	t.Run("other user", func(t *testing.T) {
		f := newUserFixture(false)
		ctx := utils.SetUserContext(context.Background(), stranger, "tok")
		f.users.On("FindByID", ctx, target.ID).Return(target, nil)

		_, err := f.svc.Update(ctx, target.ID.String(), &request.UpdateUserRequest{Introduction: strPtr("hi")}, true)
		requireAppError(t, err, http.StatusForbidden, apperror.MsgPermission)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newUserFixture(false)
		ctx := utils.SetUserContext(context.Background(), stranger, "tok")

		_, err := f.svc.Update(ctx, "not-a-uuid", &request.UpdateUserRequest{}, true)
		requireAppError(t, err, http.StatusNotFound, apperror.MsgNotFound)
	})

	t.Run("staff patches intro and birthday", func(t *testing.T) {
		f := newUserFixture(false)
		staff := &entity.User{ID: uuid.New(), IsStaff: true}
		ctx := utils.SetUserContext(context.Background(), staff, "tok")
		copyOf := *target
		f.users.On("FindByID", ctx, target.ID).Return(&copyOf, nil)
		f.users.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

		resp, err := f.svc.Update(ctx, target.ID.String(), &request.UpdateUserRequest{
			Introduction: strPtr("hello"),
			Birthday:     strPtr("1990-01-02"),
			Gender:       strPtr("F"),
		}, true)
		require.NoError(t, err)
		assert.Equal(t, "hello", *resp.Introduction)
		assert.Equal(t, "1990-01-02", *resp.Birthday)
		assert.Equal(t, "F", resp.Gender)
	})

	t.Run("put requires username and email", func(t *testing.T) {
		f := newUserFixture(false)
		ctx := utils.SetUserContext(context.Background(), target, "tok")
		f.users.On("FindByID", ctx, target.ID).Return(target, nil)

		_, err := f.svc.Update(ctx, target.ID.String(), &request.UpdateUserRequest{Introduction: strPtr("x")}, false)

		var appErr *apperror.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, msgRequiredField, appErr.Fields["username"])
		assert.Equal(t, msgRequiredField, appErr.Fields["email"])
	})
}

func TestUserDelete_SoftDeletesAndRevokesTokens(t *testing.T) {
	f := newUserFixture(false)
	user := &entity.User{ID: uuid.New(), Username: "alice", IsActive: true}
	ctx := utils.SetUserContext(context.Background(), user, "tok")

	f.users.On("FindByID", ctx, user.ID).Return(user, nil)
	f.users.On("SoftDelete", ctx, user.ID).Return(nil)
	f.tokens.On("DeactivateAllForUser", ctx, user.ID).Return(int64(2), nil)

	require.NoError(t, f.svc.Delete(ctx, user.ID.String()))
	f.users.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
}

func TestUserList(t *testing.T) {
	f := newUserFixture(false)
	ctx := context.Background()

	users := []*entity.User{
		{ID: uuid.New(), Username: "a", Base: entity.NewBase(time.Now())},
		{ID: uuid.New(), Username: "b", Base: entity.NewBase(time.Now())},
	}
	f.users.On("CountAll", ctx).Return(int64(12), nil)
	f.users.On("FindAll", ctx, 10, 10).Return(users, nil)

	results, total, err := f.svc.List(ctx, request.PageRequest{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	assert.Len(t, results, 2)
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("storage disabled", func(t *testing.T) {
		f := newUserFixture(false)
		_, err := f.svc.UploadAvatar(ctx, &entity.User{ID: uuid.New()}, strings.NewReader("x"), 1, "image/png")
		requireAppError(t, err, http.StatusBadRequest, msgStorageUnavailable)
	})

	t.Run("invalid type", func(t *testing.T) {
		f := newUserFixture(true)
		user := &entity.User{ID: uuid.New()}
		f.avatars.On("UploadAvatar", ctx, user.ID, mock.Anything, int64(1), "image/gif").Return("", storage.ErrInvalidFileType)

		_, err := f.svc.UploadAvatar(ctx, user, strings.NewReader("x"), 1, "image/gif")

		var appErr *apperror.Error
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Fields, "avatar")
	})

	t.Run("replaces previous avatar", func(t *testing.T) {
		f := newUserFixture(true)
		user := &entity.User{ID: uuid.New(), Avatar: strPtr("avatars/old.png")}
		stored := *user

		f.avatars.On("UploadAvatar", ctx, user.ID, mock.Anything, int64(3), "image/png").Return("avatars/new.png", nil)
		f.users.On("FindByID", ctx, user.ID).Return(&stored, nil)
		f.users.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Avatar != nil && *u.Avatar == "avatars/new.png"
		})).Return(nil)
		f.avatars.On("DeleteAvatar", ctx, "avatars/old.png").Return(nil)
		f.avatars.On("AvatarURL", ctx, "avatars/new.png").Return("http://minio/avatars/new.png?sig", nil)

		resp, err := f.svc.UploadAvatar(ctx, user, strings.NewReader("png"), 3, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "avatars/new.png", resp.Avatar)
		assert.Equal(t, "http://minio/avatars/new.png?sig", resp.URL)
		f.avatars.AssertExpectations(t)
	})
}
