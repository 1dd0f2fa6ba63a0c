package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.JWTExpiresIn = 15 * time.Minute
	return cfg
}

func TestRegister(t *testing.T) {
	t.Run("issues a token for a new account", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testConfig())

		repo.On("GetByEmail", mock.Anything, "org@example.com").Return(nil, gorm.ErrRecordNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
			// The password must never be stored in clear.
			return u.Email == "org@example.com" &&
				u.Role == middleware.RoleOrganizer &&
				u.PasswordHash != "s3cretpass" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cretpass")) == nil
		})).Return(nil)

		result, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "org@example.com",
			Password: "s3cretpass",
			Name:     "Organizer",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)

		// The issued token must satisfy the auth middleware's expectations.
		token, err := jwt.Parse(result.AccessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "access", claims["type"])
		assert.Equal(t, "org@example.com", claims["email"])
		assert.Equal(t, middleware.RoleOrganizer, claims["role"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testConfig())

		repo.On("GetByEmail", mock.Anything, "org@example.com").Return(&User{}, nil)

		_, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "org@example.com",
			Password: "s3cretpass",
			Name:     "Organizer",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &User{
		ID:           uuid.New(),
		Email:        "org@example.com",
		PasswordHash: string(hash),
		Role:         middleware.RoleOrganizer,
	}

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testConfig())
		repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		result, err := svc.Login(context.Background(), LoginRequest{
			Email:    user.Email,
			Password: "s3cretpass",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, user.ID, result.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testConfig())
		repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    user.Email,
			Password: "wrong",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testConfig())
		repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
