// auth — поставщик идентичности YaNews: регистрация, вход, выход
// и проверка access-токенов.
//
// Экземпляр Service не хранит состояние запроса и безопасен для конкурентного
// использования, если потокобезопасны хранилище и реестр отзыва.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/cache"
	"github.com/pribylovaa/yanews/internal/config"
	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/internal/storage"
	"github.com/pribylovaa/yanews/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidArgument — username или пароль не проходят базовую валидацию (HTTP 400).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUsernameTaken — имя уже занято (HTTP 409).
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден (HTTP 401).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken — токен некорректен по формату/подписи или отозван (HTTP 401).
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк (HTTP 401).
	ErrTokenExpired = errors.New("token expired")
	// ErrStorageUnavailable — сбой хранилища пользователей или реестра отзыва (HTTP 503).
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 150
	minPasswordLen = 8
)

// Service описывает бизнес-логику аутентификации.
type Service struct {
	users   storage.UserStorage
	revoked cache.Revocations
	cfg     config.AuthConfig
	cost    int
	now     func() time.Time
}

// New создаёт новый экземпляр Service.
func New(users storage.UserStorage, revoked cache.Revocations, cfg config.AuthConfig) *Service {
	return &Service{
		users:   users,
		revoked: revoked,
		cfg:     cfg,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
	}
}

// Register регистрирует нового пользователя.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	const op = "auth.Register"

	lg := log.From(ctx).With("op", op)

	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		lg.Warn("invalid_signup", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		lg.Error("password_hash_failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			lg.Info("username_taken")
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		return nil, storageError(op, lg, err)
	}

	lg.Info("user_registered", "user_id", user.ID.String())

	return user, nil
}

// Login выполняет вход по username+пароль.
// Неизвестный пользователь и неверный пароль неразличимы.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Token, error) {
	const op = "auth.Login"

	lg := log.From(ctx).With("op", op)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Info("login_failed")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, storageError(op, lg, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		lg.Info("login_failed", "user_id", user.ID.String())
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.generateAccessToken(user.Identity(), s.now().UTC())
	if err != nil {
		lg.Error("access_token_sign_failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// Logout отзывает access-токен до истечения его срока.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	const op = "auth.Logout"

	lg := log.From(ctx).With("op", op)

	claims, err := s.parseAccessToken(accessToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return storageError(op, lg, err)
	}

	lg.Info("user_logged_out", "user_id", claims.Subject)

	return nil
}

// Authenticate проверяет access-токен и возвращает идентичность запроса.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (models.Identity, error) {
	const op = "auth.Authenticate"

	claims, err := s.parseAccessToken(accessToken)
	if err != nil {
		return models.Anonymous, fmt.Errorf("%s: %w", op, err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return models.Anonymous, storageError(op, log.From(ctx).With("op", op), err)
	}

	if revoked {
		return models.Anonymous, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil || uid == uuid.Nil {
		return models.Anonymous, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return models.Identity{UserID: uid, Username: claims.Name}, nil
}

func validateCredentials(username, password string) error {
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d..%d characters", ErrInvalidArgument, minUsernameLen, maxUsernameLen)
	}

	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidArgument, minPasswordLen)
	}

	// bcrypt принимает не больше 72 байт.
	if len(password) > 72 {
		return fmt.Errorf("%w: password is too long", ErrInvalidArgument)
	}

	return nil
}

func storageError(op string, lg *slog.Logger, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Error("storage_error", "err", err)

	return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
}
