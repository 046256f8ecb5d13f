package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	"RiskPulse/internal/repository"
)

// AccountUseCase handles registration, login, and JWT issuance.
type AccountUseCase struct {
	users     domrepo.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

func NewAccountUseCase(users domrepo.UserStore, jwtSecret string, tokenTTL time.Duration) *AccountUseCase {
	if tokenTTL <= 0 {
		tokenTTL = 30 * 24 * time.Hour
	}
	return &AccountUseCase{users: users, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

// Register creates an account with a bcrypt-hashed password.
func (uc *AccountUseCase) Register(ctx context.Context, username, password string) (*models.User, error) {
	if _, err := uc.users.ByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: username, PasswordHash: string(hash)}
	if err := uc.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a signed token.
func (uc *AccountUseCase) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	u, err := uc.users.ByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": fmt.Sprintf("%d", u.ID),
		"usr": u.Username,
		"iat": now.Unix(),
		"exp": now.Add(uc.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, u, nil
}

// VerifyToken validates a bearer token and returns the user id.
func (uc *AccountUseCase) VerifyToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidCredentials
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	var id uint
	if _, err := fmt.Sscanf(sub, "%d", &id); err != nil {
		return 0, ErrInvalidCredentials
	}
	return id, nil
}
