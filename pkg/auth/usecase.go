package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Register(ctx context.Context, email, password string) (Session, error)
	Login(ctx context.Context, email, password string) (Session, error)
}

type authService struct {
	repo   UserRepository
	tokens TokenGenerator
	cost   int
}

func NewAuthService(repo UserRepository, tokens TokenGenerator) AuthUseCase {
	return &authService{repo: repo, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return Session{}, err
	}

	// best-effort; the repository enforces uniqueness
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrUserAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Session{}, err
	}

	user := User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return Session{}, err
	}
	return s.issue(ctx, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

func (s *authService) issue(ctx context.Context, user User) (Session, error) {
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token}, nil
}
