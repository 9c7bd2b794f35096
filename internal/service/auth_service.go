package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"mybank-ledger/internal/core/domain"
	"mybank-ledger/internal/core/ports"
	"mybank-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

const minPasswordLength = 8

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	accounts ports.AccountService
	hasher   ports.HashService
	tokens   ports.TokenService
	limiter  ports.LoginLimiter
	log      zerolog.Logger
}

func NewAuthService(
	userRepo ports.UserRepository,
	accounts ports.AccountService,
	hasher ports.HashService,
	tokens ports.TokenService,
	limiter ports.LoginLimiter,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		limiter:  limiter,
		log:      log,
	}
}

// Register creates a user with a default checking account and returns a
// session token.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.Validation("invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.Validation("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, apperror.Validation("first and last name are required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	if _, err := s.accounts.Open(ctx, user.ID, domain.AccountTypeChecking); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("issue token: %w", err))
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user registered")

	return &ports.AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Login authenticates a user. Attempts are counted per identifier before
// credentials are checked, and unknown emails fail exactly like wrong
// passwords.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.limiter.Check(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		s.log.Warn().Str("email", email).Msg("failed login attempt")
		return nil, apperror.ErrInvalidCredentials()
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("reset login attempts")
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("issue token: %w", err))
	}

	return &ports.AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
