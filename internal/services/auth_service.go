package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"

	"github.com/avgarcia/go-tasklist/internal/storage"
)

const minPasswordLength = 8

type authServiceImpl struct {
	logger       zerolog.Logger
	store        storage.Store
	hashParams   *argon2id.Params
	autoRegister bool
}

func NewAuthService(
	logger zerolog.Logger,
	store storage.Store,
	hashParams *argon2id.Params,
	autoRegister bool,
) AuthService {
	return &authServiceImpl{
		logger:       logger,
		store:        store,
		hashParams:   hashParams,
		autoRegister: autoRegister,
	}
}

func (s *authServiceImpl) Authenticate(ctx context.Context, name, password string) (*AuthResult, error) {
	// Input validation runs before any store access.
	if name == "" || password == "" {
		s.logger.Warn().Msg("missing name or password")
		return nil, ErrCredentialsRequired
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		s.logger.Warn().
			Str("name", name).
			Msg("password shorter than the minimum length")
		return nil, ErrPasswordTooShort
	}

	user, err := s.store.FindUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return s.register(ctx, name, password)
		}

		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to find user by name")
		return nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	}
	if !match {
		s.logger.Warn().
			Int64("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("name", user.Name).
		Msg("authenticated user")
	return &AuthResult{User: user}, nil
}

// register claims an unused name on its first login attempt. Any unused
// name is auto-claimed this way; there is no separate signup flow and no
// availability check, so a typo in the name silently creates an account.
func (s *authServiceImpl) register(ctx context.Context, name, password string) (*AuthResult, error) {
	if !s.autoRegister {
		s.logger.Warn().
			Str("name", name).
			Msg("unknown user and auto-registration is disabled")
		return nil, ErrUserNotFound
	}

	passwordHash, err := argon2id.CreateHash(password, s.hashParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, name, passwordHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			// Lost the race against a concurrent first-time login.
			s.logger.Warn().
				Str("name", name).
				Msg("user with this name already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("name", user.Name).
		Msg("registered user")
	return &AuthResult{User: user, Registered: true}, nil
}
