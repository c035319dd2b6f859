package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/theapemachine/shopchat/pkg/errors"
	"github.com/theapemachine/shopchat/pkg/stores"
	"github.com/theapemachine/shopchat/pkg/types"
)

const tokenTTL = 24 * time.Hour

// Service handles registration, login and token management.
type Service struct {
	users       stores.UserStore
	signingKey  []byte
	bcryptCost  int
	rateLimiter *RateLimiter
}

// NewService creates an authentication service over the given user store.
func NewService(users stores.UserStore, signingKey []byte, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		users:       users,
		signingKey:  signingKey,
		bcryptCost:  bcryptCost,
		rateLimiter: NewRateLimiter(100, time.Minute),
	}
}

/*
Register validates the supplied data, stores the account with a bcrypt
password hash and returns the new user together with an access token.
*/
func (s *Service) Register(
	ctx context.Context, username, email, password string,
) (*types.User, string, error) {
	if err := ValidateRegistration(username, email, password); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

/*
Login authenticates by username or email. Failed lookups and wrong
passwords produce the same error, so an attacker learns nothing about
which accounts exist.
*/
func (s *Service) Login(ctx context.Context, login, password string) (*types.User, string, error) {
	if !s.rateLimiter.Allow() {
		return nil, "", errors.ErrRateLimited
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", errors.ErrAccountDisabled
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GenerateToken issues an HS256 JWT whose subject is the user ID.
func (s *Service) GenerateToken(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

/*
Authenticate validates a bearer token from an Authorization header and
returns the user ID it was issued for.
*/
func (s *Service) Authenticate(authHeader string) (int64, error) {
	if authHeader == "" {
		return 0, errors.ErrUnauthorized.WithMessagef("missing authorization header")
	}

	tokenStr := authHeader
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		tokenStr = authHeader[7:]
	}

	token, err := jwt.Parse(tokenStr, s.getSigningKey)
	if err != nil || !token.Valid {
		return 0, errors.ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, errors.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, errors.ErrUnauthorized
	}

	return userID, nil
}

// CurrentUser resolves an Authorization header all the way to the account.
func (s *Service) CurrentUser(ctx context.Context, authHeader string) (*types.User, error) {
	userID, err := s.Authenticate(authHeader)
	if err != nil {
		return nil, err
	}

	return s.users.Get(ctx, userID)
}

func (s *Service) getSigningKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.signingKey, nil
}
