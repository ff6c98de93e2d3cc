package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

type UserRepository interface {
	GetPasswordForEmail(email string) (passwordHash string, userID int64, err error)
	GetUserByID(userID int64) (*userDatamodel.User, error)
}

// BalanceRefresher brings a user's leave balance current. Login applies it so
// every authenticated session starts from a fresh balance.
type BalanceRefresher interface {
	EnsureCurrentYear(u *userDatamodel.User) error
}

type TokenGenerator interface {
	GenerateAccessToken(user *User) (string, error)
	GenerateRefreshToken(user *User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Service is the main auth service with dependencies.
type Service struct {
	userRepo       UserRepository
	balance        BalanceRefresher
	tokenGenerator TokenGenerator
	bcryptCost     int
}

func NewService(userRepo UserRepository, balance BalanceRefresher, tokenGen TokenGenerator) *Service {
	return &Service{
		userRepo:       userRepo,
		balance:        balance,
		tokenGenerator: tokenGen,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials, refreshes the yearly balance and
// returns tokens plus the safe user profile.
func (s *Service) Authenticate(dto LoginDTO) (LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return LoginResponse{}, err
	}

	storedHash, userID, err := s.userRepo.GetPasswordForEmail(dto.Email)
	if err != nil {
		return LoginResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return LoginResponse{}, ErrInvalidCredentials
	}

	record, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return LoginResponse{}, ErrInvalidCredentials
	}
	if !record.IsActive {
		return LoginResponse{}, ErrUserInactive
	}

	// Balance freshness is guaranteed on every authentication, not assumed.
	if err := s.balance.EnsureCurrentYear(record); err != nil {
		return LoginResponse{}, err
	}

	user := &User{
		ID:       record.ID,
		Email:    record.Email,
		FullName: record.FullName,
		Role:     record.Role,
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(user)
	if err != nil {
		return LoginResponse{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(user)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		AuthTokens: AuthTokens{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		User: UserProfile{
			ID:                     record.ID,
			FullName:               record.FullName,
			Email:                  record.Email,
			Role:                   record.Role,
			ProfilePictureURL:      record.ProfilePictureURL,
			LeaveBalance:           record.LeaveBalance,
			CarryOverBalance:       record.CarryOverBalance,
			AnnualLeaveEntitlement: record.AnnualLeaveEntitlement,
			LeaveYear:              record.LeaveYear,
		},
	}, nil
}

// RefreshTokens validates a refresh token and issues a new pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	record, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}
	if !record.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	user := &User{
		ID:       record.ID,
		Email:    record.Email,
		FullName: record.FullName,
		Role:     record.Role,
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(user)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(user)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// ValidateAccessToken validates access token and returns claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetUser loads the authenticated identity for a validated user id.
func (s *Service) GetUser(userID int64) (*User, error) {
	record, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if !record.IsActive {
		return nil, ErrUserInactive
	}
	return &User{
		ID:       record.ID,
		Email:    record.Email,
		FullName: record.FullName,
		Role:     record.Role,
	}, nil
}

// HashPassword creates a bcrypt hash of the password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (j *JWTTokenGenerator) generate(user *User, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) GenerateAccessToken(user *User) (string, error) {
	return j.generate(user, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(user *User) (string, error) {
	return j.generate(user, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

// ValidateToken validates a JWT token and returns claims.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Long-lived tokens were signed with the refresh secret.
		if claims, ok := token.Claims.(*Claims); ok && claims.ExpiresAt != nil {
			if time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
