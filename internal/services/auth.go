package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/repos"
	"github.com/yungbote/studymaster-backend/internal/requestdata"
	"github.com/yungbote/studymaster-backend/internal/types"
)

// AuthService is the authentication collaborator's surface: it mints and
// validates bearer credentials. The pipeline itself never reads ambient
// session state; identity always arrives through the request context.
type AuthService interface {
	Register(ctx context.Context, tx *gorm.DB, email, name string) (*AuthTokens, error)
	Login(ctx context.Context, tx *gorm.DB, email string) (*AuthTokens, error)
	Refresh(ctx context.Context, tx *gorm.DB, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, tx *gorm.DB, refreshToken string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type AuthTokens struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	UserID       uuid.UUID `json:"userId"`
}

type authService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	userTokenRepo   repos.UserTokenRepo
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecret string,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) AuthService {
	return &authService{
		db:              db,
		log:             baseLog.With("service", "AuthService"),
		userRepo:        userRepo,
		userTokenRepo:   userTokenRepo,
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, tx *gorm.DB, email, name string) (*AuthTokens, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	user := &types.User{ID: uuid.New(), Email: email, Name: name}
	if _, err := s.userRepo.Create(ctx, transaction, []*types.User{user}); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, transaction, user.ID)
}

func (s *authService) Login(ctx context.Context, tx *gorm.DB, email string) (*AuthTokens, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	user, err := s.userRepo.GetByEmail(ctx, transaction, email)
	if err != nil {
		return nil, fmt.Errorf("unknown user")
	}
	return s.issueTokens(ctx, transaction, user.ID)
}

func (s *authService) Refresh(ctx context.Context, tx *gorm.DB, refreshToken string) (*AuthTokens, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	stored, err := s.userTokenRepo.GetByToken(ctx, transaction, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.userTokenRepo.DeleteByToken(ctx, transaction, refreshToken)
		return nil, fmt.Errorf("refresh token expired")
	}
	if err := s.userTokenRepo.DeleteByToken(ctx, transaction, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, transaction, stored.UserID)
}

func (s *authService) Logout(ctx context.Context, tx *gorm.DB, refreshToken string) error {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}
	return s.userTokenRepo.DeleteByToken(ctx, transaction, refreshToken)
}

func (s *authService) issueTokens(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*AuthTokens, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	refresh := uuid.New().String()
	_, err = s.userTokenRepo.Create(ctx, tx, &types.UserToken{
		UserID:    userID,
		Token:     refresh,
		ExpiresAt: now.Add(s.refreshTokenTTL),
	})
	if err != nil {
		return nil, err
	}

	return &AuthTokens{AccessToken: access, RefreshToken: refresh, UserID: userID}, nil
}

// SetContextFromToken validates the bearer token and attaches the caller's
// identity to the context as an explicit capability.
func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return ctx, fmt.Errorf("invalid token claims")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid token subject")
	}

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}
