package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/fitclubhq/fitclub-backend/internal/config"
	"github.com/fitclubhq/fitclub-backend/internal/models"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakCredentials    = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired session token")
	ErrUserNotFound       = errors.New("user not found")
)

// SessionTokens pairs the short-lived JWT auth token with the opaque
// long-lived session token.
type SessionTokens struct {
	AuthToken    string
	SessionToken string
}

// AuthService is the identity provider: accounts, sessions and token
// issuance, all tenant-scoped.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) CreateAccount(ctx context.Context, tenantID, email, password, name string) (*models.Identity, *SessionTokens, error) {
	if email == "" {
		return nil, nil, fmt.Errorf("%w: email required", ErrInvalidCredentials)
	}
	if len(password) < 8 {
		return nil, nil, ErrWeakCredentials
	}

	var existing models.Identity
	if err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := models.Identity{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		Password:     string(hash),
		DisplayName:  name,
		Role:         models.RoleMember,
		AuthProvider: "email",
	}

	if err := s.db.WithContext(ctx).Create(&identity).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create identity: %w", err)
	}

	tokens, err := s.issueTokens(ctx, tenantID, &identity)
	if err != nil {
		return nil, nil, err
	}
	return &identity, tokens, nil
}

func (s *AuthService) CreateSession(ctx context.Context, tenantID, email, password string) (*models.Identity, *SessionTokens, error) {
	var identity models.Identity
	if err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).Where("email = ?", email).First(&identity).Error; err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, tenantID, &identity)
	if err != nil {
		return nil, nil, err
	}
	return &identity, tokens, nil
}

// Refresh rotates a session token: the presented token is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, tenantID, sessionToken string) (*models.Identity, *SessionTokens, error) {
	tokenHash := hashToken(sessionToken)

	var stored models.RefreshToken
	if err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.WithContext(ctx).Model(&stored).Update("revoked", true)
		return nil, nil, ErrInvalidToken
	}

	s.db.WithContext(ctx).Model(&stored).Update("revoked", true)

	var identity models.Identity
	if err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).First(&identity, "id = ?", stored.UserID).Error; err != nil {
		return nil, nil, fmt.Errorf("identity not found: %w", err)
	}

	tokens, err := s.issueTokens(ctx, tenantID, &identity)
	if err != nil {
		return nil, nil, err
	}
	return &identity, tokens, nil
}

// DeleteSession revokes the session token. Missing tokens are not an error;
// the session is gone either way.
func (s *AuthService) DeleteSession(ctx context.Context, tenantID, sessionToken string) error {
	tokenHash := hashToken(sessionToken)
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Scopes(tenant.ForTenant(tenantID)).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// CurrentUser resolves the identity behind an unexpired session token.
func (s *AuthService) CurrentUser(ctx context.Context, tenantID, sessionToken string) (*models.Identity, error) {
	tokenHash := hashToken(sessionToken)

	var stored models.RefreshToken
	if err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var identity models.Identity
	if err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).First(&identity, "id = ?", stored.UserID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &identity, nil
}

func (s *AuthService) issueTokens(ctx context.Context, tenantID string, identity *models.Identity) (*SessionTokens, error) {
	authToken, err := s.generateAuthToken(tenantID, identity)
	if err != nil {
		return nil, err
	}

	sessionToken, err := s.generateSessionToken(ctx, tenantID, identity)
	if err != nil {
		return nil, err
	}

	return &SessionTokens{AuthToken: authToken, SessionToken: sessionToken}, nil
}

func (s *AuthService) generateAuthToken(tenantID string, identity *models.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":       identity.ID.String(),
		"email":     identity.Email,
		"tenant_id": tenantID,
		"role":      identity.Role,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateSessionToken(ctx context.Context, tenantID string, identity *models.Identity) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.RefreshToken{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    identity.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
