package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	stderrors "errors"
	"strings"
	"time"

	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/models"
	"github.com/wfunc/hangman-game/internal/repository"
	"github.com/wfunc/hangman-game/internal/utils"
	"go.uber.org/zap"
)

// authService 认证服务实现
type authService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
	now        func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, log *zap.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log,
		now:        time.Now,
	}
}

// SignUp 用户注册
func (s *authService) SignUp(ctx context.Context, req *SignUpRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 3 || len(name) > 20 {
		return nil, errors.New(errors.ErrValidation, "name must be 3-20 characters")
	}
	if len(req.Password) < 8 {
		return nil, errors.New(errors.ErrValidation, "password must be at least 8 characters")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUnknown, "hash password")
	}

	user := &models.User{
		Name:         name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateKey) {
			return nil, errors.New(errors.ErrConflict, "name or email already registered")
		}
		s.log.Error("Failed to create user", zap.Error(err))
		return nil, errors.Wrap(err, errors.ErrDatabaseWrite, "create user")
	}

	s.log.Info("User signed up", zap.String("userID", user.ID), zap.String("name", user.Name))
	return s.issue(ctx, user)
}

// Login 用户登录
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.New(errors.ErrInvalidCredentials)
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "find user")
	}

	ok, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		s.log.Error("Stored password hash unreadable", zap.String("userID", user.ID), zap.Error(err))
		return nil, errors.New(errors.ErrInvalidCredentials)
	}
	if !ok {
		return nil, errors.New(errors.ErrInvalidCredentials)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.log.Warn("Failed to update last login", zap.String("userID", user.ID), zap.Error(err))
	}
	s.log.Info("User logged in", zap.String("userID", user.ID))
	return s.issue(ctx, user)
}

// Refresh rotates the token pair. The presented refresh token must match
// the one stored at the last issue; reuse of an old token is rejected.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, errors.New(errors.ErrUnauthenticated, "refresh token missing")
	}
	claims, err := s.jwtManager.Validate(refreshToken, utils.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID())
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.New(errors.ErrTokenInvalid, "user no longer exists")
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "find user")
	}
	if user.RefreshToken == nil || !sameDigest(*user.RefreshToken, digest(refreshToken)) {
		return nil, errors.New(errors.ErrTokenInvalid, "refresh token revoked")
	}

	return s.issue(ctx, user)
}

// Logout 注销，清除刷新令牌
func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return errors.Wrap(err, errors.ErrDatabaseWrite, "clear refresh token")
	}
	s.log.Info("User logged out", zap.String("userID", userID))
	return nil
}

// ValidateToken 验证访问令牌
func (s *authService) ValidateToken(ctx context.Context, accessToken string) (*utils.Claims, error) {
	if accessToken == "" {
		return nil, errors.New(errors.ErrUnauthenticated)
	}
	claims, err := s.jwtManager.Validate(accessToken, utils.AccessToken)
	if err != nil {
		return nil, tokenError(err)
	}
	return claims, nil
}

// Me 当前用户
func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.New(errors.ErrNotFound, "user")
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "find user")
	}
	return user, nil
}

// issue 签发令牌并保存刷新令牌摘要
func (s *authService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	pair, err := s.jwtManager.IssuePair(user.ID, user.Name)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUnknown, "sign tokens")
	}
	d := digest(pair.RefreshToken)
	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, &d); err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseWrite, "store refresh token")
	}
	return &AuthResponse{User: user, Tokens: pair}, nil
}

func tokenError(err error) error {
	if stderrors.Is(err, utils.ErrExpiredToken) {
		return errors.Wrap(err, errors.ErrTokenExpired)
	}
	return errors.Wrap(err, errors.ErrTokenInvalid)
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func sameDigest(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
