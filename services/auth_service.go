package services

import (
	"context"
	"errors"
	"fmt"
	"gin-itemtracker/models"
	"gin-itemtracker/repositories"
	"sync"

	"go.uber.org/zap"
)

type IAuthService interface {
	Register(ctx context.Context, username string, email string, password string) (*models.User, error)
	Login(ctx context.Context, username string, password string) (string, *models.User, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error)
	EnsureAdmin(ctx context.Context, username string, email string, password string) (bool, error)
}

type AuthService struct {
	repository repositories.IAuthRepository
	hasher     IPasswordHasher
	tokens     ITokenService
	logs       *zap.SugaredLogger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(repository repositories.IAuthRepository, hasher IPasswordHasher, tokens ITokenService, logger *zap.SugaredLogger) IAuthService {
	return &AuthService{
		repository: repository,
		hasher:     hasher,
		tokens:     tokens,
		logs:       logger,
	}
}

func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (*models.User, error) {
	exists, err := s.repository.ExistsUser(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, ErrConflict
	}

	return s.createUser(ctx, username, email, password, false)
}

func (s *AuthService) createUser(ctx context.Context, username string, email string, password string, superuser bool) (*models.User, error) {
	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		IsSuperuser:    superuser,
	}
	if err := s.repository.CreateUser(ctx, user); err != nil {
		// 事前チェックをすり抜けた同時登録はここで捕まる
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login はユーザー不在とパスワード不一致を区別せずErrInvalidCredentialsを返す
func (s *AuthService) Login(ctx context.Context, username string, password string) (string, *models.User, error) {
	foundUser, err := s.repository.FindUser(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// 存在しないユーザーでも同じだけハッシュ照合の時間をかける
			s.hasher.Verify(password, s.dummyHash())
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, foundUser.HashedPassword) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(TokenClaims{Subject: foundUser.Username, Role: foundUser.Role()})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, foundUser, nil
}

// dummyHash はユーザー不在時の照合に使うダイジェスト。同じコストで一度だけ生成する
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("dummy-password-for-timing")
		if err != nil {
			s.logs.Errorw("failed to prepare dummy digest", "error", err)
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

// GetUserFromToken はトークンの検証失敗も未知のユーザーも同じErrUnauthenticatedにする。
// ロールはトークンのクレームではなくDBから読んだユーザーのものを使う
func (s *AuthService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.repository.FindUser(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			s.logs.Errorw("failed to load token subject", "error", err)
		}
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// EnsureAdmin は初期管理者を作成する。既に存在すれば何もしない
func (s *AuthService) EnsureAdmin(ctx context.Context, username string, email string, password string) (bool, error) {
	_, err := s.repository.FindUser(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	if _, err := s.createUser(ctx, username, email, password, true); err != nil {
		// 別プロセスが先に作成した場合
		if errors.Is(err, ErrConflict) {
			return false, nil
		}
		return false, err
	}
	s.logs.Infow("bootstrap admin created", "username", username)
	return true, nil
}
