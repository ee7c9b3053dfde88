package service

import (
	"context"
	"errors"
	"time"

	"Campus/config"
	"Campus/dao"
	"Campus/models"
	"Campus/pkg/jwt"
	"Campus/pkg/response"
	"Campus/types"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.TokenPairResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.TokenPairResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*types.TokenPairResponse, error)
	Profile(ctx context.Context, userID int64) (*types.UserProfile, error)
}

type AuthService struct {
	Conf    *config.Config
	UserDAO *dao.UserDAO
}

var _ IAuthService = (*AuthService)(nil)

func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*types.TokenPairResponse, error) {
	if _, err := s.UserDAO.GetByEmail(ctx, req.Email); err == nil {
		return nil, response.Conflict("邮箱已注册")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RolePaid,
		IsActive:     true,
	}
	if err := s.UserDAO.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*types.TokenPairResponse, error) {
	user, err := s.UserDAO.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewError(401, "邮箱或密码错误")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, response.Forbidden("账号已停用")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, response.NewError(401, "邮箱或密码错误")
	}
	return s.issueTokens(user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*types.TokenPairResponse, error) {
	claims, err := jwt.ParseToken([]byte(s.Conf.Jwt.Secret), TokenTypeRefresh, refreshToken)
	if err != nil {
		return nil, response.NewError(401, "refresh token 无效")
	}

	user, err := s.UserDAO.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewError(401, "用户不存在")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, response.Forbidden("账号已停用")
	}
	return s.issueTokens(user)
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	user, err := s.UserDAO.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("用户不存在")
		}
		return nil, err
	}
	return &types.UserProfile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
	}, nil
}

func (s *AuthService) issueTokens(user *models.User) (*types.TokenPairResponse, error) {
	secret := []byte(s.Conf.Jwt.Secret)
	access, err := jwt.GenerateToken(secret, user.ID, user.Role, TokenTypeAccess,
		time.Duration(s.Conf.Jwt.AccessExpire)*time.Second)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.GenerateToken(secret, user.ID, user.Role, TokenTypeRefresh,
		time.Duration(s.Conf.Jwt.RefreshExpire)*time.Second)
	if err != nil {
		return nil, err
	}
	return &types.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}
