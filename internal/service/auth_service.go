package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
)

var ErrTokenInvalid = errors.New("token invalid")

// SignupInput 注册参数
type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=150,alphanum"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Claims access token 载荷
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService 注册 / 登录 / 解析 token
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	issuer   string
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, secret string, ttl time.Duration, issuer string) AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{userRepo: userRepo, secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: in.Username, Email: in.Email, Password: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 并发注册同名用户时由唯一索引兜底
		if repository.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) issue(user *model.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
