package apitest

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// TokenPair 一次签发的令牌对
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Claims 令牌声明
type Claims struct {
	jwt.RegisteredClaims
	Rol  int    `json:"rol"`
	Sede int    `json:"sede"`
	Kind string `json:"kind"`
}

type account struct {
	id       int
	email    string
	name     string
	password string
	rol      int
	sede     int
}

type contextKey string

const claimsKey contextKey = "claims"

// generate 签发 HS256 令牌，jti 使用 uuid
func (s *Server) generate(a *account, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(a.id),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Rol:  a.rol,
		Sede: a.sede,
		Kind: kind,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parse 校验签名与有效期并返回声明
func (s *Server) parse(token, kind string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, errors.New("invalid token kind")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked[claims.ID] {
		return nil, errors.New("token revoked")
	}
	return claims, nil
}

// authenticate 认证中间件的校验函数
func (s *Server) authenticate(c *gin.Context) (map[any]any, error) {
	s.mu.Lock()
	expired := s.unauthorized
	s.mu.Unlock()
	if expired {
		return nil, errors.New("Unauthorized")
	}

	token := bearer(c)
	if token == "" {
		return nil, errors.New("Unauthorized")
	}
	claims, err := s.parse(token, kindAccess)
	if err != nil {
		return nil, errors.New("Unauthorized")
	}
	c.Set(string(claimsKey), claims)
	return map[any]any{claimsKey: claims}, nil
}

// issue 签发令牌对并写出令牌响应
func (s *Server) issue(c *gin.Context, a *account) {
	s.mu.Lock()
	ttl := s.tokenTTL
	s.mu.Unlock()

	access, err := s.generate(a, kindAccess, ttl)
	if err != nil {
		errorBody(c, http.StatusInternalServerError, err.Error())
		return
	}
	refresh, err := s.generate(a, kindRefresh, 24*time.Hour)
	if err != nil {
		errorBody(c, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	s.issued = append(s.issued, TokenPair{AccessToken: access, RefreshToken: refresh})
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"access_token":        access,
		"refresh_token":       refresh,
		"expirationInSeconds": int(ttl / time.Second),
		"type":                1,
		"rol":                 a.rol,
		"sede":                a.sede,
	})
}

func (s *Server) signIn(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	a, ok := s.accounts[req.Username]
	s.mu.Unlock()
	if !ok || a.password != req.Password {
		errorBody(c, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	s.issue(c, a)
}

func (s *Server) signUp(c *gin.Context) {
	var req struct {
		UserName string `json:"userName" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		errorBody(c, http.StatusConflict, "El correo ya está registrado")
		return
	}
	a := &account{
		id:       len(s.accounts) + 1,
		email:    req.Email,
		name:     req.UserName,
		password: req.Password,
		rol:      3,
		sede:     1,
	}
	s.accounts[req.Email] = a
	s.mu.Unlock()

	s.issue(c, a)
}

// signOut 吊销当前访问令牌
func (s *Server) signOut(c *gin.Context) {
	if claims, ok := c.Get(string(claimsKey)); ok {
		s.mu.Lock()
		s.revoked[claims.(*Claims).ID] = true
		s.mu.Unlock()
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada"})
}

// refresh 校验令牌对后签发新的令牌对，旧刷新令牌作废
func (s *Server) refresh(c *gin.Context) {
	s.mu.Lock()
	status := s.refreshStatus
	s.mu.Unlock()
	if status != 0 && status != http.StatusOK {
		errorBody(c, status, http.StatusText(status))
		return
	}

	var req struct {
		AccessToken  string `json:"access_token" binding:"required"`
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, err.Error())
		return
	}
	claims, err := s.parse(req.RefreshToken, kindRefresh)
	if err != nil {
		errorBody(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.mu.Lock()
	s.revoked[claims.ID] = true
	var owner *account
	for _, a := range s.accounts {
		if fmt.Sprint(a.id) == claims.Subject {
			owner = a
			break
		}
	}
	s.mu.Unlock()
	if owner == nil {
		errorBody(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.issue(c, owner)
}

func (s *Server) validate(c *gin.Context) {
	claims := c.MustGet(string(claimsKey)).(*Claims)
	remaining := time.Until(claims.ExpiresAt.Time)
	c.JSON(http.StatusOK, gin.H{
		"status":              "valid",
		"expirationInSeconds": int(remaining / time.Second),
		"type":                1,
	})
}

func (s *Server) me(c *gin.Context) {
	claims := c.MustGet(string(claimsKey)).(*Claims)
	item, ok := s.collection("users").get(claims.Subject)
	if !ok {
		errorBody(c, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	c.JSON(http.StatusOK, item)
}

// acknowledge 只返回确认消息的接口
func (s *Server) acknowledge(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
