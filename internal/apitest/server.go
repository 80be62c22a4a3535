// Package apitest 提供测试用的后台接口桩，基于 gin 实现认证与各资源的增删改查
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// AdminEmail 预置管理员账号
	AdminEmail = "admin@divinalaser.com"
	// AdminPassword 预置管理员密码
	AdminPassword = "12345678"
)

// Server 接口桩
type Server struct {
	*httptest.Server

	engine *gin.Engine
	secret []byte

	mu            sync.Mutex
	accounts      map[string]*account
	revoked       map[string]bool
	tokenTTL      time.Duration
	refreshStatus int
	unauthorized  bool
	hits          map[string]int
	issued        []TokenPair

	collections map[string]*collection
}

// Option 接口桩选项
type Option func(*Server)

// WithTokenTTL 设置签发令牌的有效期
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.tokenTTL = ttl
	}
}

// New 启动接口桩，测试结束时自动关闭
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		engine:      gin.New(),
		secret:      []byte("divina-test-secret"),
		accounts:    make(map[string]*account),
		revoked:     make(map[string]bool),
		tokenTTL:    time.Hour,
		hits:        make(map[string]int),
		collections: make(map[string]*collection),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	s.routes()

	s.Server = httptest.NewServer(s.engine)
	t.Cleanup(s.Close)
	return s
}

// Hits 返回某个路由被请求的次数，route 为 gin 路由模板，如 "GET /customers"
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// SetRefreshStatus 令刷新接口固定返回 status，0 表示恢复正常
func (s *Server) SetRefreshStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshStatus = status
}

// ExpireSessions 令所有需要认证的请求返回 401
func (s *Server) ExpireSessions(expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unauthorized = expired
}

// Issued 返回已签发的令牌对，按签发顺序
func (s *Server) Issued() []TokenPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TokenPair(nil), s.issued...)
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), s.countHits())
	s.engine.Use(authWithConfig(authConfig{
		SkippedPathPrefixes: []string{
			"/auth/sign-in", "/auth/sign-up", "/auth/refresh",
			"/auth/forgot-password", "/auth/reset-password",
		},
		Validate: s.authenticate,
	}))

	auth := s.engine.Group("/auth")
	auth.POST("/sign-in", s.signIn)
	auth.POST("/sign-up", s.signUp)
	auth.POST("/sign-out", s.signOut)
	auth.POST("/refresh", s.refresh)
	auth.GET("/validate", s.validate)
	auth.POST("/forgot-password", s.acknowledge)
	auth.POST("/reset-password", s.acknowledge)

	s.engine.GET("/me", s.me)

	s.mount("users", "/users")
	s.engine.GET("/users/metadata", s.metadata("users", "totalUsers", "activeUsers", "newUsers"))
	s.engine.GET("/users/roles", s.catalog("roles"))
	s.engine.GET("/users/statuses", s.catalog("statuses"))
	s.engine.PATCH("/users/:id/password", s.acknowledge)

	s.mount("sedes", "/sedes")
	s.mount("roles", "/roles")
	s.engine.GET("/roles/metadata", s.metadata("roles", "totalRoles"))
	s.mount("depilatory-machines", "/depilatory-machines")
	s.mount("treated-areas", "/treated-areas")
	s.engine.POST("/treated-areas/create-monthly-promotion", s.create("promotions"))
	s.engine.PATCH("/treated-areas/update-monthly-promotion", s.updateFromBody("promotions"))

	s.mount("customers", "/customers")
	s.engine.GET("/customers/metadata", s.metadata("customers", "totalCustomers", "activeCustomers", "newCustomers"))
	s.engine.GET("/customers/payment-methods", s.catalog("payment-methods"))
	s.engine.GET("/customers/:id/treatments", s.listChildren("treatments", "customerId"))
	s.engine.POST("/customers/:id/treatments", s.createChild("treatments", "customerId"))
	s.engine.GET("/customers/:id/treatments/:child", s.get("treatments", "child"))
	s.engine.PATCH("/customers/:id/treatments/:child", s.update("treatments", "child"))
	s.engine.GET("/customers/:id/payments", s.listChildren("payments", "customerId"))
	s.engine.GET("/customers/:id/payments/:child", s.get("payments", "child"))
	s.engine.POST("/customers/treatments/:child/payments", s.createChild("payments", "treatmentId"))
	s.engine.PATCH("/customers/treatments/:child/payments/:payment", s.update("payments", "payment"))
}

// countHits 按路由模板统计请求次数
func (s *Server) countHits() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.Method + " " + c.FullPath()
		s.mu.Lock()
		s.hits[route]++
		s.mu.Unlock()
		c.Next()
	}
}

// errorBody 与后台一致的错误响应
func errorBody(c *gin.Context, status int, message any) {
	c.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"message":    message,
		"error":      http.StatusText(status),
	})
}

func bearer(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return token
}
