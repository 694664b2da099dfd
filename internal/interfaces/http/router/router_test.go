package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("invoice", "/invoices").GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "v2 invoices")
	})
	NewRouter(engine, WithAPIVersion("v2")).Register(g).Setup()

	w := serve(engine, http.MethodGet, "/api/v2/invoices")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v2 invoices", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/invoices").Code)
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	g := NewDomainGroup("invoice", "/invoices").GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "list")
	})
	NewRouter(engine).
		Use(func(c *gin.Context) {
			c.Header("X-API", "1")
			c.Next()
		}).
		Register(g).
		Setup()

	assert.Equal(t, "1", serve(engine, http.MethodGet, "/api/v1/invoices").Header().Get("X-API"))
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-API"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/products")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/products", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("invoice", "/invoices").
			GET("/:id", ok).
			POST("", ok).
			PUT("/:id", ok).
			PATCH("/:id/cancel", ok).
			DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/api/v1/invoices/1"},
			{http.MethodPost, "/api/v1/invoices"},
			{http.MethodPut, "/api/v1/invoices/1"},
			{http.MethodPatch, "/api/v1/invoices/1/cancel"},
			{http.MethodDelete, "/api/v1/invoices/1"},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
			assert.Equal(t, tt.method, w.Body.String())
		}
	})

	t.Run("static segments win over params", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("invoice", "/invoices").
			GET("/approved", func(c *gin.Context) { c.String(http.StatusOK, "approved") }).
			GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "id="+c.Param("id")) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "approved", serve(engine, http.MethodGet, "/api/v1/invoices/approved").Body.String())
		assert.Equal(t, "id=42", serve(engine, http.MethodGet, "/api/v1/invoices/42").Body.String())
	})

	t.Run("middleware only wraps its own group", func(t *testing.T) {
		engine := gin.New()
		guarded := NewDomainGroup("notification", "/notifications").
			Use(func(c *gin.Context) {
				c.AbortWithStatus(http.StatusForbidden)
			}).
			GET("/all", func(c *gin.Context) { c.String(http.StatusOK, "all") })
		open := NewDomainGroup("invoice", "/invoices").
			GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })

		NewRouter(engine).Register(guarded).Register(open).Setup()

		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/notifications/all").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/invoices").Code)
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("invoice", "/invoices")
		g.Group("mine", "/mine").GET("", func(c *gin.Context) { c.String(http.StatusOK, "mine") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/invoices/mine")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "mine", w.Body.String())
	})
}
