package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouter_Setup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	reports := NewDomainGroup("report", "/reports")
	reports.GET("/summary", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	NewRouter(engine, WithAPIVersion("v1")).Register(reports).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Use_AppliesToAllGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewDomainGroup("billing", "/invoices")
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tagged": c.GetBool("tagged")})
	})

	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Set("tagged", true)
		c.Next()
	})
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tagged":true`)
}

func TestDomainGroup_MethodRegistration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewDomainGroup("partner", "/clients")
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	group.POST("", handler).GET("/:id", handler).PUT("/:id", handler).DELETE("/:id", handler)

	NewRouter(engine).Register(group).Setup()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/clients"},
		{http.MethodGet, "/api/v1/clients/abc"},
		{http.MethodPut, "/api/v1/clients/abc"},
		{http.MethodDelete, "/api/v1/clients/abc"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
	}

	assert.Equal(t, "partner", group.Name())
}
