package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testGateway(t *testing.T) *Gateway {
	t.Helper()
	g := NewGateway(&config.Config{}, zap.NewNop(), Deps{})
	g.SetupRoutes()
	return g
}

// Every admin route must refuse a request that carries no member
// identity before it touches any backing store.
func TestAdminRoutesRequireMemberIdentity(t *testing.T) {
	g := testGateway(t)

	paths := []string{
		"/api/admin/orders",
		"/api/admin/shipping/governorates",
		"/api/admin/shipments/AWB123",
		"/api/admin/finance/business-analysis",
		"/api/admin/analytics/full",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		g.Router().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestHealthOpen(t *testing.T) {
	g := testGateway(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	g.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
