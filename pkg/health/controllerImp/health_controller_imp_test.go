package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentrix/database"
)

func call(t *testing.T, h *HealthCtrl) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.Health(c))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealth_OK(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	code, body := call(t, NewHealthCtrl(db, "1.2.3"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, map[string]any{"ok": true}, body["status"])
}

func TestHealth_DBDown(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	code, body := call(t, NewHealthCtrl(db, "dev"))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	checks := body["checks"].(map[string]any)["database"].(map[string]any)
	assert.Equal(t, false, checks["ok"])
	assert.Contains(t, checks["err"], "ping")

	code, _ = call(t, NewHealthCtrl(nil, "dev"))
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
