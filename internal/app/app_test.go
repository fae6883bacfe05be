package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"esg-dashboard/ghg-backend/internal/config"
	"esg-dashboard/ghg-backend/internal/ghg"
)

func newTestApp(t *testing.T, dbPath string) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Database.Path = dbPath
	cfg.Logging.Development = true

	a, err := New(t.Context(), cfg, zap.NewNop())
	require.NoError(t, err)
	return a
}

func do(t *testing.T, r http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApp_Health(t *testing.T) {
	a := newTestApp(t, filepath.Join(t.TempDir(), "ghg.db"))
	defer a.Close()

	w := do(t, a.Router(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestApp_CORSPreflight(t *testing.T) {
	a := newTestApp(t, filepath.Join(t.TempDir(), "ghg.db"))
	defer a.Close()

	w := do(t, a.Router(), http.MethodOptions, "/api/v1/ghg/state", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ghg.db")

	a := newTestApp(t, dbPath)
	r := a.Router()

	w := do(t, r, http.MethodPut, "/api/v1/ghg/questionnaire", ghg.Questionnaire{
		OrgName:             "Acme",
		BoundaryApproach:    ghg.BoundaryEquityShare,
		OperationalBoundary: ghg.OperationalCorporate,
		EmissionSources:     ghg.SourceScopeOne,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/v1/ghg/calculate", map[string]interface{}{
		"selection": ghg.Selection{
			Scope:        ghg.ScopeOne,
			Category:     "Stationary",
			FuelCategory: "Gaseous Fuels",
			FuelType:     "Compressed Natural Gas",
			Amount:       1000,
			Unit:         "kg",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/ghg/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "GHG_Assessment_Acme_")
	require.NoError(t, a.Close())

	restarted := newTestApp(t, dbPath)
	defer restarted.Close()

	snap := restarted.GHG.Snapshot(t.Context(), "alice")
	assert.Equal(t, "Acme", snap.Questionnaire.OrgName)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "Compressed Natural Gas", snap.Entries[0].FuelType)
	assert.Equal(t, ghg.StepCalculator, snap.Step)
}
