// backend/controllers/reportController_test.go
package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mapa-despesas/backend/config"
	"mapa-despesas/backend/services"

	json "github.com/goccy/go-json"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToParamsAppliesDefaults(t *testing.T) {
	config.AppConfig.CompanyName = "Empresa Configurada"
	config.AppConfig.CompanyNIPC = "501234567"
	config.AppConfig.GestorName = "Gestor Configurado"

	body := reportBody{Year: 2024, Month: 3}
	p := body.toParams()

	assert.Equal(t, config.MaxDailyDefault, p.MaxDaily)
	assert.Equal(t, config.MaxTotalDefault, p.MaxTotal)
	assert.Equal(t, "Empresa Configurada", p.CompanyName)
	assert.Equal(t, "501234567", p.CompanyNIPC)
	assert.Equal(t, "Gestor Configurado", p.GestorName)
}

func TestToParamsUses2025LegalLimit(t *testing.T) {
	body := reportBody{Year: 2025, Month: 1}
	p := body.toParams()
	assert.Equal(t, config.LegalMaxDaily2025, p.MaxDaily)
}

func TestToParamsKeepsExplicitValues(t *testing.T) {
	body := reportBody{
		Year:        2024,
		Month:       3,
		MaxDaily:    50,
		MaxTotal:    800,
		CompanyNIPC: "509999999",
	}
	p := body.toParams()

	assert.Equal(t, 50.0, p.MaxDaily)
	assert.Equal(t, 800.0, p.MaxTotal)
	assert.Equal(t, "509999999", p.CompanyNIPC)
}

func TestGetAuditLogsFiltersAndLimits(t *testing.T) {
	services.InitAuditLog(t.TempDir() + "/audit_log.json")

	admin := services.Actor{Username: "admin", Role: "Administrador", IPAddress: "10.0.0.1", SessionID: "s1"}
	gestor := services.Actor{Username: "gestor", Role: "Gestor", IPAddress: "10.0.0.2", SessionID: "s2"}
	require.NoError(t, services.Audit.LogLogin(admin))
	require.NoError(t, services.Audit.LogLogin(gestor))
	require.NoError(t, services.Audit.LogExcelDownload(gestor, "MapaDespesas_2024_05_501234567.xlsx"))

	r := gin.New()
	r.GET("/logs", GetAuditLogs)

	do := func(query string) (int, []services.AuditEntry) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/logs"+query, nil)
		r.ServeHTTP(w, req)

		var resp struct {
			Data []services.AuditEntry `json:"data"`
		}
		if w.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		}
		return w.Code, resp.Data
	}

	code, all := do("")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, all, 3)

	code, byUser := do("?username=gestor")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, byUser, 2)

	code, byAction := do("?action=" + services.ActionExcelDownload)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, byAction, 1)
	assert.Equal(t, "gestor", byAction[0].Username)

	code, limited := do("?limit=1")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, limited, 1)

	code, _ = do("?limit=abc")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do("?limit=0")
	assert.Equal(t, http.StatusBadRequest, code)
}
