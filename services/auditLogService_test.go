// backend/services/auditLogService_test.go
package services

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuditLog(t *testing.T) *AuditLog {
	t.Helper()
	return NewAuditLog(filepath.Join(t.TempDir(), "audit_log.json"))
}

func testActor() Actor {
	return Actor{
		Username:  "gestor",
		Role:      "Gestor",
		IPAddress: "127.0.0.1",
		SessionID: "sessao-1",
	}
}

func TestRecordAndQuery(t *testing.T) {
	l := testAuditLog(t)

	require.NoError(t, l.LogLogin(testActor()))
	require.NoError(t, l.LogLogout(testActor()))

	entries := l.Query("", "", 0)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Equal(t, "gestor", e.Username)
		assert.Equal(t, "Gestor", e.UserRole)
		assert.Equal(t, "127.0.0.1", e.IPAddress)
		assert.Equal(t, "sessao-1", e.SessionID)
		assert.NotEmpty(t, e.Timestamp)
	}
}

func TestSensitiveDetailsAreMasked(t *testing.T) {
	l := testAuditLog(t)

	require.NoError(t, l.LogReportGeneration(testActor(), 2024, 5, 845.0, 65.0))

	entries := l.Query("", ActionReportGeneration, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, SensitiveMask, entries[0].Details)
}

func TestQueryFilters(t *testing.T) {
	l := testAuditLog(t)

	admin := Actor{Username: "admin", Role: "Administrador", IPAddress: "10.0.0.1", SessionID: "s-admin"}
	require.NoError(t, l.LogLogin(admin))
	require.NoError(t, l.LogLogin(testActor()))
	require.NoError(t, l.LogExcelDownload(testActor(), "MapaDespesas_2024_05_509876543.xlsx"))

	byUser := l.Query("admin", "", 0)
	require.Len(t, byUser, 1)
	assert.Equal(t, "admin", byUser[0].Username)

	byAction := l.Query("", ActionExcelDownload, 0)
	require.Len(t, byAction, 1)
	assert.Equal(t, ActionExcelDownload, byAction[0].Action)

	limited := l.Query("", "", 2)
	assert.Len(t, limited, 2)
}

func TestTrimKeepsNewestEntries(t *testing.T) {
	l := testAuditLog(t)

	for i := 0; i < maxEntries+5; i++ {
		require.NoError(t, l.Record(testActor(), ActionLogin, fmt.Sprintf("entrada %d", i), false))
	}

	entries := l.Query("", "", 0)
	require.Len(t, entries, maxEntries)

	// As entradas mais antigas foram descartadas.
	for _, e := range entries {
		assert.NotEqual(t, "entrada 0", e.Details)
		assert.NotEqual(t, "entrada 4", e.Details)
	}
}

func TestCorruptFileLoadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_log.json")
	require.NoError(t, os.WriteFile(path, []byte("{isto não é um array"), 0o644))

	l := NewAuditLog(path)
	assert.Empty(t, l.Query("", "", 0))

	// E continua a aceitar novas entradas.
	require.NoError(t, l.LogLogin(testActor()))
	assert.Len(t, l.Query("", "", 0), 1)
}

func TestMissingFileLoadsAsEmpty(t *testing.T) {
	l := NewAuditLog(filepath.Join(t.TempDir(), "inexistente.json"))
	assert.Empty(t, l.Query("", "", 0))
}
