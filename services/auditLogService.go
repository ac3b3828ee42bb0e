// backend/services/auditLogService.go
package services

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// Ações registadas no log de auditoria.
const (
	ActionLogin            = "LOGIN"
	ActionLogout           = "LOGOUT"
	ActionReportGeneration = "GERAÇÃO_MAPA_DESPESAS"
	ActionExcelDownload    = "DOWNLOAD_EXCEL"
	ActionConfigChange     = "ALTERAÇÃO_CONFIGURAÇÃO"
	ActionPasswordChange   = "SENHA_ALTERADA"
	ActionUserCreation     = "CRIAÇÃO_UTILIZADOR"
)

// SensitiveMask substitui os detalhes de entradas marcadas como sensíveis.
const SensitiveMask = "[DADOS SENSÍVEIS]"

// maxEntries limita o tamanho do ficheiro: apenas as 1000 entradas mais
// recentes são mantidas.
const maxEntries = 1000

// AuditEntry é uma entrada do log de auditoria tal como é serializada.
type AuditEntry struct {
	Timestamp string `json:"timestamp"`
	Username  string `json:"username"`
	UserRole  string `json:"user_role"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	IPAddress string `json:"ip_address"`
	SessionID string `json:"session_id"`
}

// Actor identifica quem executou a ação registada.
type Actor struct {
	Username  string
	Role      string
	IPAddress string
	SessionID string
}

// AuditLog é um log append-only guardado num ficheiro JSON.
// Todas as operações são serializadas por um mutex; o ficheiro é sempre
// reescrito por inteiro, como um array JSON.
type AuditLog struct {
	path string
	mu   sync.Mutex
}

// Audit é a instância partilhada, inicializada no arranque.
var Audit *AuditLog

// InitAuditLog cria a instância partilhada do log de auditoria.
func InitAuditLog(path string) {
	Audit = NewAuditLog(path)
}

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// load lê o ficheiro. Um ficheiro inexistente ou corrompido conta como vazio;
// o log de auditoria nunca impede a aplicação de funcionar.
func (l *AuditLog) load() []AuditEntry {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil
	}

	var entries []AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

func (l *AuditLog) save(entries []AuditEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode audit log: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// Record acrescenta uma entrada ao log. Entradas sensíveis guardam a máscara
// em vez dos detalhes.
func (l *AuditLog) Record(actor Actor, action, details string, sensitive bool) error {
	if sensitive {
		details = SensitiveMask
	}

	entry := AuditEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Username:  actor.Username,
		UserRole:  actor.Role,
		Action:    action,
		Details:   details,
		IPAddress: actor.IPAddress,
		SessionID: actor.SessionID,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries := append(l.load(), entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	return l.save(entries)
}

// Query devolve as entradas mais recentes primeiro, com filtros opcionais
// por utilizador e por ação.
func (l *AuditLog) Query(username, action string, limit int) []AuditEntry {
	l.mu.Lock()
	entries := l.load()
	l.mu.Unlock()

	var filtered []AuditEntry
	for _, e := range entries {
		if username != "" && e.Username != username {
			continue
		}
		if action != "" && e.Action != action {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp > filtered[j].Timestamp
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// LogLogin regista uma autenticação bem-sucedida.
func (l *AuditLog) LogLogin(actor Actor) error {
	details := fmt.Sprintf("Utilizador %s (%s) fez login com sucesso", actor.Username, actor.Role)
	return l.Record(actor, ActionLogin, details, false)
}

// LogLogout regista o fim de sessão.
func (l *AuditLog) LogLogout(actor Actor) error {
	details := fmt.Sprintf("Utilizador %s fez logout", actor.Username)
	return l.Record(actor, ActionLogout, details, false)
}

// LogReportGeneration regista a geração de um mapa de despesas.
// Os valores são considerados sensíveis e ficam mascarados no ficheiro.
func (l *AuditLog) LogReportGeneration(actor Actor, year, month int, total, maxDaily float64) error {
	details := fmt.Sprintf("Gerou mapa de despesas para %02d/%d - Total: %.2f€ - Máx. diário: %.2f€",
		month, year, total, maxDaily)
	return l.Record(actor, ActionReportGeneration, details, true)
}

// LogExcelDownload regista o download de um ficheiro Excel.
func (l *AuditLog) LogExcelDownload(actor Actor, filename string) error {
	details := fmt.Sprintf("Download do ficheiro: %s", filename)
	return l.Record(actor, ActionExcelDownload, details, false)
}

// LogPasswordChange regista a alteração de uma senha sem expor o seu valor.
func (l *AuditLog) LogPasswordChange(actor Actor, targetUsername string) error {
	details := fmt.Sprintf("Senha do utilizador %s alterada", targetUsername)
	return l.Record(actor, ActionPasswordChange, details, false)
}

// LogUserCreation regista a criação de um novo utilizador.
func (l *AuditLog) LogUserCreation(actor Actor, username, role string) error {
	details := fmt.Sprintf("Utilizador %s (%s) criado", username, role)
	return l.Record(actor, ActionUserCreation, details, false)
}

// LogConfigChange regista a alteração de um campo de configuração.
func (l *AuditLog) LogConfigChange(actor Actor, field, oldValue, newValue string) error {
	details := fmt.Sprintf("Campo '%s' alterado de '%s' para '%s'", field, oldValue, newValue)
	return l.Record(actor, ActionConfigChange, details, false)
}
