// backend/controllers/reportController.go
package controllers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"mapa-despesas/backend/config"
	"mapa-despesas/backend/initializers"
	"mapa-despesas/backend/models"
	"mapa-despesas/backend/services"
	"mapa-despesas/backend/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportBody é o corpo dos pedidos de pré-visualização e geração. Campos da
// empresa e do gestor omitidos caem nos valores por omissão da configuração.
type reportBody struct {
	Year     int     `json:"year" binding:"required"`
	Month    int     `json:"month" binding:"required"`
	MaxDaily float64 `json:"maxDaily"`
	MaxTotal float64 `json:"maxTotal"`

	CompanyName    string `json:"companyName"`
	CompanyNIPC    string `json:"companyNipc"`
	CompanyAddress string `json:"companyAddress"`

	GestorName      string `json:"gestorName"`
	GestorAddress   string `json:"gestorAddress"`
	GestorNIFPS     string `json:"gestorNifps"`
	GestorCategoria string `json:"gestorCategoria"`
}

func (b reportBody) toParams() services.ReportParams {
	cfg := config.AppConfig

	p := services.ReportParams{
		Year:     b.Year,
		Month:    b.Month,
		MaxDaily: b.MaxDaily,
		MaxTotal: b.MaxTotal,

		CompanyName:    withDefault(b.CompanyName, cfg.CompanyName),
		CompanyNIPC:    withDefault(b.CompanyNIPC, cfg.CompanyNIPC),
		CompanyAddress: withDefault(b.CompanyAddress, cfg.CompanyAddress),

		GestorName:      withDefault(b.GestorName, cfg.GestorName),
		GestorAddress:   withDefault(b.GestorAddress, cfg.GestorAddress),
		GestorNIFPS:     withDefault(b.GestorNIFPS, cfg.GestorNIFPS),
		GestorCategoria: withDefault(b.GestorCategoria, cfg.GestorCategoria),
	}

	if p.MaxDaily == 0 {
		p.MaxDaily = config.MaxDailyDefault
		if p.Year == 2025 {
			p.MaxDaily = config.LegalMaxDaily2025
		}
	}
	if p.MaxTotal == 0 {
		p.MaxTotal = config.MaxTotalDefault
	}
	return p
}

func withDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// PreviewReport calcula o mapa do mês pedido sem o persistir.
func PreviewReport(c *gin.Context) {
	var body reportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input inválido. O ano e o mês são obrigatórios."})
		return
	}

	expenseMap, err := services.BuildExpenseMap(body.toParams())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": expenseMap})
}

// GenerateReport calcula o mapa, guarda o registo e notifica os
// administradores ligados por websocket.
func GenerateReport(c *gin.Context) {
	var body reportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input inválido. O ano e o mês são obrigatórios."})
		return
	}

	params := body.toParams()
	expenseMap, err := services.BuildExpenseMap(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userInterface, _ := c.Get("user")
	user := userInterface.(models.User)

	report := models.Report{
		Year:     params.Year,
		Month:    params.Month,
		MaxDaily: params.MaxDaily,
		MaxTotal: params.MaxTotal,

		CompanyName:    params.CompanyName,
		CompanyNIPC:    params.CompanyNIPC,
		CompanyAddress: params.CompanyAddress,

		GestorName:      params.GestorName,
		GestorAddress:   params.GestorAddress,
		GestorNIFPS:     params.GestorNIFPS,
		GestorCategoria: params.GestorCategoria,

		Total:       expenseMap.Total,
		Filename:    expenseMap.Filename,
		GeneratedBy: user.Username,
	}

	if err := initializers.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao guardar o registo do mapa."})
		return
	}

	actor := actorFrom(c)
	if err := services.Audit.LogReportGeneration(actor, params.Year, params.Month, expenseMap.Total, params.MaxDaily); err != nil {
		log.Printf("AVISO: falha ao registar geração do mapa: %v", err)
	}

	websocket.H.NotifyReportGenerated(report)

	c.JSON(http.StatusOK, gin.H{
		"message": "Mapa de despesas gerado com sucesso.",
		"report":  report,
		"data":    expenseMap,
	})
}

// GetReports lista os mapas gerados, do mais recente para o mais antigo.
func GetReports(c *gin.Context) {
	var reports []models.Report
	initializers.DB.Order("created_at desc").Find(&reports)
	c.JSON(http.StatusOK, gin.H{"data": reports})
}

// DownloadReport reconstrói o ficheiro Excel de um mapa já gerado. A geração
// é determinística, pelo que o ficheiro é sempre igual ao pré-visualizado.
// Aceita opcionalmente uma imagem de assinatura em multipart ("assinatura").
func DownloadReport(c *gin.Context) {
	reportID := c.Param("id")

	var report models.Report
	if err := initializers.DB.First(&report, reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mapa não encontrado."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao obter o mapa."})
		return
	}

	params := services.ReportParams{
		Year:     report.Year,
		Month:    report.Month,
		MaxDaily: report.MaxDaily,
		MaxTotal: report.MaxTotal,

		CompanyName:    report.CompanyName,
		CompanyNIPC:    report.CompanyNIPC,
		CompanyAddress: report.CompanyAddress,

		GestorName:      report.GestorName,
		GestorAddress:   report.GestorAddress,
		GestorNIFPS:     report.GestorNIFPS,
		GestorCategoria: report.GestorCategoria,
	}

	expenseMap, err := services.BuildExpenseMap(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao reconstruir o mapa."})
		return
	}

	signature, signatureExt, err := signatureFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buf, err := services.BuildWorkbook(expenseMap, params, signature, signatureExt)
	if err != nil {
		log.Printf("Falha ao construir o ficheiro Excel: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar o ficheiro Excel."})
		return
	}

	if err := services.Audit.LogExcelDownload(actorFrom(c), report.Filename); err != nil {
		log.Printf("AVISO: falha ao registar download no log de auditoria: %v", err)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// signatureFromForm lê a imagem de assinatura opcional do pedido multipart.
func signatureFromForm(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("assinatura")
	if err != nil {
		// Pedido sem multipart ou sem o campo: não há assinatura.
		return nil, "", nil
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return nil, "", fmt.Errorf("a assinatura tem de ser uma imagem PNG ou JPEG")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("falha ao ler a imagem de assinatura")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("falha ao ler a imagem de assinatura")
	}
	return data, ext, nil
}

// GetAuditLogs devolve o log de auditoria filtrado (apenas administradores).
func GetAuditLogs(c *gin.Context) {
	username := c.Query("username")
	action := c.Query("action")

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "O limite tem de ser um número positivo."})
			return
		}
		limit = n
	}
	if limit > 500 {
		limit = 500
	}

	logs := services.Audit.Query(username, action, limit)
	c.JSON(http.StatusOK, gin.H{"data": logs})
}
