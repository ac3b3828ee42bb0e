// backend/models/reportModel.go
package models

import "gorm.io/gorm"

// Report guarda os parâmetros de cada mapa de despesas gerado.
// A geração é determinística a partir destes campos, pelo que o ficheiro
// Excel pode ser reconstruído em qualquer download sem guardar os bytes.
type Report struct {
	gorm.Model

	Year     int     `gorm:"not null" json:"year"`
	Month    int     `gorm:"not null" json:"month"`
	MaxDaily float64 `gorm:"not null" json:"maxDaily"`
	MaxTotal float64 `gorm:"not null" json:"maxTotal"`

	CompanyName    string `gorm:"not null" json:"companyName"`
	CompanyNIPC    string `gorm:"not null" json:"companyNipc"`
	CompanyAddress string `json:"companyAddress"`

	GestorName      string `gorm:"not null" json:"gestorName"`
	GestorAddress   string `json:"gestorAddress"`
	GestorNIFPS     string `json:"gestorNifps"`
	GestorCategoria string `json:"gestorCategoria"`

	Total       float64 `gorm:"not null" json:"total"`
	Filename    string  `gorm:"not null" json:"filename"`
	GeneratedBy string  `gorm:"not null" json:"generatedBy"`
}
