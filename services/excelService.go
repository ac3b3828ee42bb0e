// backend/services/excelService.go
package services

import (
	"bytes"
	"fmt"

	// Decoders de imagem necessários para embeber a assinatura.
	_ "image/jpeg"
	_ "image/png"

	"github.com/xuri/excelize/v2"
)

// Disposição do mapa na folha. As coordenadas reproduzem o modelo oficial
// "MG Ajudas de Custo Nacionais": cabeçalho da empresa nas linhas 4-6,
// dias nas linhas 10-35, bloco do gestor nas linhas 40-43.
const (
	sheetName = "Mapa"

	excelStartRow = 10
	excelMaxRow   = 35

	signatureAnchor = "C65"
)

// Colunas dos dados diários.
var dayColumns = []struct {
	col   string
	title string
}{
	{"B", "Data"},
	{"C", "Mapa deslocação / Objectivo"},
	{"E", "Local onde foram prestados"},
	{"F", "Início Dia"},
	{"G", "Início Hora"},
	{"H", "Regresso Dia"},
	{"I", "Regresso Hora"},
	{"K", "100%"},
	{"L", "75%"},
	{"M", "50%"},
	{"N", "25%"},
}

// BuildWorkbook constrói o ficheiro Excel do mapa de despesas.
// signature, se presente, é uma imagem PNG ou JPEG embebida junto ao local
// de assinatura do gestor.
func BuildWorkbook(m *ExpenseMap, p ReportParams, signature []byte, signatureExt string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	// Título e cabeçalho da empresa.
	f.SetCellValue(sheetName, "B2", "Mapa de Despesas - Ajudas de Custo Nacionais")
	f.SetCellValue(sheetName, "B4", "Empresa")
	f.SetCellValue(sheetName, "C4", p.CompanyName)
	f.SetCellValue(sheetName, "B5", "NIPC")
	f.SetCellValue(sheetName, "C5", p.CompanyNIPC)
	f.SetCellValue(sheetName, "B6", "Morada")
	f.SetCellValue(sheetName, "C6", p.CompanyAddress)

	// Cabeçalho da tabela de dias.
	for _, c := range dayColumns {
		f.SetCellValue(sheetName, c.col+"9", c.title)
	}

	// Dias preenchidos. A folha só tem espaço para as linhas 10-35.
	row := excelStartRow
	for _, d := range m.Days {
		if row > excelMaxRow {
			break
		}
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), d.Data)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), d.Objective)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), d.Location)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), d.StartDay)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), d.StartHour)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), d.ReturnDay)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), d.ReturnHour)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), boolFlag(d.Pct100))
		f.SetCellValue(sheetName, fmt.Sprintf("L%d", row), boolFlag(d.Pct75))
		f.SetCellValue(sheetName, fmt.Sprintf("M%d", row), boolFlag(d.Pct50))
		f.SetCellValue(sheetName, fmt.Sprintf("N%d", row), boolFlag(d.Pct25))
		row++
	}

	// Totais.
	f.SetCellValue(sheetName, "H37", "Sub Total a Pagar")
	f.SetCellValue(sheetName, "I37", m.Total)

	// Bloco do gestor.
	f.SetCellValue(sheetName, "B40", "Gestor")
	f.SetCellValue(sheetName, "C40", p.GestorName)
	f.SetCellValue(sheetName, "B41", "Morada")
	f.SetCellValue(sheetName, "C41", p.GestorAddress)
	f.SetCellValue(sheetName, "B42", "NIFPS")
	f.SetCellValue(sheetName, "C42", p.GestorNIFPS)
	f.SetCellValue(sheetName, "B43", "Categoria")
	f.SetCellValue(sheetName, "C43", p.GestorCategoria)
	f.SetCellValue(sheetName, "H40", "Valor Atribuído")
	f.SetCellValue(sheetName, "I40", p.MaxDaily)

	f.SetCellValue(sheetName, "B63", "Assinatura do Gestor")
	if len(signature) > 0 {
		pic := &excelize.Picture{
			Extension: signatureExt,
			File:      signature,
			Format:    &excelize.GraphicOptions{ScaleX: 0.5, ScaleY: 0.5},
		}
		if err := f.AddPictureFromBytes(sheetName, signatureAnchor, pic); err != nil {
			return nil, fmt.Errorf("failed to embed signature image: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
