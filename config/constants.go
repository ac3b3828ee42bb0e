// backend/config/constants.go
package config

// Limites de validação dos parâmetros de geração do mapa.
const (
	YearMin = 2020
	YearMax = 2100

	MaxDailyMin     = 1.0
	MaxDailyMax     = 100.0
	MaxDailyDefault = 65.0

	MaxTotalMin     = 1.0
	MaxTotalMax     = 5000.0
	MaxTotalDefault = 1000.0

	// Limite legal diário para gestor em 2025
	// (Decreto-Lei n.º 1/2025, de 16 de janeiro).
	LegalMaxDaily2025 = 72.65
)

// Horários usados nas deslocações geradas.
const (
	TripStartTime = "09:00"
	TripEndTime   = "18:00"
)

// Objectives são os objetivos possíveis para cada deslocação.
var Objectives = []string{
	"Viagem a visitar cliente Parfois (HQ)",
	"Reunião com cliente Parfois",
	"Entrega de documentação a Parfois",
	"Visita técnica a Parfois",
	"Formação em cliente Parfois",
}

// ClientAddress é o local onde os serviços são prestados.
const ClientAddress = "Parfois S.A., Rua de Sistelo, 755 - Lugar de Santegãos, 4435-429 Rio Tinto, Portugal"
