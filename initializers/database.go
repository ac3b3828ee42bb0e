// backend/initializers/database.go
package initializers

import (
	"log"

	"mapa-despesas/backend/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectToDB abre a ligação ao Postgres usando o DATABASE_URL da configuração.
func ConnectToDB() {
	var err error
	DB, err = gorm.Open(postgres.Open(config.AppConfig.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Falha ao ligar à base de dados: %v", err)
	}
}
