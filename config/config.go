// backend/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config struct holds all configuration for the application
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	SessionTimeout time.Duration
	AdminPassword  string
	GestorPassword string
	AuditLogFile   string

	// Dados da empresa (valores por omissão dos mapas)
	CompanyName    string
	CompanyNIPC    string
	CompanyAddress string

	// Dados do gestor
	GestorName      string
	GestorAddress   string
	GestorNIFPS     string
	GestorCategoria string
}

var AppConfig *Config

// LoadConfig loads config from .env file
func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Nenhum ficheiro .env encontrado, a usar as variáveis de ambiente")
	}

	AppConfig = &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionTimeout: time.Duration(getEnvInt("SESSION_TIMEOUT", 3600)) * time.Second,
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		GestorPassword: os.Getenv("GESTOR_PASSWORD"),
		AuditLogFile:   getEnv("AUDIT_LOG_FILE", "audit_log.json"),

		CompanyName:    getEnv("COMPANY_NAME", "Your Company Name"),
		CompanyNIPC:    getEnv("COMPANY_NIPC", "000000000"),
		CompanyAddress: getEnv("COMPANY_ADDRESS", "Your Company Address"),

		GestorName:      getEnv("GESTOR_NAME", "Your Name"),
		GestorAddress:   getEnv("GESTOR_ADDRESS", "Your Address"),
		GestorNIFPS:     getEnv("GESTOR_NIFPS", "000000000"),
		GestorCategoria: getEnv("GESTOR_CATEGORIA", "Gestor"),
	}

	if AppConfig.JWTSecret == "" {
		log.Println("AVISO: a variável de ambiente JWT_SECRET não está definida.")
	}
	if AppConfig.AdminPassword == "" {
		log.Println("AVISO: a variável de ambiente ADMIN_PASSWORD não está definida.")
	}
	if AppConfig.GestorPassword == "" {
		log.Println("AVISO: a variável de ambiente GESTOR_PASSWORD não está definida.")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("AVISO: valor inválido para %s (%q), a usar %d", key, v, fallback)
		return fallback
	}
	return n
}
