// backend/main.go
package main

import (
	"log"

	"mapa-despesas/backend/config"
	"mapa-despesas/backend/controllers"
	"mapa-despesas/backend/initializers"
	"mapa-despesas/backend/middleware"
	"mapa-despesas/backend/models"
	"mapa-despesas/backend/services"
	"mapa-despesas/backend/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	config.LoadConfig()
	initializers.ConnectToDB()
	services.InitAuditLog(config.AppConfig.AuditLogFile)
}

func main() {
	log.Println("Iniciando a migração da base de dados...")
	err := initializers.DB.AutoMigrate(&models.User{}, &models.Report{})
	if err != nil {
		log.Fatalf("Falha na migração da base de dados: %v", err)
	}

	seedUsers()

	go websocket.H.Run()
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.POST("/login", controllers.Login)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth)
	{
		api.GET("/ws", websocket.ServeWs)
		api.POST("/logout", controllers.Logout)
		api.PUT("/user/change-password", controllers.ChangePassword)

		api.POST("/reports/preview", controllers.PreviewReport)
		api.POST("/reports", controllers.GenerateReport)
		api.GET("/reports", controllers.GetReports)
		api.POST("/reports/:id/download", controllers.DownloadReport)

		management := api.Group("/management")
		management.Use(middleware.RequireRole(models.RoleAdmin))
		{
			management.POST("/users", controllers.CreateUser)
			management.GET("/users", controllers.GetUsers)
			management.PUT("/users/:id/reset-password", controllers.AdminResetPassword)
			management.GET("/logs", controllers.GetAuditLogs)
		}
	}

	log.Printf("Iniciando o servidor na porta %s...", config.AppConfig.Port)
	r.Run(":" + config.AppConfig.Port)
}

// seedUsers cria as contas configuradas (admin e gestor) no primeiro arranque.
// As senhas vêm das variáveis de ambiente; contas sem senha configurada não
// são criadas.
func seedUsers() {
	seed := []struct {
		username string
		password string
		role     models.Role
	}{
		{"admin", config.AppConfig.AdminPassword, models.RoleAdmin},
		{"gestor", config.AppConfig.GestorPassword, models.RoleGestor},
	}

	for _, s := range seed {
		var count int64
		initializers.DB.Model(&models.User{}).Where("username = ?", s.username).Count(&count)
		if count > 0 {
			continue
		}
		if s.password == "" {
			log.Printf("AVISO: sem senha configurada para '%s'; conta não criada.", s.username)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), 10)
		if err != nil {
			log.Fatalf("Falha ao processar a senha inicial de '%s': %v", s.username, err)
		}

		user := models.User{Username: s.username, PasswordHash: string(hash), Role: s.role}
		if err := initializers.DB.Create(&user).Error; err != nil {
			log.Fatalf("Falha ao criar o utilizador inicial '%s': %v", s.username, err)
		}
		log.Printf("Utilizador '%s' inicial criado com sucesso.", s.username)
	}
}
