// backend/controllers/userController.go
package controllers

import (
	"log"
	"net/http"
	"time"

	"mapa-despesas/backend/config"
	"mapa-despesas/backend/initializers"
	"mapa-despesas/backend/models"
	"mapa-despesas/backend/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// actorFrom constrói a identidade de auditoria a partir do contexto do pedido.
func actorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{IPAddress: c.ClientIP()}
	if userInterface, exists := c.Get("user"); exists {
		user := userInterface.(models.User)
		actor.Username = user.Username
		actor.Role = user.Role.Display()
	}
	if sid, exists := c.Get("sessionID"); exists {
		actor.SessionID = sid.(string)
	}
	return actor
}

// CreateToken emite o token de sessão de um utilizador: papel, identificador
// de sessão e expiração em SESSION_TIMEOUT segundos.
func CreateToken(user models.User, sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"user": user.Username,
		"role": string(user.Role),
		"sid":  sessionID,
		"exp":  time.Now().Add(config.AppConfig.SessionTimeout).Unix(),
	})
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func Login(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer nome de utilizador e senha."})
		return
	}

	// Look up requested user
	var user models.User
	initializers.DB.First(&user, "username = ?", body.Username)

	if user.ID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Nome de utilizador ou senha inválidos"})
		return
	}

	// Compare sent in pass with saved user pass hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Nome de utilizador ou senha inválidos"})
		return
	}

	sessionID := uuid.NewString()
	tokenString, err := CreateToken(user, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	actor := services.Actor{
		Username:  user.Username,
		Role:      user.Role.Display(),
		IPAddress: c.ClientIP(),
		SessionID: sessionID,
	}
	if err := services.Audit.LogLogin(actor); err != nil {
		log.Printf("AVISO: falha ao registar login no log de auditoria: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     tokenString,
		"username":  user.Username,
		"role":      user.Role,
		"expiresIn": int(config.AppConfig.SessionTimeout.Seconds()),
	})
}

// Logout apenas regista o fim de sessão: o token deixa de ser usado pelo
// cliente e expira por si.
func Logout(c *gin.Context) {
	if err := services.Audit.LogLogout(actorFrom(c)); err != nil {
		log.Printf("AVISO: falha ao registar logout no log de auditoria: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sessão terminada com sucesso."})
}

// CreateUser cria um novo utilizador (ação de administrador)
func CreateUser(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer nome de utilizador, senha e papel."})
		return
	}

	role := models.Role(body.Role)
	if role != models.RoleAdmin && role != models.RoleGestor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Papel inválido. Use 'admin' ou 'gestor'."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao processar a senha."})
		return
	}

	user := models.User{Username: body.Username, PasswordHash: string(hash), Role: role}
	if result := initializers.DB.Create(&user); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao criar o utilizador."})
		return
	}

	if err := services.Audit.LogUserCreation(actorFrom(c), user.Username, user.Role.Display()); err != nil {
		log.Printf("AVISO: falha ao registar criação de utilizador: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Utilizador criado com sucesso."})
}

// GetUsers lista todos os utilizadores (sem as senhas).
func GetUsers(c *gin.Context) {
	var users []models.User
	// Omit("password_hash") garante que nunca enviamos as senhas para o frontend
	initializers.DB.Omit("password_hash").Find(&users)
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func ChangePassword(c *gin.Context) {
	userInterface, _ := c.Get("user")
	currentUser := userInterface.(models.User)

	var body struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer a senha antiga e a nova."})
		return
	}

	// 1. Verificar se a senha antiga está correta
	if err := bcrypt.CompareHashAndPassword([]byte(currentUser.PasswordHash), []byte(body.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "A senha antiga está incorreta."})
		return
	}

	// 2. Gerar o hash para a nova senha
	newHash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao processar a nova senha."})
		return
	}

	// 3. Atualizar a senha na base de dados
	if result := initializers.DB.Model(&currentUser).Update("password_hash", string(newHash)); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao atualizar a senha."})
		return
	}

	if err := services.Audit.LogPasswordChange(actorFrom(c), currentUser.Username); err != nil {
		log.Printf("AVISO: falha ao registar alteração de senha: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Senha alterada com sucesso."})
}

// AdminResetPassword permite que um admin redefina a senha de outro utilizador.
func AdminResetPassword(c *gin.Context) {
	adminUser, _ := c.Get("user")
	currentAdmin := adminUser.(models.User)

	targetUserID := c.Param("id")

	var body struct {
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer a nova senha."})
		return
	}

	var targetUser models.User
	if err := initializers.DB.First(&targetUser, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilizador alvo não encontrado."})
		return
	}

	// Regra de segurança: um admin não redefine a sua própria senha por aqui.
	if targetUser.ID == currentAdmin.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Não pode redefinir a sua própria senha aqui. Use a funcionalidade 'Alterar Senha'."})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao processar a nova senha."})
		return
	}

	if result := initializers.DB.Model(&targetUser).Update("password_hash", string(newHash)); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao atualizar a senha."})
		return
	}

	if err := services.Audit.LogPasswordChange(actorFrom(c), targetUser.Username); err != nil {
		log.Printf("AVISO: falha ao registar redefinição de senha: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Senha do utilizador redefinida com sucesso."})
}
