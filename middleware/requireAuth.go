// backend/middleware/requireAuth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"mapa-despesas/backend/config"
	"mapa-despesas/backend/initializers"
	"mapa-despesas/backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RequireAuth valida o token JWT, confirma que a sessão ainda não expirou e
// carrega o utilizador a partir da base de dados.
func RequireAuth(c *gin.Context) {
	var tokenString string

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	} else {
		tokenString = c.Query("token")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token de autorização não encontrado"})
			return
		}
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims do token inválidas"})
		return
	}

	exp, ok := claims["exp"].(float64)
	if !ok || float64(time.Now().Unix()) > exp {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "A sessão expirou"})
		return
	}

	// Recarrega sempre os dados do utilizador a partir da base de dados,
	// para que alterações de papel ou de senha tenham efeito imediato.
	var user models.User
	if err := initializers.DB.First(&user, claims["sub"]).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Utilizador não encontrado"})
		return
	}

	c.Set("user", user)
	if sid, ok := claims["sid"].(string); ok {
		c.Set("sessionID", sid)
	}
	c.Next()
}

// RequireRole verifica se o utilizador autenticado tem um dos papéis exigidos.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userInterface, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Utilizador não encontrado no contexto"})
			return
		}

		user := userInterface.(models.User)
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acesso negado. Apenas administradores podem aceder a este recurso."})
	}
}
