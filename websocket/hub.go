// backend/websocket/hub.go
package websocket

import (
	"log"
	"net/http"
	"sync"

	"mapa-despesas/backend/models"

	json "github.com/goccy/go-json"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Client struct {
	Conn     *websocket.Conn
	UserID   uint
	Username string
	Role     models.Role
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan []byte
	mu         sync.Mutex
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Permite todas as origens por agora. Em produção, restrinja isto.
		return true
	},
}

var H = Hub{
	clients:    make(map[*Client]bool),
	register:   make(chan *Client),
	unregister: make(chan *Client),
	events:     make(chan []byte, 16),
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Cliente ligado: %s", client.Username)
			h.broadcastOnlineUsers()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Conn.Close()
			}
			h.mu.Unlock()
			log.Printf("Cliente desligado: %s", client.Username)
			h.broadcastOnlineUsers()

		case message := <-h.events:
			h.broadcastToAdmins(message)
		}
	}
}

// NotifyReportGenerated envia o evento de geração de um mapa aos
// administradores ligados.
func (h *Hub) NotifyReportGenerated(report models.Report) {
	message, err := json.Marshal(map[string]interface{}{
		"type": "report_generated",
		"data": map[string]interface{}{
			"id":          report.ID,
			"year":        report.Year,
			"month":       report.Month,
			"total":       report.Total,
			"filename":    report.Filename,
			"generatedBy": report.GeneratedBy,
		},
	})
	if err != nil {
		log.Printf("Erro ao serializar evento de mapa gerado: %v", err)
		return
	}

	// Non-blocking: se o hub não estiver a correr, o evento é descartado.
	select {
	case h.events <- message:
	default:
	}
}

func (h *Hub) broadcastOnlineUsers() {
	h.mu.Lock()
	var onlineUsers []map[string]interface{}
	for client := range h.clients {
		onlineUsers = append(onlineUsers, map[string]interface{}{
			"id":       client.UserID,
			"username": client.Username,
			"role":     client.Role,
		})
	}
	h.mu.Unlock()

	message, err := json.Marshal(map[string]interface{}{
		"type": "online_users",
		"data": onlineUsers,
	})
	if err != nil {
		log.Printf("Erro ao serializar utilizadores online: %v", err)
		return
	}

	h.broadcastToAdmins(message)
}

// broadcastToAdmins envia a mensagem apenas aos clientes administradores.
func (h *Hub) broadcastToAdmins(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client.Role == models.RoleAdmin {
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Erro de escrita no websocket: %s", err)
			}
		}
	}
}

func ServeWs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println(err)
		return
	}

	userInterface, exists := c.Get("user")
	if !exists {
		log.Println("Utilizador não encontrado no contexto para o WebSocket")
		conn.Close()
		return
	}

	currentUser := userInterface.(models.User)

	client := &Client{
		Conn:     conn,
		UserID:   currentUser.ID,
		Username: currentUser.Username,
		Role:     currentUser.Role,
	}

	H.register <- client

	// Rotina para lidar com a desconexão do cliente
	go func() {
		defer func() {
			H.unregister <- client
		}()
		for {
			// Apenas lê mensagens para detetar a desconexão.
			if _, _, err := client.Conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
