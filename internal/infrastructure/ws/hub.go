// Package ws difunde las pistas de refresco a los navegadores conectados.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Conn lo que el hub necesita de una conexión websocket.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// RefreshMessage mensaje enviado tras cada escritura exitosa.
type RefreshMessage struct {
	Refresh []string `json:"refresh"`
}

// clientQueue mensajes pendientes por conexión. Una conexión lenta solo llena su propia cola.
const clientQueue = 16

// Hub mantiene las conexiones y les reenvía las pistas de refresco. Run nunca
// escribe en un socket: cada conexión tiene su goroutine de escritura.
type Hub struct {
	clients    map[Conn]chan []byte
	register   chan Conn
	unregister chan Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        zerolog.Logger
}

// NewHub construye el hub. Run debe estar en marcha para que los mensajes salgan.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[Conn]chan []byte),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run atiende altas, bajas y difusiones hasta que ctx termina.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for conn := range h.clients {
				h.dropLocked(conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			send := make(chan []byte, clientQueue)
			h.mutex.Lock()
			h.clients[conn] = send
			n := len(h.clients)
			h.mutex.Unlock()
			go h.writePump(conn, send)
			h.log.Debug().Int("clients", n).Msg("cliente ws conectado")

		case conn := <-h.unregister:
			h.mutex.Lock()
			h.dropLocked(conn)
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn, send := range h.clients {
				select {
				case send <- message:
				default:
					h.log.Warn().Msg("cliente ws sin leer, se descarta")
					h.dropLocked(conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// dropLocked cierra la cola y la conexión. Requiere h.mutex.
func (h *Hub) dropLocked(conn Conn) {
	send, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(send)
	_ = conn.Close()
}

// writePump escribe la cola de una conexión hasta que se cierra o falla la escritura.
func (h *Hub) writePump(conn Conn, send <-chan []byte) {
	for message := range send {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Debug().Err(err).Msg("cliente ws descartado")
			h.Unregister(conn)
			// Run cierra la cola al dar de baja; se vacía hasta entonces.
			for range send {
			}
			return
		}
	}
}

// Register da de alta una conexión. Con el hub detenido la conexión se cierra.
func (h *Hub) Register(conn Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
		_ = conn.Close()
	}
}

// Unregister da de baja una conexión y la cierra.
func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Clients número de conexiones activas.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Notify implementa ledger.Notifier. Nunca bloquea al llamador: si la cola está
// llena el mensaje se descarta.
func (h *Hub) Notify(views []string) {
	msg, err := json.Marshal(RefreshMessage{Refresh: views})
	if err != nil {
		h.log.Error().Err(err).Msg("serializar pista de refresco")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Strs("refresh", views).Msg("cola ws llena, pista descartada")
	}
}

// Upgrade rechaza con 426 las peticiones que no piden websocket.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Handler registra la conexión y la mantiene hasta que el cliente la cierra.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		h.Register(c)
		defer h.Unregister(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
