package connectionhub

import (
	wsmodels "sabbatical-backend/models/ws"
	"strings"
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	AddClient(email string, conn *websocket.Conn)
	DeleteClient(email string, conn *websocket.Conn)
	SendMessage(msg wsmodels.ServerMessage)
	IsConnected(email string) bool
}

var Instance Provider

func Init() {
	Instance = NewInstance()
}

func NewInstance() Provider {
	return &impl{
		clients: map[string]clientSession{},
	}
}

type impl struct {
	mu      sync.Mutex
	clients map[string]clientSession // by lower case email
}

// DeleteClient drops the session only while conn still owns it.
func (i *impl) DeleteClient(email string, conn *websocket.Conn) {
	email = key(email)
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[email]
	if !ok || sess.conn != conn {
		return
	}
	delete(i.clients, email)
	sess.stop()
}

// AddClient replaces any older session of the same user.
func (i *impl) AddClient(email string, conn *websocket.Conn) {
	email = key(email)
	i.mu.Lock()
	defer i.mu.Unlock()
	if oldSess, ok := i.clients[email]; ok {
		oldSess.stop()
	}
	i.clients[email] = newSession(conn)
}

// SendMessage never blocks. Messages to users without a session are dropped.
func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	email := key(msg.ToEmail)
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[email]
	if !ok {
		return
	}
	select {
	case sess.sendCh <- msg:
	default:
		log.WithField("email", email).Warn("ws send buffer full, message dropped")
	}
}

func (i *impl) IsConnected(email string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[key(email)]
	return ok && sess.conn != nil && sess.conn.Conn != nil
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
