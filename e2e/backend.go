package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"rentchat/auth"
	"rentchat/domain"
	"rentchat/infrastructure/socket"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Backend is an in-process marketplace server: REST under /api and the room socket under /ws.
type Backend struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	token    string
	revoked  bool
	me       domain.User
	owner    domain.User
	items    map[domain.ItemID]domain.Item
	rooms    map[domain.RoomID]*domain.Room
	sockets  map[domain.RoomID][]*websocket.Conn
	frames   []socket.Envelope
	clock    time.Time
	password string
}

func NewBackend() *Backend {
	b := &Backend{
		me:       domain.User{ID: "user-me", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		owner:    domain.User{ID: "user-owner", FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
		items:    make(map[domain.ItemID]domain.Item),
		rooms:    make(map[domain.RoomID]*domain.Room),
		sockets:  make(map[domain.RoomID][]*websocket.Conn),
		clock:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		password: "ComplexPass123!",
	}
	b.items["item-drill"] = domain.Item{
		ID: "item-drill", Title: "Cordless drill", Category: "tools", PricePerDay: 12.5,
		Available: true, OwnerID: b.owner.ID, Owner: b.owner.Summary(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("GET /api/items/{id}", b.authenticated(b.item))
	mux.HandleFunc("GET /api/chat/rooms", b.authenticated(b.listRooms))
	mux.HandleFunc("POST /api/chat/rooms", b.authenticated(b.createRoom))
	mux.HandleFunc("GET /api/chat/rooms/{id}/messages", b.authenticated(b.messages))
	mux.HandleFunc("POST /api/chat/rooms/messages", b.authenticated(b.postMessage))
	mux.HandleFunc("GET /ws", b.authenticated(b.socket))
	b.server = httptest.NewServer(mux)
	return b
}

func (b *Backend) APIURL() string {
	return b.server.URL + "/api"
}

func (b *Backend) SocketURL() string {
	return "ws" + strings.TrimPrefix(b.server.URL, "http") + "/ws"
}

func (b *Backend) Close() {
	b.mu.Lock()
	for _, conns := range b.sockets {
		for _, conn := range conns {
			_ = conn.Close()
		}
	}
	b.mu.Unlock()
	b.server.Close()
}

// RevokeTokens makes every authenticated endpoint answer 401.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked = true
}

// Frames returns what clients sent on their sockets, in order.
func (b *Backend) Frames() []socket.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]socket.Envelope(nil), b.frames...)
}

// SeedRoom creates a room shared by the two users holding n messages from the owner.
func (b *Backend) SeedRoom(id domain.RoomID, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	room := b.newRoom(id)
	for i := 0; i < n; i++ {
		room.Messages = append(room.Messages, b.newMessage(id, b.owner, fmt.Sprintf("history %d", i), nil))
	}
}

func (b *Backend) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ok := !b.revoked && b.token != "" && auth.TokenFromHeader(r.Header.Get("Authorization")) == b.token
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var credentials domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	if credentials.Email != b.me.Email || credentials.Password != b.password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid credentials"})
		return
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.CustomClaims{
		UserID:           string(b.me.ID),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("backend-secret"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	b.mu.Lock()
	b.token = token
	b.revoked = false
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, domain.Session{Token: token, User: b.me})
}

func (b *Backend) item(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	item, ok := b.items[domain.ItemID(r.PathValue("id"))]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "item not found"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (b *Backend) listRooms(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rooms := make([]domain.Room, 0, len(b.rooms))
	for _, room := range b.rooms {
		rooms = append(rooms, *room)
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (b *Backend) createRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ParticipantID domain.UserID `json:"participantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ParticipantID != b.owner.ID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown participant"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	room := b.newRoom(domain.RoomID(uuid.NewString()))
	writeJSON(w, http.StatusCreated, room)
}

// messages pages from the newest: page 1 holds the latest limit messages, oldest first.
func (b *Backend) messages(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 || limit < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid page"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	room, ok := b.rooms[domain.RoomID(r.PathValue("id"))]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "room not found"})
		return
	}
	end := len(room.Messages) - (page-1)*limit
	start := end - limit
	if start < 0 {
		start = 0
	}
	result := []domain.Message{}
	if end > 0 {
		result = append(result, room.Messages[start:end]...)
	}
	writeJSON(w, http.StatusOK, result)
}

func (b *Backend) postMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content    string                  `json:"content"`
		ChatRoomID domain.RoomID           `json:"chatRoomId"`
		Media      []domain.Media          `json:"media"`
		Metadata   *domain.MessageMetadata `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	room, ok := b.rooms[body.ChatRoomID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "room not found"})
		return
	}
	message := b.newMessage(room.ID, b.me, body.Content, body.Metadata)
	message.Media = body.Media
	room.Messages = append(room.Messages, message)

	payload, _ := json.Marshal(message)
	for _, conn := range b.sockets[room.ID] {
		_ = conn.WriteJSON(socket.Envelope{Type: socket.EventNewMessage, RoomID: room.ID, Payload: payload})
	}
	writeJSON(w, http.StatusCreated, message)
}

func (b *Backend) socket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		var envelope socket.Envelope
		if err := conn.ReadJSON(&envelope); err != nil {
			b.drop(conn)
			return
		}
		b.mu.Lock()
		b.frames = append(b.frames, envelope)
		switch envelope.Type {
		case socket.EventJoinRoom:
			b.sockets[envelope.RoomID] = append(b.sockets[envelope.RoomID], conn)
		case socket.EventLeaveRoom:
			b.sockets[envelope.RoomID] = without(b.sockets[envelope.RoomID], conn)
		}
		b.mu.Unlock()
	}
}

func (b *Backend) drop(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for room, conns := range b.sockets {
		b.sockets[room] = without(conns, conn)
	}
}

// newRoom and newMessage expect b.mu to be held.
func (b *Backend) newRoom(id domain.RoomID) *domain.Room {
	room := &domain.Room{
		ID: id,
		Participants: []domain.Participant{
			{ID: uuid.NewString(), UserID: b.me.ID, ChatRoomID: id, User: b.me.Summary()},
			{ID: uuid.NewString(), UserID: b.owner.ID, ChatRoomID: id, User: b.owner.Summary()},
		},
		CreatedAt: b.tick(),
	}
	b.rooms[id] = room
	return room
}

func (b *Backend) newMessage(room domain.RoomID, from domain.User, content string, metadata *domain.MessageMetadata) domain.Message {
	sender := from.Summary()
	now := b.tick()
	return domain.Message{
		ID:         domain.MessageID(uuid.NewString()),
		Content:    content,
		SenderID:   from.ID,
		ChatRoomID: room,
		CreatedAt:  now,
		UpdatedAt:  now,
		Metadata:   metadata,
		Sender:     &sender,
	}
}

func (b *Backend) tick() time.Time {
	b.clock = b.clock.Add(time.Minute)
	return b.clock
}

// RoomMessages returns the server side history of a room sorted by date.
func (b *Backend) RoomMessages(id domain.RoomID) []domain.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	room, ok := b.rooms[id]
	if !ok {
		return nil
	}
	messages := append([]domain.Message(nil), room.Messages...)
	sort.SliceStable(messages, func(i, j int) bool { return messages[i].CreatedAt.Before(messages[j].CreatedAt) })
	return messages
}

func without(conns []*websocket.Conn, conn *websocket.Conn) []*websocket.Conn {
	res := conns[:0:0]
	for _, c := range conns {
		if c != conn {
			res = append(res, c)
		}
	}
	return res
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
