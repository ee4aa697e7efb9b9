package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"rentchat/domain"
	"rentchat/domain/chat"
	"rentchat/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token() (string, error) { return string(s), nil }

func newTestClient(t *testing.T, handler http.HandlerFunc, onUnauthorized func()) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL+"/api", 2*time.Second, staticTokens("token-abc"), onUnauthorized, slog.Default())
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_GetMessages(t *testing.T) {
	req := require.New(t)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal(http.MethodGet, r.Method)
		req.Equal("/api/chat/rooms/room-1/messages", r.URL.Path)
		req.Equal("50", r.URL.Query().Get("limit"))
		req.Equal("2", r.URL.Query().Get("page"))
		req.Equal("Bearer token-abc", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []domain.Message{{ID: "m1", Content: "Hi", ChatRoomID: "room-1"}})
	}, nil)

	messages, err := client.GetMessages(context.Background(), chat.GetMessageCommand{Room: "room-1", Page: 2, Limit: 50})

	req.NoError(err)
	req.Len(messages, 1)
	req.Equal(domain.MessageID("m1"), messages[0].ID)
}

func TestClient_PostMessage(t *testing.T) {
	req := require.New(t)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/chat/rooms/messages", r.URL.Path)
		var body postMessageRequest
		req.NoError(json.NewDecoder(r.Body).Decode(&body))
		req.Equal("Hello", body.Content)
		req.Equal(domain.RoomID("room-1"), body.ChatRoomID)
		writeJSON(w, http.StatusCreated, domain.Message{ID: "m1", Content: body.Content, ChatRoomID: body.ChatRoomID})
	}, nil)

	message, err := client.PostMessage(context.Background(), chat.PostMessageCommand{Room: "room-1", Content: "Hello"})

	req.NoError(err)
	req.Equal(domain.MessageID("m1"), message.ID)
}

func TestClient_Unauthorized_Maps_To_Session_Expired(t *testing.T) {
	req := require.New(t)
	cleared := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "jwt expired"})
	}, func() { cleared = true })

	_, err := client.Rooms(context.Background())

	req.ErrorIs(err, errors.ErrSessionExpired)
	var apiErr *APIError
	req.ErrorAs(err, &apiErr)
	req.Equal("jwt expired", apiErr.Message)
	req.True(cleared)
}

func TestClient_Status_Mapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, errors.ErrBadRequest},
		{http.StatusForbidden, errors.ErrForbidden},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusBadGateway, errors.ErrServer},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}, nil)
			_, err := client.Get(context.Background(), "item-1")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_Network_Error(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client, err := NewClient(server.URL, time.Second, staticTokens(""), nil, slog.Default())
	req.NoError(err)

	_, err = client.List(context.Background())

	req.ErrorIs(err, errors.ErrNetwork)
}

func TestClient_Cancelled_Context(t *testing.T) {
	req := require.New(t)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetMessages(ctx, chat.GetMessageCommand{Room: "room-1", Page: 1, Limit: 50})

	req.ErrorIs(err, context.DeadlineExceeded)
}

func TestClient_Nearby_Query(t *testing.T) {
	req := require.New(t)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/items/nearby", r.URL.Path)
		req.Equal("48.85", r.URL.Query().Get("latitude"))
		req.Equal("2.35", r.URL.Query().Get("longitude"))
		req.Equal("5", r.URL.Query().Get("radius"))
		writeJSON(w, http.StatusOK, []domain.Item{{ID: "item-1"}})
	}, nil)

	items, err := client.Nearby(context.Background(), domain.NearbyQuery{Latitude: 48.85, Longitude: 2.35, Radius: 5})

	req.NoError(err)
	req.Len(items, 1)
}

func TestClient_UploadMedia(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "photo.png")
	req.NoError(os.WriteFile(path, []byte("fake-png-bytes"), 0o600))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/chat/media-upload", r.URL.Path)
		req.NoError(r.ParseMultipartForm(1 << 20))
		files := r.MultipartForm.File[MediaField]
		req.Len(files, 1)
		req.Equal("photo.png", files[0].Filename)
		req.Equal("image/png", files[0].Header.Get("Content-Type"))
		f, err := files[0].Open()
		req.NoError(err)
		content, err := io.ReadAll(f)
		req.NoError(err)
		req.Equal("fake-png-bytes", string(content))
		writeJSON(w, http.StatusOK, uploadResponse{Media: []domain.Media{
			{URI: "https://cdn/photo.png", Name: "photo.png", Type: "image/png"},
		}})
	}, nil)

	media, err := client.UploadMedia(context.Background(), []domain.Media{{URI: path, Name: "photo.png", Type: "image/png"}})

	req.NoError(err)
	req.Equal("https://cdn/photo.png", media[0].URI)
}
