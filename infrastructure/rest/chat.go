package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"rentchat/domain"
	"rentchat/domain/chat"
	"rentchat/errors"
	"strconv"
)

// MediaField is the multipart field the upload endpoint reads files from.
const MediaField = "media"

type createRoomRequest struct {
	ParticipantID domain.UserID `json:"participantId"`
}

type postMessageRequest struct {
	Content    string                  `json:"content"`
	ChatRoomID domain.RoomID           `json:"chatRoomId"`
	Media      []domain.Media          `json:"media,omitempty"`
	Metadata   *domain.MessageMetadata `json:"metadata,omitempty"`
}

type uploadResponse struct {
	Media []domain.Media `json:"media"`
}

func (c *Client) Rooms(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := c.doJSON(ctx, http.MethodGet, "/chat/rooms", nil, nil, &rooms)
	return rooms, err
}

func (c *Client) CreateRoom(ctx context.Context, participantID domain.UserID) (domain.Room, error) {
	var room domain.Room
	err := c.doJSON(ctx, http.MethodPost, "/chat/rooms", nil, createRoomRequest{ParticipantID: participantID}, &room)
	return room, err
}

// GetMessages fetches one page of history, oldest first inside the page.
func (c *Client) GetMessages(ctx context.Context, cmd chat.GetMessageCommand) ([]domain.Message, error) {
	var messages []domain.Message
	path := fmt.Sprintf("/chat/rooms/%s/messages", url.PathEscape(string(cmd.Room)))
	query := url.Values{
		"limit": {strconv.Itoa(cmd.Limit)},
		"page":  {strconv.Itoa(cmd.Page)},
	}
	err := c.doJSON(ctx, http.MethodGet, path, query, nil, &messages)
	return messages, err
}

func (c *Client) PostMessage(ctx context.Context, cmd chat.PostMessageCommand) (domain.Message, error) {
	var message domain.Message
	err := c.doJSON(ctx, http.MethodPost, "/chat/rooms/messages", nil, postMessageRequest{
		Content:    cmd.Content,
		ChatRoomID: cmd.Room,
		Media:      cmd.Media,
		Metadata:   cmd.Metadata,
	}, &message)
	return message, err
}

// UploadMedia sends the local files referenced by media[i].URI in one multipart
// request and returns the persisted references.
func (c *Client) UploadMedia(ctx context.Context, media []domain.Media) ([]domain.Media, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, m := range media {
		if err := writePart(writer, m); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/chat/media-upload", nil), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var res uploadResponse
	if err := c.send(ctx, req, &res); err != nil {
		return nil, err
	}
	return res.Media, nil
}

func writePart(writer *multipart.Writer, m domain.Media) error {
	file, err := os.Open(m.URI)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", errors.ErrMediaPermission, m.URI)
		}
		return fmt.Errorf("open media %s: %w", m.URI, err)
	}
	defer file.Close()

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, MediaField, m.Name))
	contentType := m.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}
