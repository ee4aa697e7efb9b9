package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/domain/chat"
	"rentchat/domain/mimetypes"
	"rentchat/errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
)

// Composer holds the draft of one room: text plus attached media.
type Composer struct {
	api      contract.IChatAPI
	room     domain.RoomID
	notifier contract.Notifier
	log      *slog.Logger

	mu      sync.Mutex
	text    string
	media   []domain.Media
	sending atomic.Bool
}

func NewComposer(api contract.IChatAPI, room domain.RoomID, notifier contract.Notifier, log *slog.Logger) *Composer {
	return &Composer{api: api, room: room, notifier: notifier, log: log}
}

func (c *Composer) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *Composer) AddMedia(media domain.Media) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.media = append(c.media, media)
}

// AddMediaFile attaches a local file, its type is sniffed from the content.
func (c *Composer) AddMediaFile(path string) (domain.Media, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return domain.Media{}, fmt.Errorf("%w: %s", errors.ErrMediaPermission, path)
		}
		return domain.Media{}, fmt.Errorf("read media %s: %w", path, err)
	}
	media := domain.Media{
		URI:  path,
		Name: filepath.Base(path),
		Type: string(mimetypes.ToMIME(detected.String())),
	}
	c.AddMedia(media)
	return media, nil
}

func (c *Composer) RemoveMedia(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.media) {
		return fmt.Errorf("%w: %d", errors.ErrMediaIndex, index)
	}
	c.media = append(c.media[:index], c.media[index+1:]...)
	return nil
}

func (c *Composer) Media() []domain.Media {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Media(nil), c.media...)
}

func (c *Composer) Sending() bool {
	return c.sending.Load()
}

// Send uploads the attached media then submits the draft.
// The draft is only cleared once the server accepted the message.
func (c *Composer) Send(ctx context.Context) (domain.Message, error) {
	if !c.sending.CompareAndSwap(false, true) {
		return domain.Message{}, errors.ErrSendInProgress
	}
	defer c.sending.Store(false)

	c.mu.Lock()
	text := strings.TrimSpace(c.text)
	media := append([]domain.Media(nil), c.media...)
	c.mu.Unlock()
	if text == "" && len(media) == 0 {
		return domain.Message{}, errors.ErrEmptyDraft
	}

	message, err := c.Submit(ctx, text, media, nil)
	if err != nil {
		if ctx.Err() == nil {
			c.notifier.Error("Message not sent", err)
		}
		return domain.Message{}, err
	}

	c.mu.Lock()
	c.text = ""
	c.media = nil
	c.mu.Unlock()
	return message, nil
}

// Submit posts a message without touching the draft.
func (c *Composer) Submit(ctx context.Context, content string, media []domain.Media,
	metadata *domain.MessageMetadata) (domain.Message, error) {
	if len(media) > 0 {
		uploaded, err := c.api.UploadMedia(ctx, media)
		if err != nil {
			return domain.Message{}, fmt.Errorf("upload media: %w", err)
		}
		media = uploaded
	}
	message, err := c.api.PostMessage(ctx, chat.PostMessageCommand{
		Room:     c.room,
		Content:  content,
		Media:    media,
		Metadata: metadata,
	})
	if err != nil {
		return domain.Message{}, err
	}
	c.log.Debug(fmt.Sprintf("Message %s submitted to room %s", message.ID, c.room))
	return message, nil
}
