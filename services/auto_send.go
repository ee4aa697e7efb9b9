package services

import (
	"context"
	"fmt"
	"log/slog"
	"rentchat/contract"
	"rentchat/domain"
	"sync/atomic"
)

type AutoSendState int32

const (
	AutoSendNotSent AutoSendState = iota
	AutoSendSending
	AutoSendSent
)

func (s AutoSendState) String() string {
	switch s {
	case AutoSendNotSent:
		return "not_sent"
	case AutoSendSending:
		return "sending"
	default:
		return "sent"
	}
}

// AutoSend posts the introduction about an item once per session.
// The latch never re-arms, even when the post failed.
type AutoSend struct {
	state    atomic.Int32
	item     domain.Item
	composer *Composer
	notifier contract.Notifier
	log      *slog.Logger
}

func NewAutoSend(item domain.Item, composer *Composer, notifier contract.Notifier, log *slog.Logger) *AutoSend {
	return &AutoSend{item: item, composer: composer, notifier: notifier, log: log}
}

// Introduction is the message sent on behalf of the user when contacting an owner.
func Introduction(item domain.Item) string {
	return fmt.Sprintf("Hi! I'm interested in renting your %q (%.2f€/day). Is it still available?",
		item.Title, item.PricePerDay)
}

// Trigger posts the introduction if no previous call did.
// It returns the message and true only for the call that won the latch.
func (a *AutoSend) Trigger(ctx context.Context) (domain.Message, bool) {
	if !a.state.CompareAndSwap(int32(AutoSendNotSent), int32(AutoSendSending)) {
		return domain.Message{}, false
	}
	defer a.state.Store(int32(AutoSendSent))

	message, err := a.composer.Submit(ctx, Introduction(a.item), nil, a.item.Reference())
	if err != nil {
		a.log.Warn("Introduction not sent", "item", a.item.ID, "error", err)
		if ctx.Err() == nil {
			a.notifier.Error("Introduction not sent", err)
		}
		return domain.Message{}, true
	}
	return message, true
}

func (a *AutoSend) State() AutoSendState {
	return AutoSendState(a.state.Load())
}
