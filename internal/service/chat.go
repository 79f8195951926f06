package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Rakabidaasta/npc-hackaton/internal/apperror"
	"github.com/Rakabidaasta/npc-hackaton/internal/model"
	"github.com/Rakabidaasta/npc-hackaton/internal/repository"
)

const (
	// RecentPageSize is how many messages the chat view shows.
	RecentPageSize = 50

	// MaxMessageLength caps a single chat message.
	MaxMessageLength = 2000
)

// ChatEntry is one rendered line of the chat view: who said what, and when,
// with the time already formatted as zero-padded 24-hour HH:MM.
type ChatEntry struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Time   string `json:"time"`
}

// ChatService handles posting messages and assembling the room view.
type ChatService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewChatService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		messages: messages,
		users:    users,
		logger:   logger,
	}
}

// Post validates and persists a message from the given user. Both write
// paths — the chat form and the websocket — come through here, so a message
// is stored exactly once regardless of how it arrived.
func (s *ChatService) Post(ctx context.Context, userID, text string) (*model.Message, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("posting requires a logged-in user")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "message text is required")
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("message must be %d characters or fewer", MaxMessageLength))
	}

	msg := &model.Message{
		UserID: userID,
		Text:   text,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("service/chat: creating message: %w", err)
	}

	s.logger.Debug("message posted",
		slog.String("messageID", msg.ID),
		slog.String("userID", userID),
	)

	return msg, nil
}

// Recent returns the room view: the RecentPageSize most recent messages in
// chronological (oldest-first) order, each with the author's display name
// and an HH:MM time.
//
// Author names are resolved one lookup per message. At a fixed page of 50
// that is fine; a larger page would want a batched lookup instead.
func (s *ChatService) Recent(ctx context.Context) ([]ChatEntry, error) {
	msgs, err := s.messages.ListRecent(ctx, RecentPageSize)
	if err != nil {
		return nil, fmt.Errorf("service/chat: listing messages: %w", err)
	}

	entries := make([]ChatEntry, 0, len(msgs))
	// ListRecent returns newest first; walk backwards for chronological order.
	for i := len(msgs) - 1; i >= 0; i-- {
		entries = append(entries, s.entryFor(ctx, &msgs[i]))
	}

	return entries, nil
}

// EntryFor formats a single stored message for delivery, resolving the
// author's display name. Used for websocket broadcasts of fresh messages.
func (s *ChatService) EntryFor(ctx context.Context, msg *model.Message) ChatEntry {
	return s.entryFor(ctx, msg)
}

func (s *ChatService) entryFor(ctx context.Context, msg *model.Message) ChatEntry {
	author := "unknown"
	if user, err := s.users.GetByID(ctx, msg.UserID); err == nil {
		author = user.Name
	} else {
		// Weak author link: a missing user degrades one line, not the page.
		s.logger.Warn("message author not found",
			slog.String("messageID", msg.ID),
			slog.String("userID", msg.UserID),
		)
	}

	return ChatEntry{
		Author: author,
		Text:   msg.Text,
		Time:   msg.CreatedAt.Format("15:04"),
	}
}
