package model

import "time"

// Message is a single chat message in the shared room.
//
// UserID references the author's User.ID. It is a weak link: the chat view
// resolves it to a display name at render time, and a message whose author
// row has disappeared still renders (with a placeholder name) rather than
// failing the whole page.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
