package domain

import "time"

// Comment is a single entry in a ticket's conversation.
type Comment struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	HTMLBody  string    `json:"html_body"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}
