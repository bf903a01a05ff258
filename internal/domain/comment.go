package domain

import (
	"fmt"
	"time"
)

type Comment struct {
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}

type Comments []Comment

func (cs Comments) Validate() error {
	for i, c := range cs {
		if c.Username == "" || c.Content == "" || c.Timestamp.IsZero() {
			return fmt.Errorf("%w: incomplete comment at position %d", ErrInvalidRecord, i)
		}
	}
	return nil
}
