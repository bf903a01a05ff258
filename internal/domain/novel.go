package domain

import "fmt"

type Chapter struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	// Content is HTML.
	Content string `json:"content"`
	Premium bool   `json:"premium"`
}

type Novel struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters"`
}

// Catalog is the read-only collection of novels served to readers.
type Catalog struct {
	Novels []Novel `json:"novels"`
}

func (c Catalog) Validate() error {
	for i, n := range c.Novels {
		if n.ID == "" {
			return fmt.Errorf("%w: novel at position %d has no id", ErrInvalidRecord, i)
		}
		for j, ch := range n.Chapters {
			if ch.ID == "" {
				return fmt.Errorf("%w: chapter at position %d of novel %s has no id", ErrInvalidRecord, j, n.ID)
			}
		}
	}
	return nil
}

// ChapterIndex returns the position of the chapter in the novel's reading order, or -1.
func (n Novel) ChapterIndex(id ID) int {
	for i, ch := range n.Chapters {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

// Neighbours returns the chapters before and after position i. Either is nil at a boundary.
func (n Novel) Neighbours(i int) (prev, next *Chapter) {
	if i > 0 && i < len(n.Chapters) {
		prev = &n.Chapters[i-1]
	}
	if i >= 0 && i < len(n.Chapters)-1 {
		next = &n.Chapters[i+1]
	}
	return
}
