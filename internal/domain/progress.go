package domain

// Progress is what a user has read of one novel.
type Progress struct {
	ReadChapters []ID `json:"readChapters"`
	LastRead     ID   `json:"lastRead,omitempty"`
}

func (p Progress) HasRead(id ID) bool {
	for _, c := range p.ReadChapters {
		if c == id {
			return true
		}
	}
	return false
}

// MarkRead records the chapter as read and makes it the last read one. A chapter is never recorded twice.
func (p Progress) MarkRead(id ID) Progress {
	if !p.HasRead(id) {
		p.ReadChapters = append(p.ReadChapters[:len(p.ReadChapters):len(p.ReadChapters)], id)
	}
	p.LastRead = id
	return p
}

// UserProgress maps novel ids to the user's progress on each novel.
type UserProgress map[ID]Progress

// Normalize removes repeated chapter ids, keeping the first occurrence, so each chapter counts once.
func (up UserProgress) Normalize() UserProgress {
	for novel, p := range up {
		seen := make(map[ID]struct{}, len(p.ReadChapters))
		read := p.ReadChapters[:0:0]
		for _, c := range p.ReadChapters {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			read = append(read, c)
		}
		p.ReadChapters = read
		up[novel] = p
	}
	return up
}
