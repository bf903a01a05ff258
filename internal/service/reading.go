package service

import (
	"context"
	"iter"

	"github.com/sidereusnuntius/gonovel/internal/domain"
)

type ProgressService interface {
	// GetProgress returns the user's progress on the novel; a novel never marked yields an empty record.
	GetProgress(ctx context.Context, username string, novelID domain.ID) (domain.Progress, error)
	// MarkRead records the chapter as read by username, who must be the logged in user.
	MarkRead(ctx context.Context, username string, novelID, chapterID domain.ID) (domain.Progress, error)
}

type CommentService interface {
	// ListComments yields the chapter's comments oldest first.
	ListComments(ctx context.Context, novelID, chapterID domain.ID) (iter.Seq[domain.Comment], error)
	// AddComment appends a comment by username, who must be the logged in user.
	AddComment(ctx context.Context, novelID, chapterID domain.ID, username, content string) (domain.Comment, error)
}

type CatalogService interface {
	Catalog(ctx context.Context) domain.Catalog
	FindNovel(ctx context.Context, novelID domain.ID) (domain.Novel, error)
	// FindChapter returns the novel and the chapter's position in it.
	FindChapter(ctx context.Context, novelID, chapterID domain.ID) (domain.Novel, int, error)
	Search(ctx context.Context, query string) []domain.Novel
}
