package impl

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/sidereusnuntius/gonovel/internal/domain"
	"github.com/sidereusnuntius/gonovel/internal/localstore"
	"github.com/sidereusnuntius/gonovel/internal/service"
	"github.com/sidereusnuntius/gonovel/internal/validate"
)

func (s *AppService) ListComments(ctx context.Context, novelID, chapterID domain.ID) (iter.Seq[domain.Comment], error) {
	key := localstore.CommentsKey(novelID.String(), chapterID.String())
	comments, err := localstore.Load[domain.Comments](ctx, s.Store, key)
	if err != nil {
		return nil, err
	}
	return slices.Values(comments), nil
}

func (s *AppService) AddComment(ctx context.Context, novelID, chapterID domain.ID, username, content string) (domain.Comment, error) {
	content = strings.TrimSpace(content)
	if err := validate.Comment(content); err != nil {
		return domain.Comment{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}
	if err := s.requireSession(ctx, username); err != nil {
		return domain.Comment{}, fmt.Errorf("%w: must be logged in to comment", err)
	}

	c := domain.Comment{
		Username:  username,
		Timestamp: s.Clock.Now().UTC(),
		Content:   content,
	}
	key := localstore.CommentsKey(novelID.String(), chapterID.String())
	_, err := localstore.Update(ctx, s.Store, key, func(cs domain.Comments) (domain.Comments, error) {
		return append(cs, c), nil
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}
