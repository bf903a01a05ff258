package impl

import (
	"context"
	"fmt"

	"github.com/sidereusnuntius/gonovel/internal/domain"
	"github.com/sidereusnuntius/gonovel/internal/service"
)

func (s *AppService) Catalog(ctx context.Context) domain.Catalog {
	return s.Loader.Load(ctx)
}

func (s *AppService) FindNovel(ctx context.Context, novelID domain.ID) (domain.Novel, error) {
	n, ok := s.Loader.Find(ctx, novelID)
	if !ok {
		return domain.Novel{}, fmt.Errorf("%w: novel %s", service.ErrNotFound, novelID)
	}
	return n, nil
}

func (s *AppService) FindChapter(ctx context.Context, novelID, chapterID domain.ID) (domain.Novel, int, error) {
	n, i, ok := s.Loader.FindChapter(ctx, novelID, chapterID)
	if !ok {
		return domain.Novel{}, -1, fmt.Errorf("%w: chapter %s of novel %s", service.ErrNotFound, chapterID, novelID)
	}
	return n, i, nil
}

func (s *AppService) Search(ctx context.Context, query string) []domain.Novel {
	return s.Loader.Search(ctx, query)
}
