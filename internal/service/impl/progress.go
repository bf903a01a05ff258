package impl

import (
	"context"
	"fmt"

	"github.com/sidereusnuntius/gonovel/internal/domain"
	"github.com/sidereusnuntius/gonovel/internal/localstore"
	"github.com/sidereusnuntius/gonovel/internal/service"
)

func (s *AppService) GetProgress(ctx context.Context, username string, novelID domain.ID) (domain.Progress, error) {
	all, err := localstore.Load[domain.UserProgress](ctx, s.Store, localstore.ProgressKey(username))
	if err != nil {
		return domain.Progress{}, err
	}
	p := all[novelID]
	if p.ReadChapters == nil {
		p.ReadChapters = []domain.ID{}
	}
	return p, nil
}

func (s *AppService) MarkRead(ctx context.Context, username string, novelID, chapterID domain.ID) (p domain.Progress, err error) {
	if err = s.requireSession(ctx, username); err != nil {
		return p, fmt.Errorf("%w: must be logged in to track progress", err)
	}

	_, err = localstore.Update(ctx, s.Store, localstore.ProgressKey(username), func(all domain.UserProgress) (domain.UserProgress, error) {
		if all == nil {
			all = domain.UserProgress{}
		}
		prev := all[novelID]
		if prev.HasRead(chapterID) && prev.LastRead == chapterID {
			p = prev
			return all, localstore.ErrUnchanged
		}
		p = prev.MarkRead(chapterID)
		all[novelID] = p
		return all, nil
	})
	return p, err
}

var _ service.ProgressService = (*AppService)(nil)
