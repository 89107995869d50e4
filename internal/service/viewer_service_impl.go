package service

import (
	"context"
	"time"

	"github.com/alexanderramin/attend/internal/repository"
)

type viewerService struct {
	viewers  repository.ViewerRepo
	observer UseCaseObserver
}

func NewViewerService(viewers repository.ViewerRepo, observers ...UseCaseObserver) ViewerService {
	return &viewerService{viewers: viewers, observer: useCaseObserverOrNoop(observers)}
}

func (s *viewerService) Grant(ctx context.Context, groupID, userID string) (err error) {
	defer track(ctx, s.observer, "viewer-grant", time.Now(), map[string]any{"group": groupID, "user": userID}, &err)

	if err = requireIDs(groupID, userID); err != nil {
		return err
	}
	err = s.viewers.Add(ctx, groupID, userID)
	return err
}

func (s *viewerService) Revoke(ctx context.Context, groupID, userID string) (err error) {
	defer track(ctx, s.observer, "viewer-revoke", time.Now(), map[string]any{"group": groupID, "user": userID}, &err)

	if err = requireIDs(groupID, userID); err != nil {
		return err
	}
	err = s.viewers.Remove(ctx, groupID, userID)
	return err
}

func (s *viewerService) List(ctx context.Context, groupID string) ([]string, error) {
	if groupID == "" {
		return nil, invalidf("group is required")
	}
	return s.viewers.List(ctx, groupID)
}

func (s *viewerService) IsViewer(ctx context.Context, groupID, userID string) (bool, error) {
	return s.viewers.IsViewer(ctx, groupID, userID)
}
