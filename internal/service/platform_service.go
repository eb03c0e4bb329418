package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
)

var ErrConnectionNotFound = errors.New("platform connection doesn't exist")

type PlatformService interface {
	List(ctx context.Context, userID int64) ([]*models.PlatformConnection, error)
	Disconnect(ctx context.Context, userID, connectionID int64) error
}

type platformService struct {
	pr repository.PlatformRepository
}

func NewPlatformService(pr repository.PlatformRepository) PlatformService {
	return &platformService{
		pr: pr,
	}
}

func (s *platformService) List(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	if userID == 0 {
		slog.Info(ErrInvalidUser.Error())
		return nil, ErrInvalidUser
	}

	connections, err := s.pr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting platform connections: %w", err)
	}

	markPrimary(connections)
	return connections, nil
}

// markPrimary flags one connection per platform: the first active one in
// id order, or the first one when none is active. connections must be
// ordered by id.
func markPrimary(connections []*models.PlatformConnection) {
	primary := make(map[models.Platform]*models.PlatformConnection)
	for _, c := range connections {
		c.Primary = false
		current, seen := primary[c.Platform]
		switch {
		case !seen:
			primary[c.Platform] = c
		case current.Status != models.ConnectionActive && c.Status == models.ConnectionActive:
			primary[c.Platform] = c
		}
	}
	for _, c := range primary {
		c.Primary = true
	}
}

func (s *platformService) Disconnect(ctx context.Context, userID, connectionID int64) error {
	if userID == 0 {
		slog.Info(ErrInvalidUser.Error())
		return ErrInvalidUser
	}

	if connectionID == 0 {
		slog.Info(ErrConnectionNotFound.Error())
		return ErrConnectionNotFound
	}

	isValid, err := s.pr.CheckByUserID(ctx, connectionID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		slog.Info(ErrConnectionNotFound.Error(), "connection_id", connectionID)
		return ErrConnectionNotFound
	}

	if err := s.pr.Remove(ctx, connectionID); err != nil {
		return fmt.Errorf("error removing platform connection: %w", err)
	}

	return nil
}
