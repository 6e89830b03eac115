package services

import (
	"context"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// maxPlayerPageSize caps a single player listing page.
const maxPlayerPageSize = 100

// PlayerService implements read operations over the player pool.
type PlayerService struct {
	playerRepo ports.PlayerRepository
}

var _ ports.PlayerService = (*PlayerService)(nil)

// NewPlayerService creates a new player service
func NewPlayerService(playerRepo ports.PlayerRepository) ports.PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

// ListPlayers returns a page of the player pool, optionally filtered by a
// name search.
func (s *PlayerService) ListPlayers(ctx context.Context, search string, limit, offset int64) ([]*domain.Player, error) {
	if limit <= 0 || limit > maxPlayerPageSize {
		limit = maxPlayerPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.playerRepo.List(ctx, search, limit, offset)
}
