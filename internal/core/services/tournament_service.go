package services

import (
	"context"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// TournamentService implements read operations over tournaments. Tournament
// data is written by the import pipeline, not by users, so there is no
// mutation surface here.
type TournamentService struct {
	tournamentRepo ports.TournamentRepository
}

var _ ports.TournamentService = (*TournamentService)(nil)

// NewTournamentService creates a new tournament service
func NewTournamentService(tournamentRepo ports.TournamentRepository) ports.TournamentService {
	return &TournamentService{tournamentRepo: tournamentRepo}
}

// ListTournaments returns all tracked tournaments.
func (s *TournamentService) ListTournaments(ctx context.Context) ([]*domain.Tournament, error) {
	return s.tournamentRepo.List(ctx)
}

// GetTournament retrieves a single tournament by its provider id.
func (s *TournamentService) GetTournament(ctx context.Context, id string) (*domain.Tournament, error) {
	return s.tournamentRepo.GetByID(ctx, id)
}
