package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// InviteService implements business logic for league invitations.
type InviteService struct {
	inviteRepo ports.InviteRepository
	leagueRepo ports.LeagueRepository
	notifier   ports.Notifier
}

var _ ports.InviteService = (*InviteService)(nil)

// NewInviteService creates a new invite service
func NewInviteService(inviteRepo ports.InviteRepository, leagueRepo ports.LeagueRepository, notifier ports.Notifier) ports.InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		leagueRepo: leagueRepo,
		notifier:   notifier,
	}
}

// CreateInvite invites an email address to a league. Admins only.
func (s *InviteService) CreateInvite(ctx context.Context, params ports.CreateInviteParams) (*domain.Invite, error) {
	league, err := s.leagueRepo.GetByID(ctx, params.LeagueID)
	if err != nil {
		return nil, err
	}
	if !league.IsAdmin(params.ActorID) {
		return nil, apperrors.NewForbiddenError("only league admins can send invites")
	}

	invite := &domain.Invite{
		LeagueID:  params.LeagueID.Hex(),
		Email:     strings.ToLower(strings.TrimSpace(params.Email)),
		InvitedBy: params.ActorID,
		Status:    domain.InvitePending,
		Token:     uuid.New().String(),
	}
	if err := invite.Validate(); err != nil {
		return nil, err
	}
	created, err := s.inviteRepo.Create(ctx, invite)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyInvite(ctx, created, league)
	return created, nil
}

// ListMyInvites returns the pending invites addressed to the caller's email.
func (s *InviteService) ListMyInvites(ctx context.Context, email string) ([]*domain.Invite, error) {
	if email == "" {
		return nil, apperrors.NewBadRequestError(apperrors.ErrEmailRequired, "email is required")
	}
	return s.inviteRepo.ListForEmail(ctx, strings.ToLower(email))
}

// AcceptInvite marks an invite accepted and joins the caller to the league.
func (s *InviteService) AcceptInvite(ctx context.Context, params ports.AnswerInviteParams) (*domain.Invite, error) {
	invite, err := s.answerable(ctx, params)
	if err != nil {
		return nil, err
	}
	leagueID, err := primitiveObjectID(invite.LeagueID)
	if err != nil {
		return nil, err
	}
	if err := s.leagueRepo.AddMember(ctx, leagueID, params.UserID); err != nil {
		return nil, err
	}
	if err := s.inviteRepo.UpdateStatus(ctx, invite.ID, domain.InviteAccepted); err != nil {
		return nil, err
	}
	invite.Status = domain.InviteAccepted
	return invite, nil
}

// DeclineInvite marks an invite declined.
func (s *InviteService) DeclineInvite(ctx context.Context, params ports.AnswerInviteParams) (*domain.Invite, error) {
	invite, err := s.answerable(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.inviteRepo.UpdateStatus(ctx, invite.ID, domain.InviteDeclined); err != nil {
		return nil, err
	}
	invite.Status = domain.InviteDeclined
	return invite, nil
}

func primitiveObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewBadRequestError(err, "invalid league id on invite")
	}
	return id, nil
}

// answerable loads an invite and checks the caller may answer it.
func (s *InviteService) answerable(ctx context.Context, params ports.AnswerInviteParams) (*domain.Invite, error) {
	invite, err := s.inviteRepo.GetByID(ctx, params.InviteID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(invite.Email, params.Email) {
		return nil, apperrors.NewForbiddenError("this invite is addressed to someone else")
	}
	if invite.Answered() {
		return nil, apperrors.NewConflictError(apperrors.ErrInviteAnswered, "invite has already been answered")
	}
	return invite, nil
}
