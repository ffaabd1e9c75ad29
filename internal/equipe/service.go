// AngelaMos | 2026
// service.go

package equipe

import (
	"context"

	"github.com/google/uuid"

	"github.com/metaconstrutor/api/internal/activity"
	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
)

type Service struct {
	repo     Repository
	activity activity.Recorder
}

func NewService(repo Repository, recorder activity.Recorder) *Service {
	if recorder == nil {
		recorder = activity.Nop{}
	}
	return &Service{repo: repo, activity: recorder}
}

func (s *Service) List(
	ctx context.Context,
	sess permission.Session,
	params ListEquipesParams,
) ([]Equipe, int, error) {
	if err := authorize(sess, permission.OpView); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, sess.OrganizationID, params)
}

func (s *Service) Get(
	ctx context.Context,
	sess permission.Session,
	id string,
) (*Equipe, error) {
	if err := authorize(sess, permission.OpView); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sess.OrganizationID, id)
}

func (s *Service) Create(
	ctx context.Context,
	sess permission.Session,
	req CreateEquipeRequest,
) (*Equipe, error) {
	if err := authorize(sess, permission.OpCreate); err != nil {
		return nil, err
	}

	e := &Equipe{
		ID:             uuid.New().String(),
		OrganizationID: sess.OrganizationID,
		ObraID:         req.ObraID,
		Name:           req.Name,
		LeaderName:     req.LeaderName,
		Members:        core.StringList(req.Members),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "equipes.create", e.ID, "criou a equipe "+e.Name)

	return e, nil
}

func (s *Service) Update(
	ctx context.Context,
	sess permission.Session,
	id string,
	req UpdateEquipeRequest,
) (*Equipe, error) {
	if err := authorize(sess, permission.OpEdit); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, sess.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if req.ObraID != nil {
		e.ObraID = req.ObraID
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.LeaderName != nil {
		e.LeaderName = *req.LeaderName
	}
	if req.Members != nil {
		e.Members = core.StringList(*req.Members)
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "equipes.edit", e.ID, "atualizou a equipe "+e.Name)

	return e, nil
}

func (s *Service) Delete(
	ctx context.Context,
	sess permission.Session,
	id string,
) error {
	if err := authorize(sess, permission.OpDelete); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, sess.OrganizationID, id); err != nil {
		return err
	}

	s.record(ctx, sess, "equipes.delete", id, "removeu uma equipe")

	return nil
}

// Equipes are not plan-metered, so no usage is consulted.
func authorize(sess permission.Session, op permission.Operation) error {
	return permission.Authorize(sess, permission.Usage{}, permission.KindEquipes, op)
}

func (s *Service) record(
	ctx context.Context,
	sess permission.Session,
	action, resourceID, description string,
) {
	s.activity.Record(ctx, activity.Entry{
		OrganizationID: sess.OrganizationID,
		UserID:         sess.UserID,
		Action:         action,
		Kind:           string(permission.KindEquipes),
		ResourceID:     resourceID,
		Description:    description,
	})
}
