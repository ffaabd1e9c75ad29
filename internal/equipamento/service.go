// AngelaMos | 2026
// service.go

package equipamento

import (
	"context"
	"fmt"

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
	params ListEquipamentosParams,
) ([]Equipamento, int, error) {
	if err := authorize(sess, permission.OpView); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, sess.OrganizationID, params)
}

func (s *Service) Get(
	ctx context.Context,
	sess permission.Session,
	id string,
) (*Equipamento, error) {
	if err := authorize(sess, permission.OpView); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sess.OrganizationID, id)
}

func (s *Service) Create(
	ctx context.Context,
	sess permission.Session,
	req CreateEquipamentoRequest,
) (*Equipamento, error) {
	if err := authorize(sess, permission.OpCreate); err != nil {
		return nil, err
	}

	status := Status(req.Status)
	if status == "" {
		status = StatusDisponivel
	}

	e := &Equipamento{
		ID:             uuid.New().String(),
		OrganizationID: sess.OrganizationID,
		ObraID:         req.ObraID,
		Name:           req.Name,
		Category:       req.Category,
		Status:         status,
	}
	if err := checkAllocation(e); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "equipamentos.create", e.ID, "cadastrou o equipamento "+e.Name)

	return e, nil
}

func (s *Service) Update(
	ctx context.Context,
	sess permission.Session,
	id string,
	req UpdateEquipamentoRequest,
) (*Equipamento, error) {
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
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.Status != nil {
		e.Status = Status(*req.Status)
	}
	if err := checkAllocation(e); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "equipamentos.edit", e.ID, "atualizou o equipamento "+e.Name)

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

	s.record(ctx, sess, "equipamentos.delete", id, "removeu um equipamento")

	return nil
}

// An item in use must be allocated to an obra.
func checkAllocation(e *Equipamento) error {
	if e.Status == StatusEmUso && e.ObraID == nil {
		return fmt.Errorf("equipamento em uso without obra: %w", core.ErrInvalidInput)
	}
	return nil
}

func authorize(sess permission.Session, op permission.Operation) error {
	return permission.Authorize(sess, permission.Usage{}, permission.KindEquipamentos, op)
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
		Kind:           string(permission.KindEquipamentos),
		ResourceID:     resourceID,
		Description:    description,
	})
}
