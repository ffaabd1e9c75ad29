// AngelaMos | 2026
// service.go

package rdo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/metaconstrutor/api/internal/activity"
	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
)

type Service struct {
	repo     Repository
	activity activity.Recorder
	now      func() time.Time
}

func NewService(repo Repository, recorder activity.Recorder) *Service {
	if recorder == nil {
		recorder = activity.Nop{}
	}
	return &Service{repo: repo, activity: recorder, now: time.Now}
}

func (s *Service) List(
	ctx context.Context,
	sess permission.Session,
	params ListRDOsParams,
) ([]RDO, int, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindRDOs, permission.OpView); err != nil {
		return nil, 0, err
	}

	return s.repo.List(ctx, sess.OrganizationID, params)
}

func (s *Service) Get(
	ctx context.Context,
	sess permission.Session,
	id string,
) (*RDO, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindRDOs, permission.OpView); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, sess.OrganizationID, id)
}

func (s *Service) Create(
	ctx context.Context,
	sess permission.Session,
	req CreateRDORequest,
) (*RDO, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindRDOs, permission.OpCreate); err != nil {
		return nil, err
	}

	rdo := &RDO{
		ID:             uuid.New().String(),
		OrganizationID: sess.OrganizationID,
		ObraID:         req.ObraID,
		Date:           req.Date,
		Weather:        req.Weather,
		Summary:        req.Summary,
		WorkedHours:    req.WorkedHours,
		Status:         StatusRascunho,
		CreatedBy:      sess.UserID,
	}

	if err := s.repo.Create(ctx, rdo); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "rdo.create", rdo.ID,
		"registrou o RDO de "+rdo.Date.Format(time.DateOnly))

	return rdo, nil
}

// Update edits a draft or rejected report. Members without approval rights
// may only edit reports they created.
func (s *Service) Update(
	ctx context.Context,
	sess permission.Session,
	id string,
	req UpdateRDORequest,
) (*RDO, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindRDOs, permission.OpEdit); err != nil {
		return nil, err
	}

	rdo, err := s.repo.GetByID(ctx, sess.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if err := ensureOwnerOrReviewer(sess, rdo); err != nil {
		return nil, err
	}

	if !rdo.Editable() {
		return nil, fmt.Errorf("update rdo in status %s: %w", rdo.Status, core.ErrConflict)
	}

	if req.Date != nil {
		rdo.Date = *req.Date
	}
	if req.Weather != nil {
		rdo.Weather = *req.Weather
	}
	if req.Summary != nil {
		rdo.Summary = *req.Summary
	}
	if req.WorkedHours != nil {
		rdo.WorkedHours = *req.WorkedHours
	}

	if err := s.repo.Update(ctx, rdo); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "rdo.edit", rdo.ID, "editou um RDO")

	return rdo, nil
}

func (s *Service) Delete(
	ctx context.Context,
	sess permission.Session,
	id string,
) error {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindRDOs, permission.OpDelete); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, sess.OrganizationID, id); err != nil {
		return err
	}

	s.record(ctx, sess, "rdo.delete", id, "removeu um RDO")

	return nil
}

// Submit sends a draft or rejected report for review. Only its author may
// submit it.
func (s *Service) Submit(
	ctx context.Context,
	sess permission.Session,
	id string,
) (*RDO, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindRDOs, permission.OpEdit); err != nil {
		return nil, err
	}

	rdo, err := s.repo.GetByID(ctx, sess.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if rdo.CreatedBy != sess.UserID {
		return nil, core.PermissionDeniedError("only the author can submit this report")
	}

	if !rdo.Editable() {
		return nil, fmt.Errorf("submit rdo in status %s: %w", rdo.Status, core.ErrConflict)
	}

	from := rdo.Status
	rdo.Status = StatusEnviado
	rdo.RejectionReason = ""

	if err := s.repo.Transition(ctx, rdo, from); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "rdo.submit", rdo.ID, "enviou um RDO para aprovação")

	return rdo, nil
}

func (s *Service) Approve(
	ctx context.Context,
	sess permission.Session,
	id string,
) (*RDO, error) {
	rdo, err := s.reviewable(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	approver := sess.UserID
	rdo.Status = StatusAprovado
	rdo.ApprovedBy = &approver
	rdo.ApprovedAt = &now

	if err := s.repo.Transition(ctx, rdo, StatusEnviado); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "rdo.approve", rdo.ID, "aprovou um RDO")

	return rdo, nil
}

func (s *Service) Reject(
	ctx context.Context,
	sess permission.Session,
	id, reason string,
) (*RDO, error) {
	if reason == "" {
		return nil, fmt.Errorf("reject rdo: reason required: %w", core.ErrInvalidInput)
	}

	rdo, err := s.reviewable(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	rdo.Status = StatusRejeitado
	rdo.RejectionReason = reason
	rdo.ApprovedBy = nil
	rdo.ApprovedAt = nil

	if err := s.repo.Transition(ctx, rdo, StatusEnviado); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "rdo.reject", rdo.ID, "rejeitou um RDO: "+reason)

	return rdo, nil
}

func (s *Service) reviewable(
	ctx context.Context,
	sess permission.Session,
	id string,
) (*RDO, error) {
	if err := permission.Require(sess, permission.ActionRDOApprove); err != nil {
		return nil, err
	}

	rdo, err := s.repo.GetByID(ctx, sess.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if !permission.CanApproveRDO(sess, rdo.CreatedBy) {
		return nil, core.PermissionDeniedError("you cannot review a report you created")
	}

	if rdo.Status != StatusEnviado {
		return nil, fmt.Errorf("review rdo in status %s: %w", rdo.Status, core.ErrConflict)
	}

	return rdo, nil
}

func ensureOwnerOrReviewer(sess permission.Session, rdo *RDO) error {
	if rdo.CreatedBy == sess.UserID || sess.Can(permission.ActionRDOApprove) {
		return nil
	}
	return core.PermissionDeniedError("you can only edit reports you created")
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
		Kind:           string(permission.KindRDOs),
		ResourceID:     resourceID,
		Description:    description,
	})
}
