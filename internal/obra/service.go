// AngelaMos | 2026
// service.go

package obra

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/metaconstrutor/api/internal/activity"
	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
	"github.com/metaconstrutor/api/internal/usage"
)

var tracer = otel.Tracer("metaconstrutor/obra")

type Service struct {
	repo     Repository
	counter  usage.Counter
	activity activity.Recorder
}

func NewService(
	repo Repository,
	counter usage.Counter,
	recorder activity.Recorder,
) *Service {
	if recorder == nil {
		recorder = activity.Nop{}
	}
	return &Service{repo: repo, counter: counter, activity: recorder}
}

func (s *Service) List(
	ctx context.Context,
	sess permission.Session,
	params ListObrasParams,
) ([]Obra, int, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindObras, permission.OpView); err != nil {
		return nil, 0, err
	}

	return s.repo.List(ctx, sess.OrganizationID, params)
}

func (s *Service) Get(
	ctx context.Context,
	sess permission.Session,
	id string,
) (*Obra, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindObras, permission.OpView); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, sess.OrganizationID, id)
}

// Create inserts a new obra after checking the role and the plan's obra
// quota against a fresh count.
func (s *Service) Create(
	ctx context.Context,
	sess permission.Session,
	req CreateObraRequest,
) (*Obra, error) {
	ctx, span := tracer.Start(ctx, "obra.Create")
	defer span.End()
	span.SetAttributes(attribute.String("organization.id", sess.OrganizationID))

	if err := permission.Permit(sess, permission.KindObras, permission.OpCreate); err != nil {
		return nil, err
	}

	if err := checkDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	current, err := s.counter.Count(ctx, sess.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("create obra: %w", err)
	}

	if err := permission.Authorize(sess, current, permission.KindObras, permission.OpCreate); err != nil {
		core.AddSpanEvent(ctx, "obra.create.denied",
			attribute.Int("usage.obras", current.Obras),
			attribute.String("plan", sess.Plan.String()),
		)
		return nil, err
	}

	status := Status(req.Status)
	if status == "" {
		status = StatusPlanejamento
	}

	o := &Obra{
		ID:             uuid.New().String(),
		OrganizationID: sess.OrganizationID,
		Name:           req.Name,
		Address:        req.Address,
		Client:         req.Client,
		Status:         status,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Budget:         req.Budget,
		CreatedBy:      sess.UserID,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	s.record(ctx, sess, "obras.create", o.ID, "criou a obra "+o.Name)

	return o, nil
}

func (s *Service) Update(
	ctx context.Context,
	sess permission.Session,
	id string,
	req UpdateObraRequest,
) (*Obra, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindObras, permission.OpEdit); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, sess.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.Address != nil {
		o.Address = *req.Address
	}
	if req.Client != nil {
		o.Client = *req.Client
	}
	if req.Status != nil {
		o.Status = Status(*req.Status)
	}
	if req.StartDate != nil {
		o.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		o.EndDate = req.EndDate
	}
	if req.Budget != nil {
		o.Budget = *req.Budget
	}

	if !o.Status.Valid() {
		return nil, fmt.Errorf("update obra: status %q: %w", o.Status, core.ErrInvalidInput)
	}
	if err := checkDates(o.StartDate, o.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "obras.edit", o.ID, "atualizou a obra "+o.Name)

	return o, nil
}

func (s *Service) Delete(
	ctx context.Context,
	sess permission.Session,
	id string,
) error {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindObras, permission.OpDelete); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, sess.OrganizationID, id); err != nil {
		return err
	}

	s.record(ctx, sess, "obras.delete", id, "removeu uma obra")

	return nil
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
		Kind:           string(permission.KindObras),
		ResourceID:     resourceID,
		Description:    description,
	})
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("end date before start date: %w", core.ErrInvalidInput)
	}
	return nil
}
