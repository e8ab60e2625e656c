package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/BiharaCD/beverage-OS/internal/application"
	dominv "github.com/BiharaCD/beverage-OS/internal/domain/inventory"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
)

// Service serves the passive inventory reads.
type Service struct {
	items dominv.Repository
}

func NewService(items dominv.Repository) *Service {
	return &Service{items: items}
}

func (s *Service) List(ctx context.Context) ([]*dominv.Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory: list: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*dominv.Item, error) {
	item, err := s.items.Get(ctx, id)
	if errors.Is(err, dominv.ErrNotFound) {
		return nil, &apperr.NotFoundError{Resource: "Item", ID: id, Message: "Item not found"}
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

type UpdateThresholdUseCase struct {
	deps Deps
	now  application.Clock
	in   *application.Instrument
}

func NewUpdateThresholdUseCase(deps Deps) *UpdateThresholdUseCase {
	return &UpdateThresholdUseCase{
		deps: deps,
		now:  deps.now(),
		in:   application.NewInstrument(deps.Telemetry, inventoryService),
	}
}

// Execute changes only threshold and updatedAt.
func (uc *UpdateThresholdUseCase) Execute(ctx context.Context, cmd UpdateThresholdCommand) (_ *dominv.Item, err error) {
	ctx, run := uc.in.Start(ctx, useCaseUpdateThreshold, "UpdateThreshold",
		attribute.String("item.id", cmd.ItemID),
	)
	defer func() { run.End(err) }()
	run.Add(observability.F("item_id", cmd.ItemID), observability.F("threshold", string(cmd.Threshold)))

	if err := uc.deps.Validator.Struct(cmd, thresholdMessages); err != nil {
		return nil, err
	}
	threshold, _ := cmd.Threshold.Int()

	item, err := uc.deps.Items.SetThreshold(ctx, cmd.ItemID, threshold, uc.now())
	if errors.Is(err, dominv.ErrNotFound) {
		return nil, &apperr.NotFoundError{Resource: "Item", ID: cmd.ItemID, Message: "Item not found"}
	}
	if err != nil {
		return nil, err
	}

	if item.BelowThreshold() {
		run.Event("below_threshold", attribute.Int("quantity", item.Quantity))
	}
	return item, nil
}
