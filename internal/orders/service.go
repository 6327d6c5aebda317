package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
	"github.com/pixelprint/pixelprint-backend/pkg/pagination"
)

// ListOrdersInput carries admin listing filters plus pagination.
type ListOrdersInput struct {
	Status *string
	Query  string
	Limit  int
	Cursor string
}

// ListOrdersResult is one page of orders plus the cursor for the next page.
type ListOrdersResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// Service exposes admin order management.
type Service interface {
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	GetByOrderNumber(ctx context.Context, number int64) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error)
}

type service struct {
	repo *Repository
	log  *logger.Logger
}

// NewService constructs the order management service.
func NewService(repo *Repository, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, log: log}, nil
}

// ListOrders returns a cursor-paginated page of orders, newest first.
func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error) {
	filters := OrderFilters{Query: input.Query}
	if input.Status != nil {
		status, err := parseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		filters.Status = &status
	}

	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.ListOrders(ctx, filters, pagination.LimitWithBuffer(input.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	result := &ListOrdersResult{}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	result.Orders = make([]OrderDTO, len(rows))
	for i := range rows {
		result.Orders[i] = *NewOrderDTO(&rows[i])
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

// GetOrder loads one order with its items.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return NewOrderDTO(order), nil
}

// GetByOrderNumber loads one order by its public number.
func (s *service) GetByOrderNumber(ctx context.Context, number int64) (*OrderDTO, error) {
	order, err := s.repo.FindByOrderNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return NewOrderDTO(order), nil
}

// UpdateStatus moves an order through its production lifecycle. Only the
// transitions the lifecycle allows are accepted.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error) {
	target, err := parseStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	if order.Status == target {
		return NewOrderDTO(order), nil
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot move from %s to %s", order.Status, target))
	}

	previous := order.Status
	order.Status = target
	updated, err := s.repo.UpdateOrder(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}

	logCtx := s.log.WithOrderNumber(ctx, updated.OrderNumber)
	logCtx = s.log.WithFields(logCtx, map[string]any{
		"from": previous.String(),
		"to":   target.String(),
	})
	s.log.Info(logCtx, "order status updated")

	return NewOrderDTO(updated), nil
}

func parseStatus(value string) (enums.OrderStatus, error) {
	status, err := enums.ParseOrderStatus(value)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return status, nil
}
