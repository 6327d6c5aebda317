package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelprint/pixelprint-backend/internal/orders"
	"github.com/pixelprint/pixelprint-backend/internal/quotes"
	"github.com/pixelprint/pixelprint-backend/pkg/config"
	"github.com/pixelprint/pixelprint-backend/pkg/db"
	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
	"github.com/pixelprint/pixelprint-backend/pkg/logger"
)

// orderNumberAttempts bounds how often PlaceOrder reallocates an order
// number after losing a concurrent allocation race.
const orderNumberAttempts = 3

// ItemInput is one configured line the customer is buying.
type ItemInput struct {
	ServiceSlug   string
	Selection     map[string]string
	Quantity      int
	ArtworkFileID *uuid.UUID
}

// PlaceOrderInput is the full checkout payload.
type PlaceOrderInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Company       *string
	Notes         *string
	Items         []ItemInput
}

// Service turns a validated cart into a persisted order.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDTO, error)
}

type quoteResolver interface {
	Resolve(ctx context.Context, input quotes.ResolveInput) (*quotes.QuoteDTO, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	quotes   quoteResolver
	cfg      config.CheckoutConfig
	log      *logger.Logger
}

// NewService constructs the checkout service.
func NewService(repo *Repository, dbClient *db.Client, quoteService quoteResolver, cfg config.CheckoutConfig, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if quoteService == nil {
		return nil, fmt.Errorf("quote service required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		quotes:   quoteService,
		cfg:      cfg,
		log:      log,
	}, nil
}

// PlaceOrder re-prices every item against the live rule store, then snapshots
// the order, its items, and their breakdowns in a single transaction. Client
// supplied prices are never trusted.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDTO, error) {
	if err := s.validateContact(input); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if s.cfg.MaxItems > 0 && len(input.Items) > s.cfg.MaxItems {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order cannot contain more than %d items", s.cfg.MaxItems))
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	var artworkIDs []uuid.UUID
	order := &models.Order{
		Status:        enums.OrderStatusNew,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(strings.ToLower(input.CustomerEmail)),
		CustomerPhone: input.CustomerPhone,
		Company:       input.Company,
		Notes:         input.Notes,
	}

	for i, item := range input.Items {
		quote, err := s.quotes.Resolve(ctx, quotes.ResolveInput{
			ServiceSlug: item.ServiceSlug,
			Selection:   item.Selection,
			Quantity:    item.Quantity,
		})
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				return nil, pkgerrors.New(typed.Code(), fmt.Sprintf("item %d: %s", i+1, typed.Message()))
			}
			return nil, err
		}

		if item.ArtworkFileID != nil {
			if err := s.checkArtwork(ctx, i, *item.ArtworkFileID); err != nil {
				return nil, err
			}
			artworkIDs = append(artworkIDs, *item.ArtworkFileID)
		}

		serviceID := quote.ServiceID
		items = append(items, models.OrderItem{
			ServiceID:     &serviceID,
			ServiceName:   quote.ServiceName,
			Selection:     item.Selection,
			Quantity:      item.Quantity,
			UnitPrice:     quote.Breakdown.Unit,
			TotalPrice:    quote.Breakdown.Gross,
			Breakdown:     quote.Breakdown,
			ArtworkFileID: item.ArtworkFileID,
		})
		order.Net = order.Net.Add(quote.Breakdown.Net)
		order.VAT = order.VAT.Add(quote.Breakdown.VAT)
		order.Gross = order.Gross.Add(quote.Breakdown.Gross)
	}
	order.Items = items

	// MAX+1 allocation can race a concurrent checkout: both transactions read
	// the same number and the loser hits the unique index on insert. Retry the
	// whole transaction so the loser reallocates instead of failing the sale.
	var txErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		txErr = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			number, err := repo.NextOrderNumber(ctx, s.cfg.OrderNumberStart)
			if err != nil {
				return fmt.Errorf("allocating order number: %w", err)
			}
			order.OrderNumber = number

			if _, err := repo.CreateOrder(ctx, order); err != nil {
				return fmt.Errorf("inserting order: %w", err)
			}
			for _, id := range artworkIDs {
				if err := repo.MarkArtworkAttached(ctx, id); err != nil {
					return fmt.Errorf("attaching artwork %s: %w", id, err)
				}
			}
			return nil
		})
		if txErr == nil || !db.IsUniqueViolation(txErr, "order_number") {
			break
		}
	}
	if txErr != nil {
		if pkgerrors.As(txErr) != nil {
			return nil, txErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "db: place order")
	}

	logCtx := s.log.WithOrderNumber(ctx, order.OrderNumber)
	logCtx = s.log.WithFields(logCtx, map[string]any{
		"items": len(order.Items),
		"gross": order.Gross.String(),
	})
	s.log.Info(logCtx, "order placed")

	return orders.NewOrderDTO(order), nil
}

func (s *service) validateContact(input PlaceOrderInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	email := strings.TrimSpace(input.CustomerEmail)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is not a valid address")
	}
	return nil
}

func (s *service) checkArtwork(ctx context.Context, index int, id uuid.UUID) error {
	file, err := s.repo.FindArtworkFile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: artwork file not found", index+1))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load artwork file")
	}
	if file.Status == enums.ArtworkStatusRejected {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("item %d: artwork file was rejected, upload a replacement", index+1))
	}
	return nil
}
