package trading

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
	"github.com/cardbazar/cardbazar/marketplace/database/repositories"
)

// Service is the trade lifecycle engine. Page and id parameters arrive as
// raw strings because their parse failures belong to the engine's error
// taxonomy, not to the transport.
type Service interface {
	Create(ctx context.Context, actorID int64, senderCardIDs, receiverCardIDs []int64) (int64, error)
	List(ctx context.Context, actorID int64, page, search string) (*ListResult, error)
	Get(ctx context.Context, actorID int64, id string) (*models.Trade, error)
	Available(ctx context.Context, actorID int64) ([]*models.Trade, error)
	Accept(ctx context.Context, actorID int64, id string) (string, error)
	Mine(ctx context.Context, actorID int64) ([]*models.Trade, error)
	Accepted(ctx context.Context, actorID int64) ([]*models.Trade, error)
}

type service struct {
	trades   Repository
	catalog  CardCatalog
	users    UserDirectory
	ledger   OwnershipLedger
	strategy AvailabilityStrategy
}

type Option func(*service)

// WithAvailabilityStrategy overrides the default all-cards subset rule.
func WithAvailabilityStrategy(strategy AvailabilityStrategy) Option {
	return func(s *service) {
		s.strategy = strategy
	}
}

func NewService(trades Repository, catalog CardCatalog, users UserDirectory, ledger OwnershipLedger, opts ...Option) Service {
	s := &service{
		trades:   trades,
		catalog:  catalog,
		users:    users,
		ledger:   ledger,
		strategy: AvailabilityAllCards,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, actorID int64, senderCardIDs, receiverCardIDs []int64) (int64, error) {
	if actorID <= 0 {
		return 0, ErrUnauthorized
	}

	senderSet := make(map[int64]struct{}, len(senderCardIDs))
	for _, id := range senderCardIDs {
		senderSet[id] = struct{}{}
	}
	for _, id := range receiverCardIDs {
		if _, ok := senderSet[id]; ok {
			return 0, fmt.Errorf("card %d appears on both sides: %w", id, ErrInvalidArgument)
		}
	}

	// The proposer must hold every card they are offering.
	if len(senderCardIDs) > 0 {
		owned, err := s.ledger.OwnedCardIDs(ctx, actorID)
		if err != nil {
			return 0, fmt.Errorf("failed to check ownership: %w", err)
		}
		ownedSet := make(map[int64]struct{}, len(owned))
		for _, id := range owned {
			ownedSet[id] = struct{}{}
		}
		for _, id := range senderCardIDs {
			if _, ok := ownedSet[id]; !ok {
				return 0, fmt.Errorf("card %d is not in your collection: %w", id, ErrInvalidArgument)
			}
		}
	}

	entries := make([]*models.TradeCard, 0, len(senderCardIDs)+len(receiverCardIDs))
	for _, id := range senderCardIDs {
		entries = append(entries, &models.TradeCard{CardID: id, IsSender: true})
	}
	for _, id := range receiverCardIDs {
		entries = append(entries, &models.TradeCard{CardID: id, IsSender: false})
	}

	return s.trades.Create(ctx, entries)
}

func (s *service) List(ctx context.Context, actorID int64, page, search string) (*ListResult, error) {
	if actorID <= 0 {
		return nil, ErrUnauthorized
	}

	pageNum, err := strconv.Atoi(page)
	if err != nil || pageNum < 1 {
		return nil, fmt.Errorf("invalid page: %w", ErrInvalidArgument)
	}
	offset := (pageNum - 1) * PageSize

	if search != "" {
		trades, err := s.trades.SearchByCardName(ctx, search, offset, PageSize)
		if err != nil {
			return nil, err
		}
		return &ListResult{Trades: trades}, nil
	}

	trades, err := s.trades.ListPage(ctx, offset, PageSize)
	if err != nil {
		return nil, err
	}

	cardIDs, userIDs := collectIDs(trades)

	var cards []*models.Card
	var users []*models.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = s.catalog.GetByIDs(gctx, cardIDs)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.users.GetByIDs(gctx, userIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to project trades: %w", err)
	}

	return &ListResult{Summaries: Flatten(trades, indexCards(cards), indexUsers(users))}, nil
}

func (s *service) Get(ctx context.Context, actorID int64, id string) (*models.Trade, error) {
	if actorID <= 0 {
		return nil, ErrUnauthorized
	}
	tradeID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", ErrInvalidArgument)
	}

	trade, err := s.trades.GetWithRelations(ctx, tradeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return trade, nil
}

func (s *service) Available(ctx context.Context, actorID int64) ([]*models.Trade, error) {
	if actorID <= 0 {
		return nil, ErrUnauthorized
	}
	return s.Resolve(ctx, actorID)
}

func (s *service) Accept(ctx context.Context, actorID int64, id string) (string, error) {
	if actorID <= 0 {
		return "", ErrUnauthorized
	}
	tradeID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid id: %w", ErrInvalidArgument)
	}

	err = s.trades.AddParticipant(ctx, tradeID, actorID)
	switch {
	case err == nil:
		return "Trade accepted", nil
	case errors.Is(err, repositories.ErrNotFound):
		return "", ErrNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		return "", ErrConflict
	default:
		return "", err
	}
}

func (s *service) Mine(ctx context.Context, actorID int64) ([]*models.Trade, error) {
	if actorID <= 0 {
		return nil, ErrUnauthorized
	}
	return s.trades.ListByParticipant(ctx, actorID, true)
}

func (s *service) Accepted(ctx context.Context, actorID int64) ([]*models.Trade, error) {
	if actorID <= 0 {
		return nil, ErrUnauthorized
	}
	return s.trades.ListByParticipant(ctx, actorID, false)
}
