package trading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
	"github.com/cardbazar/cardbazar/marketplace/database/repositories"
)

type fakeTradeRepo struct {
	createdEntries []*models.TradeCard
	createErr      error
	createID       int64

	trades    map[int64]*models.Trade
	page      []*models.Trade
	searched  []*models.Trade
	available []*models.Trade

	lastSearch       string
	lastOffset       int
	lastLimit        int
	lastOwned        []int64
	lastReceiverOnly bool

	addParticipantErr error
	participants      map[int64][]int64

	byParticipant map[bool][]*models.Trade
}

func (f *fakeTradeRepo) Create(ctx context.Context, entries []*models.TradeCard) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.createdEntries = entries
	return f.createID, nil
}

func (f *fakeTradeRepo) GetWithRelations(ctx context.Context, id int64) (*models.Trade, error) {
	trade, ok := f.trades[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return trade, nil
}

func (f *fakeTradeRepo) ListPage(ctx context.Context, offset, limit int) ([]*models.Trade, error) {
	f.lastOffset = offset
	f.lastLimit = limit
	return f.page, nil
}

func (f *fakeTradeRepo) SearchByCardName(ctx context.Context, name string, offset, limit int) ([]*models.Trade, error) {
	f.lastSearch = name
	f.lastOffset = offset
	f.lastLimit = limit
	return f.searched, nil
}

func (f *fakeTradeRepo) ListAvailable(ctx context.Context, userID int64, ownedIDs []int64, receiverSideOnly bool) ([]*models.Trade, error) {
	f.lastOwned = ownedIDs
	f.lastReceiverOnly = receiverSideOnly
	return f.available, nil
}

func (f *fakeTradeRepo) ListByParticipant(ctx context.Context, userID int64, isSender bool) ([]*models.Trade, error) {
	return f.byParticipant[isSender], nil
}

func (f *fakeTradeRepo) AddParticipant(ctx context.Context, tradeID, userID int64) error {
	if f.addParticipantErr != nil {
		return f.addParticipantErr
	}
	if f.participants == nil {
		f.participants = make(map[int64][]int64)
	}
	f.participants[tradeID] = append(f.participants[tradeID], userID)
	return nil
}

type fakeCatalog struct {
	cards []*models.Card
	err   error
}

func (f *fakeCatalog) GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error) {
	return f.cards, f.err
}

type fakeDirectory struct {
	users []*models.User
	err   error
}

func (f *fakeDirectory) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	return f.users, f.err
}

type fakeLedger struct {
	owned map[int64][]int64
	err   error
}

func (f *fakeLedger) OwnedCardIDs(ctx context.Context, userID int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.owned[userID], nil
}

func newTestService(repo *fakeTradeRepo, ledger *fakeLedger, opts ...Option) Service {
	return NewService(repo, &fakeCatalog{}, &fakeDirectory{}, ledger, opts...)
}

func TestService_Create(t *testing.T) {
	owned := &fakeLedger{owned: map[int64][]int64{7: {1, 2, 3}}}

	tests := []struct {
		name          string
		actorID       int64
		senderCards   []int64
		receiverCards []int64
		wantErr       error
	}{
		{
			name:          "Success",
			actorID:       7,
			senderCards:   []int64{1, 2},
			receiverCards: []int64{9},
		},
		{
			name:    "Unauthorized",
			actorID: 0,
			wantErr: ErrUnauthorized,
		},
		{
			name:          "CardOnBothSides",
			actorID:       7,
			senderCards:   []int64{1},
			receiverCards: []int64{1},
			wantErr:       ErrInvalidArgument,
		},
		{
			name:          "SenderCardNotOwned",
			actorID:       7,
			senderCards:   []int64{99},
			receiverCards: []int64{9},
			wantErr:       ErrInvalidArgument,
		},
		{
			name:          "EmptyTrade",
			actorID:       7,
			senderCards:   nil,
			receiverCards: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeTradeRepo{createID: 42}
			s := newTestService(repo, owned)

			id, err := s.Create(context.Background(), tt.actorID, tt.senderCards, tt.receiverCards)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), id)
			assert.Len(t, repo.createdEntries, len(tt.senderCards)+len(tt.receiverCards))
		})
	}
}

func TestService_Create_EntrySides(t *testing.T) {
	repo := &fakeTradeRepo{createID: 1}
	s := newTestService(repo, &fakeLedger{owned: map[int64][]int64{7: {1, 2}}})

	_, err := s.Create(context.Background(), 7, []int64{1, 2}, []int64{8})
	require.NoError(t, err)
	require.Len(t, repo.createdEntries, 3)

	for i, entry := range repo.createdEntries {
		if i < 2 {
			assert.True(t, entry.IsSender, "offered card must be flagged as sender side")
		} else {
			assert.False(t, entry.IsSender, "requested card must not be flagged as sender side")
		}
	}
}

func TestService_List(t *testing.T) {
	trade := &models.Trade{
		ID: 5,
		Cards: []*models.TradeCard{
			{CardID: 1, IsSender: true},
			{CardID: 2, IsSender: false},
		},
		Participants: []*models.UserTrade{
			{UserID: 7, IsSender: true},
		},
	}

	repo := &fakeTradeRepo{page: []*models.Trade{trade}}
	catalog := &fakeCatalog{cards: []*models.Card{
		{ID: 1, Name: "Alpha", ImageURL: "a.jpg"},
		{ID: 2, Name: "Beta", ImageURL: "b.jpg"},
	}}
	directory := &fakeDirectory{users: []*models.User{
		{ID: 7, Username: "ana"},
	}}
	s := NewService(repo, catalog, directory, &fakeLedger{})

	result, err := s.List(context.Background(), 7, "2", "")
	require.NoError(t, err)
	require.Nil(t, result.Trades)
	require.Len(t, result.Summaries, 1)

	assert.Equal(t, PageSize, repo.lastOffset, "page 2 starts after one full page")
	assert.Equal(t, PageSize, repo.lastLimit)

	summary := result.Summaries[0]
	assert.Equal(t, int64(5), summary.ID)
	require.Len(t, summary.Cards, 2)
	assert.Equal(t, "Alpha", summary.Cards[0].Name)
	assert.True(t, summary.Cards[0].IsSender)
	require.Len(t, summary.Users, 1)
	assert.Equal(t, "ana", summary.Users[0].Username)
}

func TestService_List_Search(t *testing.T) {
	found := []*models.Trade{{ID: 3}}
	repo := &fakeTradeRepo{searched: found}
	s := newTestService(repo, &fakeLedger{})

	result, err := s.List(context.Background(), 7, "1", "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", repo.lastSearch)
	assert.Equal(t, found, result.Trades)
	assert.Nil(t, result.Summaries, "search mode returns raw trades, not summaries")
}

func TestService_List_InvalidPage(t *testing.T) {
	s := newTestService(&fakeTradeRepo{}, &fakeLedger{})

	for _, page := range []string{"", "0", "-1", "abc"} {
		_, err := s.List(context.Background(), 7, page, "")
		assert.ErrorIs(t, err, ErrInvalidArgument, "page %q", page)
	}
}

func TestService_Get(t *testing.T) {
	trade := &models.Trade{ID: 5}
	repo := &fakeTradeRepo{trades: map[int64]*models.Trade{5: trade}}
	s := newTestService(repo, &fakeLedger{})

	got, err := s.Get(context.Background(), 7, "5")
	require.NoError(t, err)
	assert.Equal(t, trade, got)

	_, err = s.Get(context.Background(), 7, "6")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(context.Background(), 7, "x")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Get(context.Background(), 0, "5")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_Accept(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "Success"},
		{name: "NotFound", repoErr: repositories.ErrNotFound, wantErr: ErrNotFound},
		{name: "AlreadyAccepted", repoErr: repositories.ErrDuplicate, wantErr: ErrConflict},
		{name: "StoreFailure", repoErr: errors.New("boom"), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeTradeRepo{addParticipantErr: tt.repoErr}
			s := newTestService(repo, &fakeLedger{})

			message, err := s.Accept(context.Background(), 7, "5")
			switch {
			case tt.repoErr == nil:
				require.NoError(t, err)
				assert.Equal(t, "Trade accepted", message)
				assert.Equal(t, []int64{7}, repo.participants[5])
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrConflict)
			}
		})
	}
}

func TestService_Accept_InvalidID(t *testing.T) {
	s := newTestService(&fakeTradeRepo{}, &fakeLedger{})

	_, err := s.Accept(context.Background(), 7, "nope")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_Available(t *testing.T) {
	available := []*models.Trade{{ID: 1}}
	repo := &fakeTradeRepo{available: available}
	ledger := &fakeLedger{owned: map[int64][]int64{7: {1, 2}}}

	s := newTestService(repo, ledger)
	got, err := s.Available(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, available, got)
	assert.Equal(t, []int64{1, 2}, repo.lastOwned)
	assert.False(t, repo.lastReceiverOnly, "default strategy covers both sides")
}

func TestService_Available_ReceiverSideStrategy(t *testing.T) {
	repo := &fakeTradeRepo{}
	s := newTestService(repo, &fakeLedger{}, WithAvailabilityStrategy(AvailabilityReceiverSide))

	_, err := s.Available(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, repo.lastReceiverOnly)
}

func TestService_MineAndAccepted(t *testing.T) {
	proposed := []*models.Trade{{ID: 1}}
	joined := []*models.Trade{{ID: 2}}
	repo := &fakeTradeRepo{byParticipant: map[bool][]*models.Trade{
		true:  proposed,
		false: joined,
	}}
	s := newTestService(repo, &fakeLedger{})

	got, err := s.Mine(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, proposed, got)

	got, err = s.Accepted(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, joined, got)
}
