package trading

import "github.com/cardbazar/cardbazar/marketplace/database/models"

// PageSize is the fixed page length of trade listings.
const PageSize = 16

// CardLine is one denormalized card entry of a trade summary.
type CardLine struct {
	IsSender bool   `json:"is_sender"`
	Name     string `json:"name"`
	CardID   int64  `json:"card_id"`
	ImageURL string `json:"image_url"`
}

// UserLine is one participant with their username.
type UserLine struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// TradeSummary is the flat wire shape of a listed trade. No nested
// relational structures leave the API.
type TradeSummary struct {
	ID    int64      `json:"id"`
	Cards []CardLine `json:"cards"`
	Users []UserLine `json:"users"`
}

// ListResult carries one of the two listing shapes: raw trades when a
// search filter was applied, projected summaries otherwise.
type ListResult struct {
	Trades    []*models.Trade
	Summaries []TradeSummary
}
