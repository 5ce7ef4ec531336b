package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Trade is the central aggregate: a fixed proposal to exchange the
// sender-side card entries for the receiver-side ones. The card membership
// is immutable once created; participants are append-only.
type Trade struct {
	bun.BaseModel `bun:"table:trades,alias:t"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Cards        []*TradeCard `bun:"rel:has-many,join:id=trade_id" json:"cards,omitempty"`
	Participants []*UserTrade `bun:"rel:has-many,join:id=trade_id" json:"participants,omitempty"`
}

// TradeCard is one card membership row. IsSender marks cards offered by the
// proposer; the rest are requested from whoever accepts.
type TradeCard struct {
	bun.BaseModel `bun:"table:trade_cards,alias:tc"`

	ID       int64 `bun:"id,pk,autoincrement" json:"id"`
	TradeID  int64 `bun:"trade_id,notnull" json:"trade_id"`
	CardID   int64 `bun:"card_id,notnull" json:"card_id"`
	IsSender bool  `bun:"is_sender,notnull" json:"is_sender"`

	Card *Card `bun:"rel:belongs-to,join:card_id=id" json:"card,omitempty"`
}

// UserTrade is the participant ledger row. Never updated, never deleted.
type UserTrade struct {
	bun.BaseModel `bun:"table:user_trades,alias:ut"`

	ID       int64 `bun:"id,pk,autoincrement" json:"id"`
	TradeID  int64 `bun:"trade_id,notnull" json:"trade_id"`
	UserID   int64 `bun:"user_id,notnull" json:"user_id"`
	IsSender bool  `bun:"is_sender,notnull" json:"is_sender"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}
