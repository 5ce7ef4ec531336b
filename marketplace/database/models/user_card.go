package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserCard is the ownership ledger row: (user, card) -> amount.
// Written by pack opening and legacy import; the trade core reads it only.
type UserCard struct {
	bun.BaseModel `bun:"table:user_cards,alias:uc"`

	ID     int64 `bun:"id,pk,autoincrement" json:"id"`
	UserID int64 `bun:"user_id,notnull" json:"user_id"`
	CardID int64 `bun:"card_id,notnull" json:"card_id"`
	Amount int64 `bun:"amount,notnull,default:1" json:"amount"`

	Obtained  time.Time `bun:"obtained,notnull,default:current_timestamp" json:"obtained"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Card *Card `bun:"rel:belongs-to,join:card_id=id" json:"card,omitempty"`
}
