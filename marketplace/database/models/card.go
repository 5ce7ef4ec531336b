package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Rarity string

const (
	RarityCommon        Rarity = "common"
	RarityRare          Rarity = "rare"
	RarityEpic          Rarity = "epic"
	RarityLegendary     Rarity = "legendary"
	RarityFullLegendary Rarity = "full_legendary"
)

// Valid reports whether r is one of the known rarities.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary, RarityFullLegendary:
		return true
	}
	return false
}

// Card is the immutable catalog entity. The trade core only ever reads it.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID       int64  `bun:"id,pk,autoincrement" json:"card_id"`
	Name     string `bun:"name,notnull" json:"name"`
	ImageURL string `bun:"image_url,notnull,default:''" json:"image_url"`
	Rarity   Rarity `bun:"rarity,notnull" json:"rarity"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
