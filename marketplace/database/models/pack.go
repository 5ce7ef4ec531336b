package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Pack is a purchasable booster with per-rarity roll probabilities.
// Probabilities are weights; they do not have to sum to one.
type Pack struct {
	bun.BaseModel `bun:"table:packs,alias:p"`

	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
	Price         int64  `bun:"price,notnull" json:"price"`
	CardsQuantity int    `bun:"cards_quantity,notnull" json:"cards_quantity"`
	ImageURL      string `bun:"image_url,notnull,default:''" json:"image_url"`

	CommonRarity        float64 `bun:"common_rarity,notnull" json:"common_rarity"`
	RareRarity          float64 `bun:"rare_rarity,notnull" json:"rare_rarity"`
	EpicRarity          float64 `bun:"epic_rarity,notnull" json:"epic_rarity"`
	LegendaryRarity     float64 `bun:"legendary_rarity,notnull" json:"legendary_rarity"`
	FullLegendaryRarity float64 `bun:"full_legendary_rarity,notnull" json:"full_legendary_rarity"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
