package models

import (
	"github.com/cardbazar/cardbazar/marketplace/database/repositories"
)

// Repositories aggregates all repository dependencies for the web layer
type Repositories struct {
	User     repositories.UserRepository
	Card     repositories.CardRepository
	UserCard repositories.UserCardRepository
	Trade    repositories.TradeRepository
	Pack     repositories.PackRepository
}

// NewRepositories creates a new repositories aggregate
func NewRepositories(
	user repositories.UserRepository,
	card repositories.CardRepository,
	userCard repositories.UserCardRepository,
	trade repositories.TradeRepository,
	pack repositories.PackRepository,
) *Repositories {
	return &Repositories{
		User:     user,
		Card:     card,
		UserCard: userCard,
		Trade:    trade,
		Pack:     pack,
	}
}
