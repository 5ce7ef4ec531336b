package models

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// LoginRequest is the payload for credential login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTradeRequest is the payload for opening a trade
type CreateTradeRequest struct {
	SenderCards   []int64 `json:"sender_cards"`
	ReceiverCards []int64 `json:"receiver_cards"`
}

// CreateCardRequest is the payload for adding a card to the catalog.
// The image arrives as a multipart file alongside these fields.
type CreateCardRequest struct {
	Name   string `json:"name" form:"name"`
	Rarity string `json:"rarity" form:"rarity"`
}

// TokenResponse carries a freshly signed access token
type TokenResponse struct {
	Token string `json:"token"`
}
