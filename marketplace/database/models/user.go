package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull" json:"username"`
	Email    string `bun:"email,notnull,unique" json:"email"`
	// Password holds the bcrypt hash, never the plaintext.
	Password string `bun:"password,notnull" json:"-"`
	Balance  int64  `bun:"balance,notnull,default:0" json:"balance"`
	IsAdmin  bool   `bun:"is_admin,notnull,default:false" json:"is_admin"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
