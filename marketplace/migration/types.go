package migration

import "time"

// TableStats tracks per-table migration counters
type TableStats struct {
	Read     int
	Inserted int
	Skipped  int
	Errors   int
}

// MigrationStats tracks overall migration progress
type MigrationStats struct {
	Tables    map[string]*TableStats
	StartTime time.Time
}

func (s *MigrationStats) table(name string) *TableStats {
	ts, ok := s.Tables[name]
	if !ok {
		ts = &TableStats{}
		s.Tables[name] = ts
	}
	return ts
}

// legacyUser mirrors the users collection of the old deployment
type legacyUser struct {
	Email    string `bson:"email"`
	Password string `bson:"password"`
	Username string `bson:"username"`
	Balance  int64  `bson:"balance"`
	IsAdmin  bool   `bson:"isAdmin"`
}

// legacyCard mirrors the cards collection of the old deployment
type legacyCard struct {
	ID       int64  `bson:"cardId"`
	Name     string `bson:"name"`
	ImageURL string `bson:"image"`
	Rarity   string `bson:"rarity"`
}

// legacyUserCard mirrors the usercards collection of the old deployment
type legacyUserCard struct {
	Email  string `bson:"email"`
	CardID int64  `bson:"cardId"`
	Amount int64  `bson:"amount"`
}
