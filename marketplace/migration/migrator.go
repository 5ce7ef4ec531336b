package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cardbazar/cardbazar/marketplace/database/models"
)

// Migrator imports users, cards and ownership rows from the legacy
// MongoDB deployment into Postgres. Inserts are idempotent so the
// migration can be re-run after a partial failure.
type Migrator struct {
	pgDB      *bun.DB
	mongoDB   *mongo.Database
	batchSize int
	stats     MigrationStats
}

func NewMigrator(pgDB *bun.DB, mongoDB *mongo.Database) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		mongoDB:   mongoDB,
		batchSize: 1000,
		stats: MigrationStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
	}
}

// SetBatchSize overrides the default batch size for inserts
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// Connect opens the legacy Mongo database and returns it with a
// disconnect func.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client.Database(database), client.Disconnect, nil
}

// Run migrates cards first, then users, then the ownership rows that
// reference both.
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.migrateCards(ctx); err != nil {
		return fmt.Errorf("card migration failed: %w", err)
	}
	if err := m.migrateUsers(ctx); err != nil {
		return fmt.Errorf("user migration failed: %w", err)
	}
	if err := m.migrateUserCards(ctx); err != nil {
		return fmt.Errorf("user card migration failed: %w", err)
	}
	m.report()
	return nil
}

func (m *Migrator) migrateCards(ctx context.Context) error {
	stats := m.stats.table("cards")

	cursor, err := m.mongoDB.Collection("cards").Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to read cards: %w", err)
	}
	defer cursor.Close(ctx)

	batch := make([]*models.Card, 0, m.batchSize)
	for cursor.Next(ctx) {
		var legacy legacyCard
		if err := cursor.Decode(&legacy); err != nil {
			stats.Errors++
			continue
		}
		stats.Read++

		rarity := models.Rarity(legacy.Rarity)
		if !rarity.Valid() {
			rarity = models.RarityCommon
		}

		batch = append(batch, &models.Card{
			ID:       legacy.ID,
			Name:     legacy.Name,
			ImageURL: legacy.ImageURL,
			Rarity:   rarity,
		})
		if len(batch) >= m.batchSize {
			if err := m.flushCards(ctx, batch, stats); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := m.flushCards(ctx, batch, stats); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (m *Migrator) flushCards(ctx context.Context, batch []*models.Card, stats *TableStats) error {
	res, err := m.pgDB.NewInsert().
		Model(&batch).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert cards: %w", err)
	}
	inserted, _ := res.RowsAffected()
	stats.Inserted += int(inserted)
	stats.Skipped += len(batch) - int(inserted)
	return nil
}

func (m *Migrator) migrateUsers(ctx context.Context) error {
	stats := m.stats.table("users")

	cursor, err := m.mongoDB.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to read users: %w", err)
	}
	defer cursor.Close(ctx)

	batch := make([]*models.User, 0, m.batchSize)
	for cursor.Next(ctx) {
		var legacy legacyUser
		if err := cursor.Decode(&legacy); err != nil {
			stats.Errors++
			continue
		}
		stats.Read++

		if legacy.Email == "" {
			stats.Skipped++
			continue
		}

		// Password hashes carry over as-is, both sides use bcrypt.
		batch = append(batch, &models.User{
			Email:    legacy.Email,
			Password: legacy.Password,
			Username: legacy.Username,
			Balance:  legacy.Balance,
			IsAdmin:  legacy.IsAdmin,
		})
		if len(batch) >= m.batchSize {
			if err := m.flushUsers(ctx, batch, stats); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := m.flushUsers(ctx, batch, stats); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (m *Migrator) flushUsers(ctx context.Context, batch []*models.User, stats *TableStats) error {
	res, err := m.pgDB.NewInsert().
		Model(&batch).
		On("CONFLICT (email) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert users: %w", err)
	}
	inserted, _ := res.RowsAffected()
	stats.Inserted += int(inserted)
	stats.Skipped += len(batch) - int(inserted)
	return nil
}

func (m *Migrator) migrateUserCards(ctx context.Context) error {
	stats := m.stats.table("user_cards")

	userIDs, err := m.userIDsByEmail(ctx)
	if err != nil {
		return err
	}

	cursor, err := m.mongoDB.Collection("usercards").Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to read usercards: %w", err)
	}
	defer cursor.Close(ctx)

	batch := make([]*models.UserCard, 0, m.batchSize)
	for cursor.Next(ctx) {
		var legacy legacyUserCard
		if err := cursor.Decode(&legacy); err != nil {
			stats.Errors++
			continue
		}
		stats.Read++

		userID, ok := userIDs[legacy.Email]
		if !ok || legacy.Amount <= 0 {
			stats.Skipped++
			continue
		}

		batch = append(batch, &models.UserCard{
			UserID:   userID,
			CardID:   legacy.CardID,
			Amount:   legacy.Amount,
			Obtained: time.Now(),
		})
		if len(batch) >= m.batchSize {
			if err := m.flushUserCards(ctx, batch, stats); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := m.flushUserCards(ctx, batch, stats); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (m *Migrator) flushUserCards(ctx context.Context, batch []*models.UserCard, stats *TableStats) error {
	res, err := m.pgDB.NewInsert().
		Model(&batch).
		On("CONFLICT (user_id, card_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert user cards: %w", err)
	}
	inserted, _ := res.RowsAffected()
	stats.Inserted += int(inserted)
	stats.Skipped += len(batch) - int(inserted)
	return nil
}

func (m *Migrator) userIDsByEmail(ctx context.Context) (map[string]int64, error) {
	var users []*models.User
	err := m.pgDB.NewSelect().
		Model(&users).
		Column("id", "email").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user ids: %w", err)
	}

	ids := make(map[string]int64, len(users))
	for _, u := range users {
		ids[u.Email] = u.ID
	}
	return ids, nil
}

func (m *Migrator) report() {
	for name, ts := range m.stats.Tables {
		slog.Info("Migration table complete",
			slog.String("table", name),
			slog.Int("read", ts.Read),
			slog.Int("inserted", ts.Inserted),
			slog.Int("skipped", ts.Skipped),
			slog.Int("errors", ts.Errors))
	}
	slog.Info("Migration finished",
		slog.Duration("elapsed", time.Since(m.stats.StartTime)))
}
