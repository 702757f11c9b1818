package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/model"
)

// BattleRepo handles battle summary database operations.
type BattleRepo struct {
	db *sql.DB
}

// NewBattleRepo creates a BattleRepo.
func NewBattleRepo(db *sql.DB) *BattleRepo {
	return &BattleRepo{db: db}
}

// Insert stores one battle summary row.
func (r *BattleRepo) Insert(ctx context.Context, b *model.BattleRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO battles (id, room, format, strategy, model_version, won, truncated, turns, total_reward, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.Room, b.Format, b.Strategy, nullable(b.ModelVersion),
		b.Won, b.Truncated, b.Turns, b.TotalReward, b.StartedAt, b.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert battle: %w", err)
	}
	return nil
}

// ListRecent returns the most recent battles, newest first.
func (r *BattleRepo) ListRecent(ctx context.Context, limit int) ([]model.BattleRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, room, format, strategy, model_version, won, truncated, turns, total_reward, started_at, finished_at
		 FROM battles ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	var battles []model.BattleRecord
	for rows.Next() {
		var b model.BattleRecord
		var version sql.NullString
		if err := rows.Scan(&b.ID, &b.Room, &b.Format, &b.Strategy, &version,
			&b.Won, &b.Truncated, &b.Turns, &b.TotalReward, &b.StartedAt, &b.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		b.ModelVersion = version.String
		battles = append(battles, b)
	}
	return battles, rows.Err()
}

// WinRate counts wins and completed battles for a model version since a
// cutoff. Truncated battles are excluded. An empty version matches all.
func (r *BattleRepo) WinRate(ctx context.Context, modelVersion string, since time.Time) (wins, total int, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FILTER (WHERE won), COUNT(*)
		 FROM battles
		 WHERE NOT truncated
		   AND finished_at >= $1
		   AND ($2 = '' OR model_version = $2)`,
		since, modelVersion,
	).Scan(&wins, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("win rate: %w", err)
	}
	return wins, total, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
