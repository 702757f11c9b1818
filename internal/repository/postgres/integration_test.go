//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/model"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/testutil"
)

var testDB *sql.DB

func setup(t *testing.T) *BattleRepo {
	t.Helper()
	if testDB == nil {
		testDB = testutil.SetupDB(t)
	}
	testutil.CleanupDB(t, testDB)
	return NewBattleRepo(testDB)
}

func testBattle(won bool, version string, finished time.Time) *model.BattleRecord {
	return &model.BattleRecord{
		ID:           uuid.NewString(),
		Room:         "battle-gen9randombattle-7",
		Format:       "gen9randombattle",
		Strategy:     "gonnx",
		ModelVersion: version,
		Won:          won,
		Turns:        24,
		TotalReward:  0.85,
		StartedAt:    finished.Add(-5 * time.Minute),
		FinishedAt:   finished,
	}
}

func TestInsertAndListRecent(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	older := testBattle(false, "policy-1", now.Add(-time.Hour))
	newer := testBattle(true, "policy-2", now)
	if err := repo.Insert(ctx, older); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, newer); err != nil {
		t.Fatalf("insert: %v", err)
	}

	battles, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(battles) != 2 {
		t.Fatalf("listed %d battles, want 2", len(battles))
	}
	if battles[0].ID != newer.ID {
		t.Errorf("newest battle not first: %s", battles[0].ID)
	}
	if battles[0].ModelVersion != "policy-2" || !battles[0].Won {
		t.Errorf("row = %+v", battles[0])
	}
}

func TestWinRate(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		if err := repo.Insert(ctx, testBattle(i < 2, "policy-3", now)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	// Truncated battles stay out of the ratio.
	truncated := testBattle(true, "policy-3", now)
	truncated.Truncated = true
	if err := repo.Insert(ctx, truncated); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// Other versions stay out of a versioned query.
	if err := repo.Insert(ctx, testBattle(true, "policy-2", now)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	wins, total, err := repo.WinRate(ctx, "policy-3", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("win rate: %v", err)
	}
	if wins != 2 || total != 3 {
		t.Errorf("wins/total = %d/%d, want 2/3", wins, total)
	}

	// Empty version matches everything.
	wins, total, err = repo.WinRate(ctx, "", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("win rate: %v", err)
	}
	if wins != 3 || total != 4 {
		t.Errorf("all versions wins/total = %d/%d, want 3/4", wins, total)
	}
}
