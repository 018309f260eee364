package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/arena/internal/stats"
)

// RunSummary aggregates the brawls recorded for one run.
type RunSummary struct {
	Trials int
	Draws  int
	// Wins maps a group name to the brawls it won.
	Wins map[string]int
}

// BrawlRepository records brawl outcomes for one statistician run.
// It satisfies stats.Recorder.
type BrawlRepository struct {
	db    *pgxpool.Pool
	runID uuid.UUID
}

// NewBrawlRepository creates a repository that files every outcome under runID.
//
// Precondition: db must be a valid, open connection pool.
func NewBrawlRepository(db *pgxpool.Pool, runID uuid.UUID) *BrawlRepository {
	return &BrawlRepository{db: db, runID: runID}
}

// RunID returns the run the repository records under.
func (r *BrawlRepository) RunID() uuid.UUID { return r.runID }

// Record inserts one trial result.
//
// Postcondition: A draw is stored with a NULL winner. Recording a trial the
// run already holds is a no-op; the first result is kept.
func (r *BrawlRepository) Record(ctx context.Context, res stats.Result) error {
	out := res.Outcome
	var winner *int
	if !out.IsDraw() {
		w := out.Winner
		winner = &w
	}
	survivors := out.Survivors
	if survivors == nil {
		survivors = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO brawls (id, run_id, trial, group_names, winner, turns, damage, survivors)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (run_id, trial) DO NOTHING`,
		out.ID, r.runID, res.Trial, res.Groups, winner, out.Turns, out.Damage, survivors,
	)
	if err != nil {
		return fmt.Errorf("recording brawl %s: %w", out.ID, err)
	}
	return nil
}

// Summary tallies the brawls recorded under runID.
//
// Postcondition: Trials == Draws + sum(Wins).
func (r *BrawlRepository) Summary(ctx context.Context, runID uuid.UUID) (RunSummary, error) {
	s := RunSummary{Wins: map[string]int{}}
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE winner IS NULL)
		 FROM brawls WHERE run_id = $1`,
		runID,
	).Scan(&s.Trials, &s.Draws)
	if err != nil {
		return RunSummary{}, fmt.Errorf("counting brawls: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT group_names[winner + 1], COUNT(*)
		 FROM brawls
		 WHERE run_id = $1 AND winner IS NOT NULL
		 GROUP BY 1`,
		runID,
	)
	if err != nil {
		return RunSummary{}, fmt.Errorf("querying wins: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return RunSummary{}, fmt.Errorf("scanning wins: %w", err)
		}
		s.Wins[name] = n
	}
	if err := rows.Err(); err != nil {
		return RunSummary{}, fmt.Errorf("iterating wins: %w", err)
	}
	return s, nil
}

// WinCounts returns the wins per group name across every recorded run.
func (r *BrawlRepository) WinCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT group_names[winner + 1], COUNT(*)
		 FROM brawls
		 WHERE winner IS NOT NULL
		 GROUP BY 1`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying win counts: %w", err)
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning win counts: %w", err)
		}
		counts[name] += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating win counts: %w", err)
	}
	return counts, nil
}
