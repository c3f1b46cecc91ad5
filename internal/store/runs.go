package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

// CreateRun records a run over the given network in the running state and
// returns its id. The configuration is stored exactly as given; a seed node
// of -1 means the engine picks one from its random stream, so replaying the
// stored configuration reproduces the run.
func (s *Store) CreateRun(ctx context.Context, networkID int64, cfg spreading.Config) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (network_id, mode, rounds, memory_capacity, max_entropy,
			conservation, liars, truth_tellers, seed_node, seed, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		networkID, string(cfg.Mode), cfg.Rounds, cfg.MemoryCapacity, cfg.MaxEntropy,
		cfg.Conservation, cfg.Liars, cfg.TruthTellers, cfg.SeedNode, cfg.Seed,
		RunStatusRunning, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// FinishRun marks a run as done or failed.
func (s *Store) FinishRun(ctx context.Context, id int64, status string) error {
	if status != RunStatusDone && status != RunStatusFailed {
		return fmt.Errorf("invalid run status: %s", status)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetRun returns a stored run record.
func (s *Store) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	var (
		rec       RunRecord
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, network_id, mode, rounds, memory_capacity, max_entropy,
			conservation, liars, truth_tellers, seed_node, seed, status, created_at
		FROM runs WHERE id = ?`, id).
		Scan(&rec.ID, &rec.NetworkID, &rec.Mode, &rec.Rounds, &rec.MemoryCapacity,
			&rec.MaxEntropy, &rec.Conservation, &rec.Liars, &rec.TruthTellers,
			&rec.SeedNode, &rec.Seed, &rec.Status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %d: %w", id, err)
	}
	rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("run %d has bad created_at %q: %w", id, createdAt, err)
	}
	return &rec, nil
}

// ListRuns returns all stored run records, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, network_id, mode, rounds, memory_capacity, max_entropy,
			conservation, liars, truth_tellers, seed_node, seed, status, created_at
		FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec       RunRecord
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.NetworkID, &rec.Mode, &rec.Rounds,
			&rec.MemoryCapacity, &rec.MaxEntropy, &rec.Conservation, &rec.Liars,
			&rec.TruthTellers, &rec.SeedNode, &rec.Seed, &rec.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("run %d has bad created_at %q: %w", rec.ID, createdAt, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Config rebuilds the engine configuration the run was started with.
func (r *RunRecord) Config() spreading.Config {
	return spreading.Config{
		MemoryCapacity: r.MemoryCapacity,
		MaxEntropy:     r.MaxEntropy,
		Conservation:   r.Conservation,
		Mode:           spreading.Mode(r.Mode),
		Rounds:         r.Rounds,
		Liars:          r.Liars,
		TruthTellers:   r.TruthTellers,
		SeedNode:       r.SeedNode,
		Seed:           r.Seed,
	}
}

// SaveStatistics stores a run's per-round aggregates, replacing any rows a
// previous save left behind.
func (s *Store) SaveStatistics(ctx context.Context, runID int64, stats *spreading.RunStatistics) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM round_stats WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to clear round stats: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM fragmentation WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to clear fragmentation: %w", err)
	}

	insertRound, err := tx.PrepareContext(ctx, `
		INSERT INTO round_stats (run_id, round, avg_entropy, var_entropy, max_entropy, min_entropy)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare round insert: %w", err)
	}
	defer insertRound.Close()

	for r := 0; r < stats.Rounds(); r++ {
		if _, err := insertRound.ExecContext(ctx, runID, r,
			stats.AvgEntropy[r], stats.VarEntropy[r], stats.MaxEntropy[r], stats.MinEntropy[r]); err != nil {
			return fmt.Errorf("failed to save round %d stats: %w", r, err)
		}
	}

	insertFrag, err := tx.PrepareContext(ctx, `
		INSERT INTO fragmentation (run_id, round, code, fraction) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare fragmentation insert: %w", err)
	}
	defer insertFrag.Close()

	for c := 0; c < rumor.Alphabet; c++ {
		for r, fraction := range stats.Fragmentation[c] {
			if fraction == 0 {
				continue
			}
			if _, err := insertFrag.ExecContext(ctx, runID, r, c, fraction); err != nil {
				return fmt.Errorf("failed to save fragmentation for code %d round %d: %w", c, r, err)
			}
		}
	}

	return tx.Commit()
}

// LoadStatistics rebuilds a run's per-round aggregates.
func (s *Store) LoadStatistics(ctx context.Context, runID int64) (*spreading.RunStatistics, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	stats := &spreading.RunStatistics{Fragmentation: make([][]float64, rumor.Alphabet)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT avg_entropy, var_entropy, max_entropy, min_entropy
		FROM round_stats WHERE run_id = ? ORDER BY round`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load round stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var avg, variance, maxH, minH float64
		if err := rows.Scan(&avg, &variance, &maxH, &minH); err != nil {
			return nil, fmt.Errorf("failed to scan round stats: %w", err)
		}
		stats.AvgEntropy = append(stats.AvgEntropy, avg)
		stats.VarEntropy = append(stats.VarEntropy, variance)
		stats.MaxEntropy = append(stats.MaxEntropy, maxH)
		stats.MinEntropy = append(stats.MinEntropy, minH)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load round stats: %w", err)
	}

	rounds := stats.Rounds()
	for c := range stats.Fragmentation {
		stats.Fragmentation[c] = make([]float64, rounds)
	}

	fragRows, err := s.db.QueryContext(ctx, `
		SELECT round, code, fraction FROM fragmentation WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fragmentation: %w", err)
	}
	defer fragRows.Close()

	for fragRows.Next() {
		var round, code int
		var fraction float64
		if err := fragRows.Scan(&round, &code, &fraction); err != nil {
			return nil, fmt.Errorf("failed to scan fragmentation: %w", err)
		}
		if code < 0 || code >= rumor.Alphabet || round < 0 || round >= rounds {
			return nil, fmt.Errorf("fragmentation row (round %d, code %d) out of range for %d rounds", round, code, rounds)
		}
		stats.Fragmentation[code][round] = fraction
	}
	return stats, fragRows.Err()
}
