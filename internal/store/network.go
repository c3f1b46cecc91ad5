package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/network"
)

// SaveNetwork persists a generated network together with the parameters
// that built it and returns the new network id.
func (s *Store) SaveNetwork(ctx context.Context, g *network.Graph, trust *network.TrustMatrix, cfg network.GenerateConfig, seed int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO networks (node_count, seed_size, attach_count, beta, seed, adjacency, trust, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.NodeCount(), cfg.SeedSize, cfg.AttachCount, cfg.Beta, seed,
		encodeAdjacency(g.Dense()), encodeTrust(trust.Rows()),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to save network: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read network id: %w", err)
	}
	return id, nil
}

// LoadNetwork rebuilds a stored network and its trust matrix.
func (s *Store) LoadNetwork(ctx context.Context, id int64) (*network.Graph, *network.TrustMatrix, *NetworkRecord, error) {
	var (
		rec       NetworkRecord
		adjacency []byte
		trustBlob []byte
		createdAt string
	)
	rec.ID = id
	err := s.db.QueryRowContext(ctx, `
		SELECT node_count, seed_size, attach_count, beta, seed, adjacency, trust, created_at
		FROM networks WHERE id = ?`, id).
		Scan(&rec.NodeCount, &rec.SeedSize, &rec.AttachCount, &rec.Beta, &rec.Seed,
			&adjacency, &trustBlob, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil, fmt.Errorf("network %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load network %d: %w", id, err)
	}
	rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("network %d has bad created_at %q: %w", id, createdAt, err)
	}

	adj, err := decodeAdjacency(adjacency, rec.NodeCount)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("network %d: %w", id, err)
	}
	g, err := network.NewGraphFromAdjacency(adj)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("network %d: %w", id, err)
	}
	rows, err := decodeTrust(trustBlob, rec.NodeCount)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("network %d: %w", id, err)
	}
	trust, err := network.NewTrustFromDense(rows)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("network %d: %w", id, err)
	}
	return g, trust, &rec, nil
}

// ListNetworks returns the metadata of all stored networks, oldest first.
func (s *Store) ListNetworks(ctx context.Context) ([]NetworkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, node_count, seed_size, attach_count, beta, seed, created_at
		FROM networks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	defer rows.Close()

	var records []NetworkRecord
	for rows.Next() {
		var (
			rec       NetworkRecord
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.NodeCount, &rec.SeedSize, &rec.AttachCount,
			&rec.Beta, &rec.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan network row: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("network %d has bad created_at %q: %w", rec.ID, createdAt, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// encodeAdjacency flattens a square boolean matrix into row-major bytes.
func encodeAdjacency(adj [][]bool) []byte {
	n := len(adj)
	out := make([]byte, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if adj[i][j] {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

func decodeAdjacency(blob []byte, n int) ([][]bool, error) {
	if len(blob) != n*n {
		return nil, fmt.Errorf("adjacency blob is %d bytes, want %d", len(blob), n*n)
	}
	adj := make([][]bool, n)
	for i := 0; i < n; i++ {
		adj[i] = make([]bool, n)
		for j := 0; j < n; j++ {
			switch blob[i*n+j] {
			case 0:
			case 1:
				adj[i][j] = true
			default:
				return nil, fmt.Errorf("adjacency blob has byte %d at (%d,%d), want 0 or 1", blob[i*n+j], i, j)
			}
		}
	}
	return adj, nil
}

// encodeTrust flattens a square float64 matrix into row-major little-endian
// bytes.
func encodeTrust(rows [][]float64) []byte {
	n := len(rows)
	out := make([]byte, 8*n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			binary.LittleEndian.PutUint64(out[8*(i*n+j):], math.Float64bits(rows[i][j]))
		}
	}
	return out
}

func decodeTrust(blob []byte, n int) ([][]float64, error) {
	if len(blob) != 8*n*n {
		return nil, fmt.Errorf("trust blob is %d bytes, want %d", len(blob), 8*n*n)
	}
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			rows[i][j] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*(i*n+j):]))
		}
	}
	return rows, nil
}
