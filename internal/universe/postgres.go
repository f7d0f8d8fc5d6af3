package universe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource loads the reference map from the shared static-data
// database. The table is read-only at runtime; writes belong to the SDE
// import tooling, not this service.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource wraps an existing connection pool.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Load reads the full system-to-region table.
func (s *PostgresSource) Load(ctx context.Context) (map[int64]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT solar_system_id, region_id FROM map_solar_systems`)
	if err != nil {
		return nil, fmt.Errorf("query solar systems: %w", err)
	}
	defer rows.Close()

	regions := make(map[int64]int64)
	for rows.Next() {
		var systemID, regionID int64
		if err := rows.Scan(&systemID, &regionID); err != nil {
			return nil, fmt.Errorf("scan solar system row: %w", err)
		}
		regions[systemID] = regionID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read solar system rows: %w", err)
	}

	return regions, nil
}
