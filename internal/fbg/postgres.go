package fbg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const timestampColumn = "timestamp"

// PostgresStore implements Store against the per-zone wide tables written by
// the data collection system.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects a pgx pool using the service configuration and
// verifies the connection with a ping.
func NewPostgresStore(ctx context.Context, cfg Config, logger *slog.Logger) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.PostgresUser, cfg.PostgresPassword,
		cfg.PostgresHost, cfg.PostgresPort,
		cfg.PostgresDB, cfg.PostgresSSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("connected to postgres", "host", cfg.PostgresHost, "database", cfg.PostgresDB)

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// FetchRawRows reads the zone's wide table for timestamps strictly inside
// (start, end). Every column other than the timestamp is a sensor uid; NULL
// cells are omitted from the row's value set (sparse wide format).
func (s *PostgresStore) FetchRawRows(ctx context.Context, zone Zone, start, end time.Time) ([]Row, error) {
	src, err := zone.source()
	if err != nil {
		return nil, err
	}

	// Table names come from the static zone registry, never from request
	// input; sanitized regardless since they cannot be bound parameters.
	query := fmt.Sprintf(
		`SELECT * FROM %s WHERE %s > $1 AND %s < $2 ORDER BY %s`,
		pgx.Identifier{src.ValuesTable}.Sanitize(),
		timestampColumn, timestampColumn, timestampColumn,
	)

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := Row{Values: make(map[string]float64, len(fields)-1)}
		for i, fd := range fields {
			switch {
			case fd.Name == timestampColumn:
				if ts, ok := vals[i].(time.Time); ok {
					row.Timestamp = ts
				}
			case vals[i] == nil:
				// sensor had no reading at this instant
			default:
				if v, ok := numericValue(vals[i]); ok {
					row.Values[fd.Name] = v
				} else {
					s.logger.Debug("skipping non-numeric cell", "table", src.ValuesTable, "column", fd.Name)
				}
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchMetadata reads the zone's sensor metadata table, ordered by uid so
// the fetch order (and therefore display-key collision behavior) is
// deterministic across requests.
func (s *PostgresStore) FetchMetadata(ctx context.Context, zone Zone) ([]SensorMeta, error) {
	src, err := zone.source()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT uid, name, type FROM %s ORDER BY uid`,
		pgx.Identifier{src.MetadataTable}.Sanitize(),
	)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SensorMeta
	for rows.Next() {
		var (
			m    SensorMeta
			name *string
			typ  string
		)
		if err := rows.Scan(&m.UID, &name, &typ); err != nil {
			return nil, err
		}
		if name != nil {
			m.Name = *name
		}
		m.Type = QuantityType(typ)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping tests the connection to postgres.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// numericValue widens the cell types pgx produces for the wide tables to
// float64.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return 0, false
		}
		return f.Float64, true
	default:
		return 0, false
	}
}
