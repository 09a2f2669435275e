package sink

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/lib/pq"
)

const (
	DefaultPostgresTable = "products"
	postgresPingTimeout  = 5 * time.Second
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type productRow struct {
	UniqueID       string `db:"unique_id"`
	PDPURL         string `db:"pdp_url"`
	ExtractionDate string `db:"extraction_date"`
	Record         string `db:"record"`
}

// Postgres inserts each record into a table with a jsonb column
type Postgres struct {
	db     *sqlx.DB
	insert string
}

// OpenPostgres connects to dsn and creates table when missing
func OpenPostgres(ctx context.Context, dsn, table string) (*Postgres, error) {
	if table == "" {
		table = DefaultPostgresTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid postgres table name %q", table)
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, postgresPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	quoted := pq.QuoteIdentifier(table)
	if _, err := db.ExecContext(ctx, createTableSQL(quoted)); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}

	return &Postgres{db: db, insert: insertSQL(quoted)}, nil
}

func createTableSQL(quoted string) string {
	return `CREATE TABLE IF NOT EXISTS ` + quoted + ` (
	id BIGSERIAL PRIMARY KEY,
	unique_id TEXT NOT NULL,
	pdp_url TEXT NOT NULL,
	extraction_date TEXT NOT NULL,
	record JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
}

func insertSQL(quoted string) string {
	return `INSERT INTO ` + quoted + ` (unique_id, pdp_url, extraction_date, record)
VALUES (:unique_id, :pdp_url, :extraction_date, :record)`
}

// Emit inserts p
func (s *Postgres) Emit(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	_, err = s.db.NamedExecContext(ctx, s.insert, productRow{
		UniqueID:       p.UniqueID,
		PDPURL:         p.PDPURL,
		ExtractionDate: p.ExtractionDate,
		Record:         string(data),
	})
	if err != nil {
		return fmt.Errorf("insert product %s: %w", p.PDPURL, err)
	}
	return nil
}

// Close closes the connection pool
func (s *Postgres) Close(ctx context.Context) error {
	return s.db.Close()
}
