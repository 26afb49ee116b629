package records

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Repository abstracts the call_records table.
//
// Implementations must not retry or mask storage faults; they are returned as-is.
type Repository interface {
	InitSchema(ctx context.Context) error
	List(ctx context.Context, f Filter) ([]CallRecord, error)
	Create(ctx context.Context, in NewRecord) (int64, error)
	// Delete returns the number of rows removed (0 or 1). A missing id is not an error.
	Delete(ctx context.Context, id int64) (int64, error)
	Aggregate(ctx context.Context, f Filter) (Totals, error)
	DistinctClients(ctx context.Context) ([]string, error)
	DistinctDevelopers(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS call_records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  developer_name TEXT NOT NULL,
  client_name TEXT NOT NULL,
  call_date TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  topic_discussed TEXT NOT NULL,
  ticket_number TEXT,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS call_records (
  id BIGSERIAL PRIMARY KEY,
  developer_name TEXT NOT NULL,
  client_name TEXT NOT NULL,
  call_date TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  topic_discussed TEXT NOT NULL,
  ticket_number TEXT,
  created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
)
`

// BunRepository stores call records through bun, on SQLite or Postgres.
type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository { return &BunRepository{db: db} }

// InitSchema creates call_records if absent. Safe to run on every startup.
func (r *BunRepository) InitSchema(ctx context.Context) error {
	ddl := sqliteSchema
	if r.db.Dialect().Name() == dialect.PG {
		ddl = postgresSchema
	}
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *BunRepository) List(ctx context.Context, f Filter) ([]CallRecord, error) {
	out := make([]CallRecord, 0)
	err := r.db.NewSelect().
		Model(&out).
		Apply(f.apply).
		OrderExpr("call_date DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BunRepository) Create(ctx context.Context, in NewRecord) (int64, error) {
	const q = `
INSERT INTO call_records (
  developer_name, client_name, call_date, duration_minutes, topic_discussed, ticket_number
) VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`
	var ticket *string
	if in.TicketNumber != "" {
		t := string(in.TicketNumber)
		ticket = &t
	}
	var id int64
	err := r.db.NewRaw(q,
		in.DeveloperName,
		in.ClientName,
		in.CallDate,
		int(in.DurationMinutes),
		in.TopicDiscussed,
		ticket,
	).Scan(ctx, &id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *BunRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*CallRecord)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *BunRepository) Aggregate(ctx context.Context, f Filter) (Totals, error) {
	var t Totals
	err := r.db.NewSelect().
		TableExpr("call_records").
		ColumnExpr("COUNT(*) AS total_calls").
		ColumnExpr("SUM(duration_minutes) AS total_minutes").
		ColumnExpr("COUNT(DISTINCT client_name) AS unique_clients").
		ColumnExpr("COUNT(DISTINCT developer_name) AS unique_developers").
		Apply(f.apply).
		Scan(ctx, &t)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}

func (r *BunRepository) DistinctClients(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "client_name")
}

func (r *BunRepository) DistinctDevelopers(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "developer_name")
}

func (r *BunRepository) distinct(ctx context.Context, column string) ([]string, error) {
	out := make([]string, 0)
	err := r.db.NewSelect().
		TableExpr("call_records").
		ColumnExpr("DISTINCT ?", bun.Ident(column)).
		OrderExpr("? ASC", bun.Ident(column)).
		Scan(ctx, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BunRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (f Filter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.Client != "" {
		q = q.Where("client_name = ?", f.Client)
	}
	if f.Developer != "" {
		q = q.Where("developer_name = ?", f.Developer)
	}
	if f.Month != "" {
		q = q.Where("substr(call_date, 1, 7) = ?", f.Month)
	}
	return q
}
