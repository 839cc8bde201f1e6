package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/facility-ledger/internal/common"
	"github.com/joseph-ayodele/facility-ledger/internal/ledger"
)

const entriesTable = "ledger_entries"

type columnKind int

const (
	kindText columnKind = iota
	kindReal
	kindJSON
)

type column struct {
	name string
	kind columnKind
}

// entryColumns is the persisted layout, in scan order. seq is managed by the
// database and gives the insertion order.
var entryColumns = []column{
	{"id", kindText},
	{"quantity", kindReal},
	{"unit_cost", kindReal},
	{"tax_rate", kindReal},
	{"discount", kindReal},
	{"total", kindReal},
	{"ocr_text", kindText},
	{"file_name", kindText},
	{"stored_file_name", kindText},
	{"file_path", kindText},
	{"description", kindText},
	{"vendor", kindText},
	{"category", kindText},
	{"currency", kindText},
	{"entry_date", kindText},
	{"status", kindText},
	{"notes", kindText},
	{"building", kindText},
	{"floor", kindText},
	{"room", kindText},
	{"maintenance_type", kindText},
	{"priority", kindText},
	{"assigned_to", kindText},
	{"due_date", kindText},
	{"service_provider", kindText},
	{"invoice_number", kindText},
	{"payment_status", kindText},
	{"warranty_expiry", kindText},
	{"price_history", kindJSON},
}

func columnNames() []string {
	names := make([]string, len(entryColumns))
	for i, c := range entryColumns {
		names[i] = c.name
	}
	return names
}

// SQLRepository stores entries in Postgres or SQLite. Queries are built with
// Ent's dialect-aware SQL builder so one implementation serves both.
type SQLRepository struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger
}

var _ ledger.Repository = (*SQLRepository)(nil)

func NewSQLRepository(db *sql.DB, dialectName string, logger *slog.Logger) *SQLRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLRepository{db: db, dialect: dialectName, logger: logger}
}

// EnsureSchema creates the entries table when it does not exist.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.createTableDDL()); err != nil {
		r.logger.Error("failed to create schema", "table", entriesTable, "error", err)
		return common.WrapError(errors.Join(common.ErrStorage, err), "ensure schema")
	}
	return nil
}

func (r *SQLRepository) createTableDDL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (", entriesTable)
	if r.dialect == dialect.Postgres {
		b.WriteString("seq BIGSERIAL PRIMARY KEY")
	} else {
		b.WriteString("seq INTEGER PRIMARY KEY AUTOINCREMENT")
	}
	for _, c := range entryColumns {
		b.WriteString(", ")
		b.WriteString(c.name)
		switch {
		case c.name == "id":
			b.WriteString(" TEXT NOT NULL UNIQUE")
		case c.kind == kindReal && r.dialect == dialect.Postgres:
			b.WriteString(" DOUBLE PRECISION NOT NULL DEFAULT 0")
		case c.kind == kindReal:
			b.WriteString(" REAL NOT NULL DEFAULT 0")
		case c.kind == kindJSON:
			b.WriteString(" TEXT NOT NULL DEFAULT '[]'")
		default:
			b.WriteString(" TEXT NOT NULL DEFAULT ''")
		}
	}
	b.WriteString(")")
	return b.String()
}

func (r *SQLRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*ledger.Entry, error) {
	b := r.builder()
	query, args := b.Select(columnNames()...).
		From(b.Table(entriesTable)).
		Where(entsql.EQ("id", id)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to get entry", "entry_id", id, "error", err)
		return nil, storageErr("get entry", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storageErr("get entry", err)
		}
		return nil, ledger.ErrEntryNotFound
	}
	return scanEntry(rows)
}

// Put upserts on id; an existing row keeps its seq and therefore its position.
func (r *SQLRepository) Put(ctx context.Context, e *ledger.Entry) error {
	values, err := entryValues(e)
	if err != nil {
		return storageErr("encode entry", err)
	}
	query, args := r.builder().Insert(entriesTable).
		Columns(columnNames()...).
		Values(values...).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to put entry", "entry_id", e.ID, "error", err)
		return storageErr("put entry", err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	query, args := r.builder().Delete(entriesTable).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to delete entry", "entry_id", id, "error", err)
		return storageErr("delete entry", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete entry", err)
	}
	if n == 0 {
		return ledger.ErrEntryNotFound
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*ledger.Entry, error) {
	b := r.builder()
	query, args := b.Select(columnNames()...).
		From(b.Table(entriesTable)).
		OrderBy("seq").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list entries", "error", err)
		return nil, storageErr("list entries", err)
	}
	defer rows.Close()

	out := make([]*ledger.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list entries", err)
	}
	return out, nil
}

// Count returns the number of stored entries.
func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	b := r.builder()
	query, args := b.Select(entsql.Count("*")).From(b.Table(entriesTable)).Query()
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, storageErr("count entries", err)
	}
	return n, nil
}

func entryValues(e *ledger.Entry) ([]any, error) {
	history := e.PriceHistory
	if history == nil {
		history = []ledger.PricePoint{}
	}
	hist, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	return []any{
		e.ID,
		e.Quantity, e.UnitCost, e.TaxRate, e.Discount, e.Total,
		e.OCRText, e.FileName, e.StoredFileName, e.FilePath,
		e.Description, e.Vendor, e.Category, e.Currency, e.Date, e.Status, e.Notes,
		e.Building, e.Floor, e.Room, e.MaintenanceType, e.Priority, e.AssignedTo,
		e.DueDate, e.ServiceProvider, e.InvoiceNumber, e.PaymentStatus, e.WarrantyExpiry,
		string(hist),
	}, nil
}

func scanEntry(rows *sql.Rows) (*ledger.Entry, error) {
	var (
		e    ledger.Entry
		hist string
	)
	err := rows.Scan(
		&e.ID,
		&e.Quantity, &e.UnitCost, &e.TaxRate, &e.Discount, &e.Total,
		&e.OCRText, &e.FileName, &e.StoredFileName, &e.FilePath,
		&e.Description, &e.Vendor, &e.Category, &e.Currency, &e.Date, &e.Status, &e.Notes,
		&e.Building, &e.Floor, &e.Room, &e.MaintenanceType, &e.Priority, &e.AssignedTo,
		&e.DueDate, &e.ServiceProvider, &e.InvoiceNumber, &e.PaymentStatus, &e.WarrantyExpiry,
		&hist,
	)
	if err != nil {
		return nil, storageErr("scan entry", err)
	}
	e.PriceHistory = []ledger.PricePoint{}
	if hist != "" {
		if err := json.Unmarshal([]byte(hist), &e.PriceHistory); err != nil {
			return nil, storageErr("decode price history", err)
		}
	}
	return &e, nil
}

func storageErr(op string, err error) error {
	return common.NewAppError("STORAGE_ERROR", op+" failed", errors.Join(common.ErrStorage, err))
}
