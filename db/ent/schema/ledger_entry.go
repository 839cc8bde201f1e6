package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/joseph-ayodele/facility-ledger/constants"
)

// LedgerEntry mirrors the ledger_entries table. The SQL repository builds its
// queries from the same column names; keep the two in step.
type LedgerEntry struct{ ent.Schema }

func (LedgerEntry) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "ledger_entries"},
	}
}

func money(name string) ent.Field {
	return field.Float(name).
		Default(0).
		SchemaType(map[string]string{dialect.Postgres: "double precision"})
}

func (LedgerEntry) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("seq").Immutable(),
		field.String("id").NotEmpty().Immutable().Unique(),

		money("quantity"),
		money("unit_cost"),
		money("tax_rate"),
		money("discount"),
		money("total"),

		field.Text("ocr_text").Default(""),
		field.String("file_name").Default(""),
		field.String("stored_file_name").Default(""),
		field.String("file_path").Default(""),

		field.String("description").Default(""),
		field.String("vendor").Default(""),
		field.String("category").Default(string(constants.General)),
		field.String("currency").Default(constants.DefaultCurrency),
		field.String("entry_date").Default(""),
		field.String("status").Default(constants.DefaultStatus),
		field.Text("notes").Default(""),

		field.String("building").Default(""),
		field.String("floor").Default(""),
		field.String("room").Default(""),
		field.String("maintenance_type").Default(""),
		field.String("priority").Default(constants.DefaultPriority),
		field.String("assigned_to").Default(""),
		field.String("due_date").Default(""),
		field.String("service_provider").Default(""),
		field.String("invoice_number").Default(""),
		field.String("payment_status").Default(constants.DefaultPaymentStatus),
		field.String("warranty_expiry").Default(""),

		// JSON array of {date, price}.
		field.Text("price_history").Default("[]"),
	}
}

func (LedgerEntry) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("seq"),
	}
}

