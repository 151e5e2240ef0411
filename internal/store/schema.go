package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	kvTable         = "kv_entries"
	kvColumnKey     = "key"
	kvColumnValue   = "value"
	kvColumnUpdated = "updated_at"
)

var (
	// KVEntriesColumns holds the columns for the "kv_entries" table.
	KVEntriesColumns = []*schema.Column{
		{Name: kvColumnKey, Type: field.TypeString, Unique: true},
		{Name: kvColumnValue, Type: field.TypeBytes},
		{Name: kvColumnUpdated, Type: field.TypeTime},
	}
	// KVEntriesTable holds the schema information for the "kv_entries" table.
	KVEntriesTable = &schema.Table{
		Name:       kvTable,
		Columns:    KVEntriesColumns,
		PrimaryKey: []*schema.Column{KVEntriesColumns[0]},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		KVEntriesTable,
	}
)
