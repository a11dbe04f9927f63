package introspect

import (
	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/dumptable"
)

// Catalog accumulates table structure observed while streaming a dump:
// declared column types from CREATE TABLE statements and, once per table,
// the ordered column list of its INSERT statements.
type Catalog struct {
	schemas       map[dumptable.Name]TableSchema
	insertColumns map[dumptable.Name][]string
}

func NewCatalog() *Catalog {
	return &Catalog{
		schemas:       make(map[dumptable.Name]TableSchema),
		insertColumns: make(map[dumptable.Name][]string),
	}
}

// AddSchema registers an already-introspected table schema.
func (c *Catalog) AddSchema(schema TableSchema) {
	c.schemas[schema.Table] = schema
}

// AddCreateTable introspects a CREATE TABLE statement into the catalog.
func (c *Catalog) AddCreateTable(raw string) error {
	schema, err := CreateTable(raw)
	if err != nil {
		return err
	}
	c.schemas[schema.Table] = schema
	return nil
}

func (c *Catalog) Schema(table dumptable.Name) (TableSchema, bool) {
	s, ok := c.schemas[table]
	return s, ok
}

// ResolveInsertColumns returns the ordered column list for a table's rows,
// resolving it from the given INSERT statement on first use and from the
// catalog afterwards.
func (c *Catalog) ResolveInsertColumns(table dumptable.Name, rawInsert string) ([]string, error) {
	if cols, ok := c.insertColumns[table]; ok {
		return cols, nil
	}
	insertTable, cols, err := InsertColumns(rawInsert)
	if err != nil {
		return nil, err
	}
	if insertTable != table {
		return nil, errors.Newf("insert targets %s inside the data section of %s", insertTable, table)
	}
	c.insertColumns[table] = cols
	return cols, nil
}
