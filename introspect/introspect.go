// Package introspect extracts table structure from schema-definition and
// INSERT statements.
package introspect

import (
	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/mysql"
	"github.com/pingcap/tidb/parser/types"

	// Needed for the parser to understand value expressions.
	_ "github.com/pingcap/tidb/types/parser_driver"
)

// TypeKind buckets a column's declared type by how its raw dump text must
// be decoded before predicate evaluation.
type TypeKind int

const (
	KindString TypeKind = iota
	KindInt
	KindTime
	KindDecimal
)

func (k TypeKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindTime:
		return "time"
	case KindDecimal:
		return "decimal"
	default:
		return "string"
	}
}

type Column struct {
	Name string
	Kind TypeKind
}

// TableSchema is one table's columns in declaration order.
type TableSchema struct {
	Table   dumptable.Name
	Columns []Column
}

// ColumnKind looks a column's type bucket up by name.
func (s TableSchema) ColumnKind(name string) (TypeKind, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return KindString, false
}

func (s TableSchema) HasColumn(name string) bool {
	_, ok := s.ColumnKind(name)
	return ok
}

// CreateTable extracts the typed schema from a CREATE TABLE statement.
func CreateTable(raw string) (TableSchema, error) {
	p := parser.New()
	nodes, _, err := p.Parse(raw, "", "")
	if err != nil {
		return TableSchema{}, errors.Wrap(err, "parsing schema statement")
	}
	for _, node := range nodes {
		stmt, ok := node.(*ast.CreateTableStmt)
		if !ok {
			continue
		}
		schema := TableSchema{Table: dumptable.Name(stmt.Table.Name.O)}
		for _, col := range stmt.Cols {
			schema.Columns = append(schema.Columns, Column{
				Name: col.Name.Name.O,
				Kind: kindOf(col.Tp),
			})
		}
		return schema, nil
	}
	return TableSchema{}, errors.New("no CREATE TABLE statement found")
}

// InsertColumns returns the target table and ordered column names of an
// INSERT statement.
func InsertColumns(raw string) (dumptable.Name, []string, error) {
	p := parser.New()
	nodes, _, err := p.Parse(raw, "", "")
	if err != nil {
		return "", nil, errors.Wrap(err, "parsing insert statement")
	}
	if len(nodes) == 0 {
		return "", nil, errors.New("empty insert statement")
	}
	stmt, ok := nodes[0].(*ast.InsertStmt)
	if !ok {
		return "", nil, errors.Newf("expected an insert statement, got %T", nodes[0])
	}
	source, ok := stmt.Table.TableRefs.Left.(*ast.TableSource)
	if !ok {
		return "", nil, errors.New("cannot resolve insert target table")
	}
	tableName, ok := source.Source.(*ast.TableName)
	if !ok {
		return "", nil, errors.New("cannot resolve insert target table")
	}
	if len(stmt.Columns) == 0 {
		return "", nil, errors.Newf("insert into %s carries no column list", tableName.Name.O)
	}
	columns := make([]string, len(stmt.Columns))
	for i, col := range stmt.Columns {
		columns[i] = col.Name.O
	}
	return dumptable.Name(tableName.Name.O), columns, nil
}

func kindOf(tp *types.FieldType) TypeKind {
	if tp == nil {
		return KindString
	}
	switch tp.Tp {
	case mysql.TypeTiny, mysql.TypeShort, mysql.TypeInt24, mysql.TypeLong,
		mysql.TypeLonglong, mysql.TypeYear, mysql.TypeBit:
		return KindInt
	case mysql.TypeDate, mysql.TypeDatetime, mysql.TypeTimestamp:
		return KindTime
	case mysql.TypeNewDecimal, mysql.TypeFloat, mysql.TypeDouble:
		return KindDecimal
	default:
		return KindString
	}
}
