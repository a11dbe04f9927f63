package introspect

import (
	"testing"

	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/stretchr/testify/require"
)

const usersCreate = "CREATE TABLE `users` (\n" +
	"  `id` int(11) NOT NULL AUTO_INCREMENT,\n" +
	"  `name` varchar(255) DEFAULT NULL,\n" +
	"  `active` tinyint(1) NOT NULL DEFAULT '0',\n" +
	"  `balance` decimal(10,2) NOT NULL DEFAULT '0.00',\n" +
	"  `created_at` datetime DEFAULT NULL,\n" +
	"  `birthday` date DEFAULT NULL,\n" +
	"  `role` enum('admin','member') NOT NULL DEFAULT 'member',\n" +
	"  PRIMARY KEY (`id`)\n" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;\n"

func TestCreateTable(t *testing.T) {
	schema, err := CreateTable(usersCreate)
	require.NoError(t, err)
	require.Equal(t, dumptable.Name("users"), schema.Table)
	require.Equal(t, []Column{
		{Name: "id", Kind: KindInt},
		{Name: "name", Kind: KindString},
		{Name: "active", Kind: KindInt},
		{Name: "balance", Kind: KindDecimal},
		{Name: "created_at", Kind: KindTime},
		{Name: "birthday", Kind: KindTime},
		{Name: "role", Kind: KindString},
	}, schema.Columns)

	kind, ok := schema.ColumnKind("created_at")
	require.True(t, ok)
	require.Equal(t, KindTime, kind)
	_, ok = schema.ColumnKind("missing")
	require.False(t, ok)
}

func TestCreateTableRejectsOtherStatements(t *testing.T) {
	_, err := CreateTable("INSERT INTO `users` (`id`) VALUES (1);")
	require.Error(t, err)
}

func TestInsertColumns(t *testing.T) {
	table, cols, err := InsertColumns("INSERT INTO `users` (`id`, `name`, `active`) VALUES (1,'ada',1);")
	require.NoError(t, err)
	require.Equal(t, dumptable.Name("users"), table)
	require.Equal(t, []string{"id", "name", "active"}, cols)
}

func TestInsertColumnsRequiresColumnList(t *testing.T) {
	_, _, err := InsertColumns("INSERT INTO `users` VALUES (1,'ada',1);")
	require.Error(t, err)
}

func TestCatalogResolveInsertColumnsOnce(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.AddCreateTable(usersCreate))

	schema, ok := c.Schema("users")
	require.True(t, ok)
	require.Len(t, schema.Columns, 7)

	cols, err := c.ResolveInsertColumns("users", "INSERT INTO `users` (`id`, `name`) VALUES (1,'ada');")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name"}, cols)

	// Resolved once: later statements do not re-parse.
	cols, err = c.ResolveInsertColumns("users", "garbage")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name"}, cols)
}

func TestCatalogResolveInsertColumnsTableMismatch(t *testing.T) {
	c := NewCatalog()
	_, err := c.ResolveInsertColumns("orders", "INSERT INTO `users` (`id`) VALUES (1);")
	require.Error(t, err)
}
