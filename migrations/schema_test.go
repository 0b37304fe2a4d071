package migrations

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Columns the Go models treat as optional (pointer fields) must stay nullable
// in the schema, or valid create requests die on the insert.
func TestOptionalColumnsAreNullable(t *testing.T) {
	nullable := []struct {
		file   string
		column string
	}{
		{"0002_sedes_personal.sql", "sede_id"},
		{"0004_remitos.sql", "solicitante_id"},
		{"0004_remitos.sql", "fecha_vencimiento"},
		{"0004_remitos.sql", "fecha_devolucion"},
		{"0005_visitas.sql", "tecnico_id"},
	}

	for _, tc := range nullable {
		raw, err := fs.ReadFile(FS, tc.file)
		require.NoError(t, err)

		line := columnLine(t, string(raw), tc.column)
		assert.NotContains(t, line, "NOT NULL", "%s.%s must be nullable", tc.file, tc.column)
	}
}

func TestMigrationsAreOrderedAndEmbedded(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	seq := regexp.MustCompile(`^\d{4}_[a-z_]+\.sql$`)
	for _, name := range names {
		assert.Regexp(t, seq, name)
	}
}

func columnLine(t *testing.T, sql, column string) string {
	t.Helper()
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), column+" ") {
			return line
		}
	}
	t.Fatalf("column %s not found", column)
	return ""
}
