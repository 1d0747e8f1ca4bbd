package db

import (
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/jmuseri/facturapp/internal/models"
)

var createTable = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)

// sqlColumns maps each table of the up migration to its column types.
func sqlColumns(t *testing.T) map[string]map[string]string {
	t.Helper()
	raw, err := os.ReadFile("../../migrations/000001_init.up.sql")
	require.NoError(t, err)

	tables := make(map[string]map[string]string)
	for _, m := range createTable.FindAllStringSubmatch(string(raw), -1) {
		cols := make(map[string]string)
		for _, line := range strings.Split(m[2], "\n") {
			fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ","))
			if len(fields) < 2 {
				continue
			}
			switch strings.ToUpper(fields[0]) {
			case "PRIMARY", "CONSTRAINT", "FOREIGN", "UNIQUE", "CHECK":
				continue
			}
			cols[fields[0]] = strings.ToUpper(fields[1])
		}
		tables[m[1]] = cols
	}
	return tables
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestSQLMigration_MatchesModels(t *testing.T) {
	tables := sqlColumns(t)
	require.Len(t, tables, len(models.All()))

	for _, m := range models.All() {
		s, err := schema.Parse(m, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)

		t.Run(s.Table, func(t *testing.T) {
			cols, ok := tables[s.Table]
			require.True(t, ok, "no CREATE TABLE for %s", s.Table)

			want := append([]string(nil), s.DBNames...)
			sort.Strings(want)
			assert.Equal(t, want, keys(cols))

			for _, f := range s.Fields {
				if f.DBName == "" || f.DataType != "numeric" {
					continue
				}
				assert.Equal(t, "NUMERIC", cols[f.DBName], "%s.%s must be unconstrained numeric", s.Table, f.DBName)
			}
		})
	}
}

func TestSQLMigration_CUITColumn(t *testing.T) {
	tables := sqlColumns(t)

	for _, m := range []any{&models.Client{}, &models.FiscalProfile{}} {
		s, err := schema.Parse(m, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)
		f := s.LookUpField("CUIT")
		require.NotNil(t, f)
		assert.Equal(t, "cuit", f.DBName)
		assert.Contains(t, tables[s.Table], "cuit")
	}
}

func TestSQLMigration_NoFixedScaleDecimals(t *testing.T) {
	raw, err := os.ReadFile("../../migrations/000001_init.up.sql")
	require.NoError(t, err)

	assert.NotRegexp(t, `(?i)(DECIMAL|NUMERIC)\s*\(`, string(raw))
}
