package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvDSN_RequiresConfiguration(t *testing.T) {
	t.Setenv("XGR_SOLVER_DB_DSN", "")
	t.Setenv("DATABASE_URL", "")

	_, err := envDSN()
	assert.ErrorContains(t, err, "database not configured")
}

func TestEnvDSN_PrefersSolverSpecificVar(t *testing.T) {
	t.Setenv("XGR_SOLVER_DB_DSN", "postgres://solver")
	t.Setenv("DATABASE_URL", "postgres://generic")

	dsn, err := envDSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://solver", dsn)
}

func TestEnvDSN_FallsBackToGenericVar(t *testing.T) {
	t.Setenv("XGR_SOLVER_DB_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://generic")

	dsn, err := envDSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://generic", dsn)
}

func TestSchema_DeclaresExpectedTable(t *testing.T) {
	assert.True(t, strings.Contains(Schema, "fill_outcomes"))
	assert.True(t, strings.Contains(Schema, "plan_id"))
}
