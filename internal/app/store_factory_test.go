package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmtran/classpoints/internal/store/sqlite"
)

func TestNewStoreSelectsSQLiteByDefault(t *testing.T) {
	st, err := NewStore(":memory:", "../../migrations")
	require.NoError(t, err)
	defer st.Close()

	_, ok := st.(*sqlite.SQLiteStore)
	assert.True(t, ok, "plain path DSN must select the embedded backend")
}
