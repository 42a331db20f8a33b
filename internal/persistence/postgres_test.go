package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostgresPingWithoutPool(t *testing.T) {
	t.Parallel()

	require.Error(t, (&Postgres{}).Ping(context.Background()))

	var missing *Postgres
	require.Error(t, missing.Ping(context.Background()))
}
