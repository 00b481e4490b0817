package pgdb

import (
	"fmt"
	"testing"

	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresDuplicate(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_addresses_user_default"}

	assert.True(t, postgresDuplicate(dup))
	assert.True(t, postgresDuplicate(e.Wrap("insert", dup)))
	assert.False(t, postgresDuplicate(&pgconn.PgError{Code: "23503"}))
	assert.False(t, postgresDuplicate(fmt.Errorf("connection reset")))
	assert.False(t, postgresDuplicate(nil))
}
