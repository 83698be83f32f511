package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"gooficina/internal/pkg/database"
)

func TestIsUniqueViolation(t *testing.T) {
	plateErr := &pq.Error{Code: "23505", Constraint: "vehicles_company_plate_key"}

	assert.True(t, database.IsUniqueViolation(plateErr, ""))
	assert.True(t, database.IsUniqueViolation(plateErr, "vehicles_company_plate_key"))
	assert.True(t, database.IsUniqueViolation(fmt.Errorf("insert: %w", plateErr), ""))
	assert.False(t, database.IsUniqueViolation(plateErr, "users_email_key"))

	assert.False(t, database.IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, database.IsUniqueViolation(errors.New("boom"), ""))
	assert.False(t, database.IsUniqueViolation(nil, ""))
}
