package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testScope = Scope{UserID: "user-1", ClientID: "client-1"}

func TestBuildListQueryNoFilters(t *testing.T) {
	query, args := buildListQuery(testScope, Filters{})

	assert.Contains(t, query, "WHERE user_id = $1 AND client_id = $2")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.NotContains(t, query, "type =")
	assert.NotContains(t, query, "amount >=")
	assert.Equal(t, []any{"user-1", "client-1"}, args)
}

func TestBuildListQueryAllFilters(t *testing.T) {
	from := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	min, max := 10.0, 500.0

	query, args := buildListQuery(testScope, Filters{
		Type:      "expense",
		SubType:   "fertilizer",
		DateFrom:  from,
		DateTo:    to,
		AmountMin: &min,
		AmountMax: &max,
	})

	assert.Contains(t, query, "type = $3")
	assert.Contains(t, query, "sub_type = $4")
	assert.Contains(t, query, "created_at >= $5")
	assert.Contains(t, query, "created_at < $6")
	assert.Contains(t, query, "amount >= $7")
	assert.Contains(t, query, "amount <= $8")
	assert.Equal(t, []any{"user-1", "client-1", "expense", "fertilizer", from, to, 10.0, 500.0}, args)
}

func TestBuildListQueryZeroAmountBound(t *testing.T) {
	// A literal 0 is a valid bound, not an absent filter.
	zero := 0.0
	query, args := buildListQuery(testScope, Filters{AmountMin: &zero})

	assert.Contains(t, query, "amount >= $3")
	assert.Equal(t, []any{"user-1", "client-1", 0.0}, args)
}

func TestBuildListQueryDateRangeIsHalfOpen(t *testing.T) {
	from := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC)

	query, _ := buildListQuery(testScope, Filters{DateFrom: from, DateTo: to})

	assert.Contains(t, query, "created_at >=")
	assert.Contains(t, query, "created_at <")
	assert.False(t, strings.Contains(query, "created_at <="), "upper bound must be exclusive")
}

func TestBuildUpdateSet(t *testing.T) {
	clauses, args := buildUpdateSet(map[string]any{
		"amount":  600.0,
		"type":    "expense",
		"unknown": "dropped",
		"id":      99, // immutable, must be dropped
	})

	assert.Equal(t, []string{"amount = $1", "type = $2"}, clauses)
	assert.Equal(t, []any{600.0, "expense"}, args)
}

func TestBuildUpdateSetEmpty(t *testing.T) {
	clauses, args := buildUpdateSet(map[string]any{"created_at": "2026-01-01"})

	assert.Empty(t, clauses)
	assert.Empty(t, args)
}

func TestBuildUpdateSetDeterministicOrder(t *testing.T) {
	clauses, _ := buildUpdateSet(map[string]any{
		"whom_to_paid": "Ramesh",
		"sub_type":     "seeds",
		"amount":       100.0,
	})

	// Order follows the mutableFields whitelist, not map iteration.
	assert.Equal(t, []string{"amount = $1", "sub_type = $2", "whom_to_paid = $3"}, clauses)
}
