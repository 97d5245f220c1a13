package store

import (
	"fmt"
	"strings"
)

// mutableFields are the only columns a partial update may touch.
var mutableFields = []string{"amount", "type", "sub_type", "whom_to_paid"}

// buildListQuery assembles the filtered SELECT for List. Filters are
// conjunctive; absent ones contribute no predicate.
func buildListQuery(scope Scope, f Filters) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT id, client_id, user_id, amount, type, sub_type, whom_to_paid, created_at
		 FROM transactions
		 WHERE user_id = $1 AND client_id = $2`)

	args := []any{scope.UserID, scope.ClientID}

	addPredicate := func(clause string, value any) {
		args = append(args, value)
		fmt.Fprintf(&b, " AND %s $%d", clause, len(args))
	}

	if f.Type != "" {
		addPredicate("type =", f.Type)
	}
	if f.SubType != "" {
		addPredicate("sub_type =", f.SubType)
	}
	if !f.DateFrom.IsZero() {
		addPredicate("created_at >=", f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		addPredicate("created_at <", f.DateTo)
	}
	if f.AmountMin != nil {
		addPredicate("amount >=", *f.AmountMin)
	}
	if f.AmountMax != nil {
		addPredicate("amount <=", *f.AmountMax)
	}

	b.WriteString(" ORDER BY created_at DESC")

	return b.String(), args
}

// buildUpdateSet turns a partial-field map into SET clauses, keeping only
// mutable columns. Unknown keys are dropped without error.
func buildUpdateSet(updates map[string]any) ([]string, []any) {
	var clauses []string
	var args []any

	for _, field := range mutableFields {
		value, ok := updates[field]
		if !ok {
			continue
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", field, len(args)))
	}

	return clauses, args
}

func joinClauses(clauses []string) string {
	return strings.Join(clauses, ", ")
}
