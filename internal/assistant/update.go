package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/farmerx/finance-assistant/internal/store"
)

// handleUpdate applies a partial update. It requires a positive
// transaction id and at least one mutable field, and fetches the
// pre-image first so the confirmation can show old and new values.
func (r *Router) handleUpdate(ctx context.Context, scope store.Scope, params map[string]any) (*Response, error) {
	id, ok := intParam(params, "transaction_id")
	if !ok || id <= 0 {
		return failure("Invalid transaction ID"), nil
	}

	updates := map[string]any{}

	if amount, ok := numberParam(params, "amount"); ok {
		if amount <= 0 {
			return failure("Amount must be greater than 0"), nil
		}
		updates["amount"] = amount
	}
	if v, ok := stringParam(params, "type"); ok && v != "" {
		updates["type"] = v
	}
	if v, ok := stringParam(params, "sub_type"); ok && v != "" {
		updates["sub_type"] = v
	}
	if v, ok := stringParam(params, "whom_to_paid"); ok && v != "" {
		updates["whom_to_paid"] = v
	}

	if len(updates) == 0 {
		return failure("No fields to update"), nil
	}

	original, err := r.store.GetByID(ctx, scope, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failure("Transaction not found"), nil
		}
		return nil, err
	}

	if err := r.store.Update(ctx, scope, id, updates); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failure("Transaction not found or no changes made"), nil
		}
		return nil, err
	}

	var changes []string
	if amount, ok := updates["amount"].(float64); ok {
		changes = append(changes, fmt.Sprintf("amount: %s -> %s", formatAmount(original.Amount), formatAmount(amount)))
	}
	if newType, ok := updates["type"].(string); ok {
		changes = append(changes, fmt.Sprintf("type: %s -> %s", original.Type, newType))
	}
	if newSubType, ok := updates["sub_type"].(string); ok {
		changes = append(changes, fmt.Sprintf("category: %s -> %s", orNA(original.SubType), newSubType))
	}
	if newWhom, ok := updates["whom_to_paid"].(string); ok {
		changes = append(changes, fmt.Sprintf("person: %s -> %s", orNA(original.WhomToPaid), newWhom))
	}

	return &Response{
		Success: true,
		Message: fmt.Sprintf("Updated transaction #%d: %s", id, strings.Join(changes, ", ")),
		Data: map[string]any{
			"transaction_id": id,
			"changes":        updates,
		},
	}, nil
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
