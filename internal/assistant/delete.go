package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmerx/finance-assistant/internal/store"
)

// handleDelete removes a transaction, fetching the pre-image first so
// the confirmation can name what was deleted.
func (r *Router) handleDelete(ctx context.Context, scope store.Scope, params map[string]any) (*Response, error) {
	id, ok := intParam(params, "transaction_id")
	if !ok || id <= 0 {
		return failure("Invalid transaction ID"), nil
	}

	tx, err := r.store.GetByID(ctx, scope, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failure("Transaction not found"), nil
		}
		return nil, err
	}

	if err := r.store.Delete(ctx, scope, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failure("Transaction not found"), nil
		}
		return nil, err
	}

	subTypeText := ""
	if tx.SubType != nil && *tx.SubType != "" {
		subTypeText = fmt.Sprintf(" (%s)", *tx.SubType)
	}
	whomText := ""
	if tx.WhomToPaid != nil && *tx.WhomToPaid != "" {
		whomText = fmt.Sprintf(" to %s", *tx.WhomToPaid)
	}

	return &Response{
		Success: true,
		Message: fmt.Sprintf("Deleted %s of %s%s%s (ID: %d)", tx.Type, formatAmount(tx.Amount), subTypeText, whomText, id),
		Data: map[string]any{
			"deleted_transaction": map[string]any{
				"id":           id,
				"amount":       tx.Amount,
				"type":         tx.Type,
				"sub_type":     tx.SubType,
				"whom_to_paid": tx.WhomToPaid,
			},
		},
	}, nil
}
