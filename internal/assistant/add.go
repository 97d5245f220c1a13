package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmerx/finance-assistant/internal/store"
)

// handleAdd validates and persists a new transaction. The amount check
// happens before any store call.
func (r *Router) handleAdd(ctx context.Context, scope store.Scope, params map[string]any) (*Response, error) {
	amount, ok := numberParam(params, "amount")
	if !ok || amount <= 0 {
		return failure("Amount must be greater than 0"), nil
	}

	txType, ok := stringParam(params, "type")
	if !ok || txType == "" {
		return failure("Transaction type is required"), nil
	}

	subType := optStringParam(params, "sub_type")
	whomToPaid := optStringParam(params, "whom_to_paid")

	if err := r.store.Add(ctx, scope, amount, txType, subType, whomToPaid); err != nil {
		if errors.Is(err, store.ErrNothingInserted) {
			return failure("Failed to add transaction"), nil
		}
		return nil, err
	}

	subTypeText := ""
	if subType != nil {
		subTypeText = fmt.Sprintf(" (%s)", *subType)
	}
	whomText := ""
	if whomToPaid != nil {
		whomText = fmt.Sprintf(" to %s", *whomToPaid)
	}

	return &Response{
		Success: true,
		Message: fmt.Sprintf("Added %s of %s%s%s", txType, formatAmount(amount), subTypeText, whomText),
		Data: map[string]any{
			"amount":       amount,
			"type":         txType,
			"sub_type":     subType,
			"whom_to_paid": whomToPaid,
		},
	}, nil
}
