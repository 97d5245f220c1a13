package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farmerx/finance-assistant/internal/dates"
	"github.com/farmerx/finance-assistant/internal/store"
)

// handleGet lists transactions matching the extracted filters and
// computes a running signed total over the result: income adds, every
// other type subtracts.
func (r *Router) handleGet(ctx context.Context, scope store.Scope, params map[string]any) (*Response, error) {
	var f store.Filters
	var hasDateFilter bool

	if v, ok := stringParam(params, "type"); ok && v != "" {
		f.Type = v
	}
	if v, ok := stringParam(params, "sub_type"); ok && v != "" {
		f.SubType = v
	}
	if v, ok := stringParam(params, "date_filter"); ok && v != "" {
		// Unrecognized phrases apply no filter; this is a silent no-op.
		if rng, resolved := dates.Resolve(v, time.Now()); resolved {
			f.DateFrom = rng.From
			f.DateTo = rng.To
			hasDateFilter = true
		}
	}
	if v, ok := numberParam(params, "amount_min"); ok {
		f.AmountMin = &v
	}
	if v, ok := numberParam(params, "amount_max"); ok {
		f.AmountMax = &v
	}

	transactions, err := r.store.List(ctx, scope, f)
	if err != nil {
		return nil, err
	}

	filterText := buildFilterText(f, hasDateFilter)

	if len(transactions) == 0 {
		return &Response{
			Success: true,
			Message: fmt.Sprintf("No transactions found%s", filterText),
			Data: map[string]any{
				"transactions": []map[string]any{},
				"count":        0,
			},
		}, nil
	}

	formatted := make([]map[string]any, 0, len(transactions))
	var total float64

	for _, tx := range transactions {
		formatted = append(formatted, map[string]any{
			"id":             tx.ID,
			"amount":         tx.Amount,
			"type":           tx.Type,
			"sub_type":       tx.SubType,
			"whom_to_paid":   tx.WhomToPaid,
			"created_at":     dates.FormatDisplay(tx.CreatedAt),
			"raw_created_at": tx.CreatedAt,
		})

		if tx.Type == "income" {
			total += tx.Amount
		} else {
			total -= tx.Amount
		}
	}

	countText := fmt.Sprintf("%d transaction", len(transactions))
	if len(transactions) != 1 {
		countText += "s"
	}

	return &Response{
		Success: true,
		Message: fmt.Sprintf("Found %s%s. Total: %.2f", countText, filterText, total),
		Data: map[string]any{
			"transactions": formatted,
			"count":        len(transactions),
			"total_amount": total,
		},
	}, nil
}

// buildFilterText renders the applied filters for the summary message.
func buildFilterText(f store.Filters, hasDateFilter bool) string {
	var parts []string

	if f.Type != "" {
		parts = append(parts, fmt.Sprintf("type: %s", f.Type))
	}
	if f.SubType != "" {
		parts = append(parts, fmt.Sprintf("category: %s", f.SubType))
	}
	if hasDateFilter {
		parts = append(parts, "date range specified")
	}
	if f.AmountMin != nil || f.AmountMax != nil {
		var bounds []string
		if f.AmountMin != nil {
			bounds = append(bounds, fmt.Sprintf("min: %s", formatAmount(*f.AmountMin)))
		}
		if f.AmountMax != nil {
			bounds = append(bounds, fmt.Sprintf("max: %s", formatAmount(*f.AmountMax)))
		}
		parts = append(parts, fmt.Sprintf("amount (%s)", strings.Join(bounds, ", ")))
	}

	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" with filters: %s", strings.Join(parts, ", "))
}
