package assistant

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/farmerx/finance-assistant/internal/store"
)

// promptContextLimit caps how many recent transactions the prompt carries
// for disambiguation ("update that last one").
const promptContextLimit = 3

// buildContext renders the caller identity and recent transactions as a
// context block for the model.
func buildContext(scope store.Scope, recent []store.Transaction) string {
	var b strings.Builder
	b.WriteString("User ID: " + scope.UserID + ", Client ID: " + scope.ClientID + "\n\n")

	if len(recent) > 0 {
		b.WriteString("Recent transactions for context:\n")
		if len(recent) > promptContextLimit {
			recent = recent[:promptContextLimit]
		}
		for _, tx := range recent {
			subType := "N/A"
			if tx.SubType != nil && *tx.SubType != "" {
				subType = *tx.SubType
			}
			b.WriteString("- " + tx.Type + ": " + formatAmount(tx.Amount) +
				" (" + subType + ") - " + tx.CreatedAt.Format(time.RFC3339) + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// buildPrompt produces the deterministic prompt: the four tool schemas,
// the controlled vocabulary of transaction types, the context block and
// the user's message.
func buildPrompt(scope store.Scope, message string, recent []store.Transaction) string {
	// Static data; marshalling cannot fail and map keys serialize sorted,
	// so the prompt is stable across calls.
	specsJSON, _ := json.MarshalIndent(toolSpecs, "", "  ")

	var b strings.Builder

	b.WriteString("You are a smart finance management assistant for farmers. Your job is to understand natural language messages and call the appropriate function.\n\n")

	b.WriteString("Primary Transaction Types (as per financial standards):\n")
	b.WriteString("- income: Money coming in (salary, crop sales, government subsidy, etc.)\n")
	b.WriteString("- expense: Daily/monthly spendings (seeds, fertilizers, labor, electricity)\n")
	b.WriteString("- asset: Owned value things (tractor, land, machinery, etc.)\n")
	b.WriteString("- liability: What they owe (loans, debts, etc.)\n")
	b.WriteString("- loan_given: Money given to someone (friend, family, etc.) expecting return\n")
	b.WriteString("- loan_taken: Loan taken from any source (bank, person, etc.)\n")
	b.WriteString("- investment: Money invested in anything (livestock, mutual fund, land development)\n")
	b.WriteString("- savings: Amount kept aside intentionally (bank, FD, post office, etc.)\n")
	b.WriteString("- subsidy: Government-provided money (treated as income but tagged separately)\n")
	b.WriteString("- others: For anything that does not fit the above (description helps here)\n\n")

	b.WriteString("When extracting the 'type' field, always use the most appropriate value from the above list based on the user's message.\n\n")

	b.WriteString("Available functions:\n")
	b.Write(specsJSON)
	b.WriteString("\n\nContext:\n")
	b.WriteString(buildContext(scope, recent))

	b.WriteString("\nUser message: \"" + message + "\"\n\n")

	b.WriteString("Instructions:\n")
	b.WriteString("1. Analyze the user's message to understand their intent\n")
	b.WriteString("2. Determine which function to call based on the message\n")
	b.WriteString("3. Extract relevant parameters from the message\n")
	b.WriteString("4. For the 'type' field, use the most appropriate value from the Primary Transaction Types above\n")
	b.WriteString("5. Return a JSON response with the function name and parameters\n\n")

	b.WriteString("For example:\n")
	b.WriteString("- \"I sold 10kg tomatoes for 1200 today\" -> add_transaction with amount=1200, type=\"income\", sub_type=\"crop_sale\"\n")
	b.WriteString("- \"Show me all expenses from this month\" -> get_transaction with date_filter=\"this_month\", type=\"expense\"\n")
	b.WriteString("- \"Update the 500 rs grocery to 600\" -> update_transaction with transaction_id (identify which transaction from context)\n\n")

	b.WriteString("Return only a valid JSON object with the function name and parameters. ")
	b.WriteString("If you cannot determine the intent clearly, return {\"error\": \"Unable to understand the request\"}.\n\n")
	b.WriteString("Response:")

	return b.String()
}
