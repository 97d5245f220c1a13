package assistant

import (
	"strings"
	"testing"
	"time"

	"github.com/farmerx/finance-assistant/internal/store"
)

func TestParseToolCall(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantName   string
		wantErr    string
		wantAmount float64
	}{
		{
			name:       "plain JSON",
			raw:        `{"name": "add_transaction", "parameters": {"amount": 1200, "type": "income"}}`,
			wantName:   "add_transaction",
			wantAmount: 1200,
		},
		{
			name:       "JSON wrapped in prose",
			raw:        "Sure! Here is the call:\n{\"name\": \"add_transaction\", \"parameters\": {\"amount\": 500}}\nLet me know if you need anything else.",
			wantName:   "add_transaction",
			wantAmount: 500,
		},
		{
			name:       "JSON in markdown fences",
			raw:        "```json\n{\"name\": \"get_transaction\", \"parameters\": {}}\n```",
			wantName:   "get_transaction",
		},
		{
			name:    "explicit error key",
			raw:     `{"error": "Unable to understand the request"}`,
			wantErr: "Unable to understand the request",
		},
		{
			name:    "error key with non-string value",
			raw:     `{"error": 42}`,
			wantErr: "Unable to understand the request",
		},
		{
			name:    "missing name key",
			raw:     `{"parameters": {"amount": 100}}`,
			wantErr: "No function name specified",
		},
		{
			name:    "no braces at all",
			raw:     "I could not figure that out, sorry.",
			wantErr: "Invalid response format",
		},
		{
			name:    "braces but unparsable",
			raw:     `{"name": "add_transaction", parameters: oops}`,
			wantErr: "Invalid JSON response",
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: "Invalid response format",
		},
		{
			name:     "nested braces keep outer object",
			raw:      `prefix {"name": "update_transaction", "parameters": {"transaction_id": 7, "amount": 600}} suffix`,
			wantName: "update_transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := parseToolCall(tt.raw)

			if call.Err != tt.wantErr {
				t.Fatalf("Err = %q, want %q", call.Err, tt.wantErr)
			}
			if tt.wantErr != "" {
				return
			}
			if call.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", call.Name, tt.wantName)
			}
			if call.Parameters == nil {
				t.Fatal("Parameters should never be nil on success")
			}
			if tt.wantAmount != 0 {
				amount, _ := call.Parameters["amount"].(float64)
				if amount != tt.wantAmount {
					t.Errorf("amount = %v, want %v", amount, tt.wantAmount)
				}
			}
		})
	}
}

func TestParseToolCallMissingParameters(t *testing.T) {
	call := parseToolCall(`{"name": "get_transaction"}`)
	if call.Err != "" {
		t.Fatalf("unexpected Err: %q", call.Err)
	}
	if call.Parameters == nil {
		t.Error("Parameters should default to an empty map")
	}
}

func TestBuildPromptContents(t *testing.T) {
	scope := store.Scope{UserID: "farmer-7", ClientID: "coop-1"}
	subType := "crop_sale"
	recent := []store.Transaction{
		{ID: 1, Type: "income", Amount: 1200, SubType: &subType, CreatedAt: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)},
	}

	prompt := buildPrompt(scope, "I sold 10kg tomatoes for 1200 today", recent)

	for _, want := range []string{
		"add_transaction",
		"get_transaction",
		"update_transaction",
		"delete_transaction",
		"loan_given",
		"subsidy",
		"User ID: farmer-7, Client ID: coop-1",
		"income: 1200 (crop_sale)",
		"I sold 10kg tomatoes for 1200 today",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildContextLimitsToThree(t *testing.T) {
	scope := store.Scope{UserID: "u", ClientID: "c"}
	recent := make([]store.Transaction, 5)
	for i := range recent {
		recent[i] = store.Transaction{Type: "expense", Amount: float64(i + 1)}
	}

	ctx := buildContext(scope, recent)

	if got := strings.Count(ctx, "- expense:"); got != 3 {
		t.Errorf("context lists %d transactions, want 3", got)
	}
}

func TestBuildContextEmpty(t *testing.T) {
	ctx := buildContext(store.Scope{UserID: "u", ClientID: "c"}, nil)
	if strings.Contains(ctx, "Recent transactions") {
		t.Error("empty context should not advertise recent transactions")
	}
}
