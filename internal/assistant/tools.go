package assistant

// The four callable operations. The set is closed: dispatch validates
// against these names before any handler runs.
const (
	ToolAddTransaction    = "add_transaction"
	ToolGetTransaction    = "get_transaction"
	ToolUpdateTransaction = "update_transaction"
	ToolDeleteTransaction = "delete_transaction"
)

// ToolCall is the structured call extracted from the model's reply.
// Err is set when the reply could not be turned into a call; callers
// treat any non-empty Err uniformly as "could not classify".
type ToolCall struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
	Err        string         `json:"-"`
}

type toolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  paramSchema `json:"parameters"`
}

type paramSchema struct {
	Type       string              `json:"type"`
	Properties map[string]property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type property struct {
	Type        string   `json:"type"`
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description"`
}

// toolSpecs describes the callable operations the prompt advertises to
// the model.
var toolSpecs = []toolSpec{
	{
		Name:        ToolAddTransaction,
		Description: "Add a new income or expense transaction",
		Parameters: paramSchema{
			Type: "object",
			Properties: map[string]property{
				"amount": {
					Type:        "number",
					Description: "The transaction amount",
				},
				"type": {
					Type:        "string",
					Enum:        []string{"income", "expense"},
					Description: "Whether this is income or expense",
				},
				"sub_type": {
					Type:        "string",
					Description: "Category of the transaction (e.g., grocery, salary, fertilizer)",
				},
				"whom_to_paid": {
					Type:        "string",
					Description: "Person or entity involved in the transaction",
				},
			},
			Required: []string{"amount", "type"},
		},
	},
	{
		Name:        ToolGetTransaction,
		Description: "Get transactions with optional filters",
		Parameters: paramSchema{
			Type: "object",
			Properties: map[string]property{
				"type": {
					Type:        "string",
					Enum:        []string{"income", "expense"},
					Description: "Filter by transaction type",
				},
				"sub_type": {
					Type:        "string",
					Description: "Filter by sub-type/category",
				},
				"date_filter": {
					Type:        "string",
					Description: "Date filter like 'today', 'yesterday', 'this_week', 'this_month'",
				},
				"amount_min": {
					Type:        "number",
					Description: "Minimum amount filter",
				},
				"amount_max": {
					Type:        "number",
					Description: "Maximum amount filter",
				},
			},
		},
	},
	{
		Name:        ToolUpdateTransaction,
		Description: "Update an existing transaction",
		Parameters: paramSchema{
			Type: "object",
			Properties: map[string]property{
				"transaction_id": {
					Type:        "integer",
					Description: "ID of the transaction to update",
				},
				"amount": {
					Type:        "number",
					Description: "New amount",
				},
				"type": {
					Type:        "string",
					Enum:        []string{"income", "expense"},
					Description: "New transaction type",
				},
				"sub_type": {
					Type:        "string",
					Description: "New sub-type/category",
				},
				"whom_to_paid": {
					Type:        "string",
					Description: "New person or entity",
				},
			},
			Required: []string{"transaction_id"},
		},
	},
	{
		Name:        ToolDeleteTransaction,
		Description: "Delete a transaction by ID",
		Parameters: paramSchema{
			Type: "object",
			Properties: map[string]property{
				"transaction_id": {
					Type:        "integer",
					Description: "ID of the transaction to delete",
				},
			},
			Required: []string{"transaction_id"},
		},
	},
}
