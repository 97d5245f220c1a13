package assistant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/farmerx/finance-assistant/internal/store"
)

// recentContextLimit is how many recent transactions the router fetches
// to give the classifier disambiguation context.
const recentContextLimit = 5

// Store is the persistence surface the router and its handlers need.
// *store.Store satisfies it.
type Store interface {
	Add(ctx context.Context, scope store.Scope, amount float64, txType string, subType, whomToPaid *string) error
	List(ctx context.Context, scope store.Scope, f store.Filters) ([]store.Transaction, error)
	GetByID(ctx context.Context, scope store.Scope, id int64) (*store.Transaction, error)
	Update(ctx context.Context, scope store.Scope, id int64, updates map[string]any) error
	Delete(ctx context.Context, scope store.Scope, id int64) error
	Recent(ctx context.Context, scope store.Scope, limit int) ([]store.Transaction, error)
}

// Router orchestrates a message end to end: context fetch, classification,
// dispatch validation, identity injection, handler invocation.
type Router struct {
	store      Store
	classifier Classifier
	log        zerolog.Logger
}

// NewRouter wires the router with its collaborators.
func NewRouter(st Store, classifier Classifier, log zerolog.Logger) *Router {
	return &Router{
		store:      st,
		classifier: classifier,
		log:        log,
	}
}

// ProcessMessage handles one inbound message. It always returns an
// envelope: validation and classification failures come back as
// {success:false}, and any panic below is converted to a generic
// internal-error envelope at this boundary.
func (r *Router) ProcessMessage(ctx context.Context, scope store.Scope, message string) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().
				Interface("panic", rec).
				Str("user_id", scope.UserID).
				Msg("Panic while processing message")
			resp = failure("Internal server error")
		}
	}()

	// Context fetch failure is non-fatal: classify with empty context.
	recent, err := r.store.Recent(ctx, scope, recentContextLimit)
	if err != nil {
		r.log.Warn().Err(err).Msg("Failed to fetch recent transactions for context")
		recent = nil
	}

	call, err := r.classifier.Classify(ctx, scope, message, recent)
	if err != nil {
		r.log.Error().Err(err).Msg("Classification failed")
		return failure("Unable to process your request. Please try again.")
	}
	if call.Err != "" {
		return failure(call.Err)
	}

	params := call.Parameters
	if params == nil {
		params = map[string]any{}
	}
	// Identity always comes from the authenticated caller; anything the
	// model put here is discarded.
	delete(params, "user_id")
	delete(params, "client_id")

	var result *Response
	var handlerErr error

	switch call.Name {
	case ToolAddTransaction:
		result, handlerErr = r.handleAdd(ctx, scope, params)
	case ToolGetTransaction:
		result, handlerErr = r.handleGet(ctx, scope, params)
	case ToolUpdateTransaction:
		result, handlerErr = r.handleUpdate(ctx, scope, params)
	case ToolDeleteTransaction:
		result, handlerErr = r.handleDelete(ctx, scope, params)
	default:
		name := call.Name
		return &Response{
			Success:    false,
			Message:    fmt.Sprintf("Unknown tool: %s", name),
			ToolCalled: &name,
		}
	}

	name := call.Name
	if handlerErr != nil {
		r.log.Error().Err(handlerErr).Str("tool", name).Msg("Tool execution failed")
		return &Response{
			Success:    false,
			Message:    "Internal server error",
			ToolCalled: &name,
		}
	}

	result.ToolCalled = &name
	return result
}
