package assistant

// Response is the uniform envelope returned by every operation handler
// and by the router itself.
type Response struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
	ToolCalled *string        `json:"tool_called"`
}

// failure builds a terminal failure envelope with tool_called left null.
func failure(message string) *Response {
	return &Response{Success: false, Message: message}
}
