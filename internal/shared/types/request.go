package types

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params" binding:"required"`
	AppID  *string                `json:"app_id,omitempty"`
}

// DiscoverRequest represents a service discovery request
type DiscoverRequest struct {
	Intent string `json:"intent" binding:"required"`
	Limit  int    `json:"limit,omitempty"`
}
