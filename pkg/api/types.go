package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PutEntityRequest registers an entity at a point
type PutEntityRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Data string  `json:"data,omitempty"`
}

// MoveEntityRequest relocates an existing entity
type MoveEntityRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
}
