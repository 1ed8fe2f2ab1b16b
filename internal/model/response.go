package model

// APIResponse is the JSON envelope used for errors and generic successes.
// Endpoints with a documented flat shape return their own structs instead.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// NewSuccessResponse builds a success envelope.
func NewSuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

// NewErrorResponse builds an error envelope. Detail carries the underlying
// error text for operator debugging and may be empty.
func NewErrorResponse(errMsg, detail string) APIResponse {
	return APIResponse{Success: false, Error: errMsg, Detail: detail}
}
