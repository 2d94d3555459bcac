package response

// ErrorBody is the error shape of every endpoint. Code and Details are
// only set by the auth layer.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func Error(code, message string, details any) ErrorBody {
	return ErrorBody{
		Error:   message,
		Code:    code,
		Details: details,
	}
}
