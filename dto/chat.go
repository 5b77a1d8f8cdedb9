package dto

type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid4"`
	Context   string `json:"context,omitempty" validate:"omitempty,max=2000"`
}

func (r ChatRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
	Remaining int    `json:"remaining"`
}

type ChatLogInfo struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	IP        string `json:"ip"`
	Role      string `json:"role"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"created_at"`
}

type ChatLogListResponse struct {
	Logs  []ChatLogInfo `json:"logs"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
