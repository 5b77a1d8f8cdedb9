package dto

// ContactRequest is the public contact form payload. Honeypot is a hidden
// field legitimate users never fill; Timestamp is the millisecond epoch at
// which the form was rendered, used for the minimum-fill-time check.
type ContactRequest struct {
	Name      string `json:"name" validate:"required,max=100" example:"Jane Doe"`
	Email     string `json:"email" validate:"required,email,max=254" example:"jane@example.com"`
	Subject   string `json:"subject" validate:"required,max=200" example:"Project inquiry"`
	Message   string `json:"message" validate:"required,max=5000" example:"Hello, I'd like to..."`
	Honeypot  string `json:"honeypot,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty" example:"1735689600000"`
}

func (r ContactRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ContactResponse struct {
	Reference string `json:"reference"`
}

type SubmissionInfo struct {
	ID        string `json:"id"`
	IP        string `json:"ip"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Accepted  bool   `json:"accepted"`
	Reason    string `json:"reason,omitempty"`
	SpamScore int    `json:"spam_score"`
	Country   string `json:"country,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type SubmissionListResponse struct {
	Submissions []SubmissionInfo `json:"submissions"`
	Total       int64            `json:"total"`
	Page        int              `json:"page"`
	Limit       int              `json:"limit"`
}
