package dto

// ==================== ADMIN AUTH DTOs ====================

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (r LoginRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ==================== BLOCKLIST DTOs ====================

type BlockRequest struct {
	Target string `json:"target" validate:"required,max=254"`
	Type   string `json:"type" validate:"required,oneof=ip email"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

func (r BlockRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UnblockRequest struct {
	Target string `json:"target" validate:"required,max=254"`
	Type   string `json:"type" validate:"required,oneof=ip email"`
}

func (r UnblockRequest) Validate() error {
	return GetValidator().Struct(r)
}

type BlockEntryInfo struct {
	Target    string `json:"target"`
	Type      string `json:"type"`
	Reason    string `json:"reason,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type BlocklistResponse struct {
	Entries []BlockEntryInfo `json:"entries"`
}

// ==================== RATE LIMIT ADMIN DTOs ====================

type UpdateRateLimitConfigRequest struct {
	MaxRequests int    `json:"max_requests,omitempty" validate:"omitempty,min=1"`
	WindowSize  string `json:"window_size,omitempty"` // e.g. "1m", "1h"
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (r UpdateRateLimitConfigRequest) Validate() error {
	return GetValidator().Struct(r)
}
