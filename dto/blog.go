package dto

type CreatePostRequest struct {
	Title     string   `json:"title" validate:"required,max=200"`
	Slug      string   `json:"slug,omitempty" validate:"omitempty,max=200"`
	Excerpt   string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Content   string   `json:"content" validate:"required"`
	Tags      []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=40"`
	Published bool     `json:"published,omitempty"`
}

func (r CreatePostRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdatePostRequest struct {
	Title     *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Excerpt   *string  `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Content   *string  `json:"content,omitempty"`
	Tags      []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=40"`
	Published *bool    `json:"published,omitempty"`
}

func (r UpdatePostRequest) Validate() error {
	return GetValidator().Struct(r)
}

type PostResponse struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Content     string   `json:"content,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Published   bool     `json:"published"`
	PublishedAt int64    `json:"published_at,omitempty"`
	Views       int64    `json:"views"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
