package handlers

import (
	"context"
	"io"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
)

type ContactServiceInterface interface {
	Submit(req *dto.ContactRequest, ip, userAgent string) (*dto.ContactResponse, error)
	ListSubmissions(page, limit int, outcome string) (*dto.SubmissionListResponse, error)
}

type ChatServiceInterface interface {
	Respond(ctx context.Context, req *dto.ChatRequest, ip string) (*dto.ChatResponse, error)
	ListLogs(page, limit int) (*dto.ChatLogListResponse, error)
}

type AuthServiceInterface interface {
	Login(req *dto.LoginRequest, ip string) (*dto.LoginResponse, string, error)
	Logout(sessionToken string)
}

type BlogServiceInterface interface {
	CreatePost(req *dto.CreatePostRequest) (*dto.PostResponse, error)
	UpdatePost(id string, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(id string) error
	SetCover(id, coverURL string) (*dto.PostResponse, error)
	GetPublishedPost(slug string) (*dto.PostResponse, error)
	GetPost(id string) (*dto.PostResponse, error)
	ListPosts(page, limit int, includeDrafts bool) (*dto.PostListResponse, error)
}

type MediaServiceInterface interface {
	UploadPostCover(reader io.Reader, size int64, contentType string) (*dto.MediaUploadResponse, error)
}

type BlocklistServiceInterface interface {
	Block(target, kind, reason, createdBy string) error
	Unblock(target, kind string) error
	List() (*dto.BlocklistResponse, error)
}
