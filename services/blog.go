package services

import (
	stdContext "context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/model"
	"github.com/ColdByDefault/Portfolio-sub001/services/repositories"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

const (
	postViewKeyPrefix  = "post:views:"
	viewFlushInterval  = time.Minute
	postViewKeyPattern = postViewKeyPrefix + "*"
)

// BlogService owns the blog content surface: post CRUD for the admin panel,
// the public read path and view counting. View hits accumulate in redis and
// flush to the posts table on a timer so the public read path never writes.
type BlogService struct {
	context.DefaultService

	repo *repositories.PostRepository

	sqlSvc   *PostgresService
	redisSvc *RedisService
}

const BLOG_SVC = "blog_svc"

func (svc BlogService) Id() string {
	return BLOG_SVC
}

func (svc *BlogService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *BlogService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.repo = repositories.NewPostRepository(svc.sqlSvc.Db())

	go svc.startViewFlushJob()
	return nil
}

// ==================== ADMIN CRUD ====================

func (svc *BlogService) CreatePost(req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Title)
	} else {
		slug = slugify(slug)
	}

	slug, err := svc.uniqueSlug(slug)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	now := time.Now()
	post := &model.Post{
		ID:        uuid.NewString(),
		Slug:      slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	post.SetTagList(req.Tags)
	if req.Published {
		post.PublishedAt = &now
	}

	if err := svc.repo.Create(post); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithFields(log.Fields{"id": post.ID, "slug": post.Slug}).Info("Post created")
	return svc.toResponse(post, true), nil
}

func (svc *BlogService) UpdatePost(id string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := svc.repo.GetByID(id)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Tags != nil {
		post.SetTagList(req.Tags)
	}
	if req.Published != nil && *req.Published != post.Published {
		post.Published = *req.Published
		if post.Published && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	}
	post.UpdatedAt = time.Now()

	if err := svc.repo.Update(post); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithFields(log.Fields{"id": post.ID, "slug": post.Slug}).Info("Post updated")
	return svc.toResponse(post, true), nil
}

func (svc *BlogService) DeletePost(id string) error {
	if _, err := svc.repo.GetByID(id); err != nil {
		return svc.sqlSvc.HandleError(err)
	}
	if err := svc.repo.Delete(id); err != nil {
		return svc.sqlSvc.HandleError(err)
	}
	log.WithField("id", id).Info("Post deleted")
	return nil
}

func (svc *BlogService) SetCover(id, coverURL string) (*dto.PostResponse, error) {
	post, err := svc.repo.GetByID(id)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	post.CoverURL = coverURL
	post.UpdatedAt = time.Now()
	if err := svc.repo.Update(post); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return svc.toResponse(post, true), nil
}

// ==================== PUBLIC READS ====================

// GetPublishedPost serves the public post page and counts the view.
func (svc *BlogService) GetPublishedPost(slug string) (*dto.PostResponse, error) {
	post, err := svc.repo.GetBySlug(slug)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	// Drafts are indistinguishable from missing posts to the public.
	if !post.Published {
		return nil, &shared.AppError{StatusCode: 404, Kind: "NOT_FOUND", Message: "record not found"}
	}

	svc.countView(post.ID)
	return svc.toResponse(post, true), nil
}

func (svc *BlogService) ListPosts(page, limit int, includeDrafts bool) (*dto.PostListResponse, error) {
	posts, total, err := svc.repo.List(page, limit, !includeDrafts)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.PostListResponse{
		Posts: make([]dto.PostResponse, 0, len(posts)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range posts {
		resp.Posts = append(resp.Posts, *svc.toResponse(&posts[i], false))
	}
	return resp, nil
}

func (svc *BlogService) GetPost(id string) (*dto.PostResponse, error) {
	post, err := svc.repo.GetByID(id)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return svc.toResponse(post, true), nil
}

// ==================== VIEW COUNTING ====================

func (svc *BlogService) countView(postID string) {
	_, err := svc.redisSvc.Increment(stdContext.Background(), postViewKeyPrefix+postID)
	if err != nil {
		// Fall back to a direct write when redis is down.
		if err := svc.repo.AddViews(postID, 1); err != nil {
			log.WithError(err).WithField("post_id", postID).Warn("Failed to count post view")
		}
	}
}

func (svc *BlogService) startViewFlushJob() {
	ticker := time.NewTicker(viewFlushInterval)
	defer ticker.Stop()

	for range ticker.C {
		svc.flushViews()
	}
}

func (svc *BlogService) flushViews() {
	ctx := stdContext.Background()

	keys, err := svc.redisSvc.Keys(ctx, postViewKeyPattern)
	if err != nil {
		log.WithError(err).Warn("Failed to list pending view counters")
		return
	}

	for _, key := range keys {
		val, err := svc.redisSvc.Get(ctx, key)
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil || n <= 0 {
			_ = svc.redisSvc.Delete(ctx, key)
			continue
		}

		postID := strings.TrimPrefix(key, postViewKeyPrefix)
		if err := svc.repo.AddViews(postID, n); err != nil {
			log.WithError(err).WithField("post_id", postID).Warn("Failed to flush post views")
			continue
		}
		if err := svc.redisSvc.Delete(ctx, key); err != nil {
			log.WithError(err).WithField("post_id", postID).Warn("Failed to clear flushed view counter")
		}
	}
}

// ==================== HELPERS ====================

func (svc *BlogService) toResponse(post *model.Post, includeContent bool) *dto.PostResponse {
	resp := &dto.PostResponse{
		ID:        post.ID,
		Slug:      post.Slug,
		Title:     post.Title,
		Excerpt:   post.Excerpt,
		CoverURL:  post.CoverURL,
		Tags:      post.TagList(),
		Published: post.Published,
		Views:     post.Views,
		CreatedAt: post.CreatedAt.Unix(),
		UpdatedAt: post.UpdatedAt.Unix(),
	}
	if includeContent {
		resp.Content = post.Content
	}
	if post.PublishedAt != nil {
		resp.PublishedAt = post.PublishedAt.Unix()
	}
	return resp
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (svc *BlogService) uniqueSlug(slug string) (string, error) {
	candidate := slug
	for i := 2; ; i++ {
		exists, err := svc.repo.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "post"
	}
	if len(s) > 200 {
		s = strings.Trim(s[:200], "-")
	}
	return s
}
