package repositories

import (
	"gorm.io/gorm"

	"github.com/ColdByDefault/Portfolio-sub001/model"
)

type PostRepository struct {
	BaseRepository
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{NewBaseRepository(db)}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) Update(post *model.Post) error {
	return r.db.Save(post).Error
}

func (r *PostRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Post{}).Error
}

func (r *PostRepository) GetByID(id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) GetBySlug(slug string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *PostRepository) List(page, limit int, publishedOnly bool) ([]model.Post, int64, error) {
	query := r.db.Model(&model.Post{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *PostRepository) AddViews(id string, n int64) error {
	return r.db.Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", n)).Error
}
