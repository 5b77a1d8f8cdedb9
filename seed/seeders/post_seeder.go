package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ColdByDefault/Portfolio-sub001/model"
)

// PostSeeder inserts a couple of sample posts for local development
type PostSeeder struct {
	db *gorm.DB
}

func NewPostSeeder(db *gorm.DB) *PostSeeder {
	return &PostSeeder{db: db}
}

func (s *PostSeeder) SeedPosts() error {
	var count int64
	if err := s.db.Model(&model.Post{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Posts already exist, skipping post seeding")
		return nil
	}

	now := time.Now()
	posts := []model.Post{
		{
			ID:          uuid.NewString(),
			Slug:        "hello-world",
			Title:       "Hello World",
			Excerpt:     "First post on the new backend.",
			Content:     "This post was created by the seeding tool.",
			Tags:        "meta",
			Published:   true,
			PublishedAt: &now,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:        uuid.NewString(),
			Slug:      "draft-example",
			Title:     "Draft Example",
			Excerpt:   "An unpublished draft, invisible on the public surface.",
			Content:   "Publish me from the admin panel.",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for i := range posts {
		if err := s.db.Create(&posts[i]).Error; err != nil {
			log.Printf("Error creating post %q: %v", posts[i].Slug, err)
			return err
		}
	}

	log.Printf("Created %d sample posts", len(posts))
	return nil
}
