package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/ColdByDefault/Portfolio-sub001/model"
)

type ChatRepository struct {
	BaseRepository
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{NewBaseRepository(db)}
}

func (r *ChatRepository) Create(log *model.ChatLog) error {
	return r.db.Create(log).Error
}

// RecentBySession returns the last limit messages of a session in
// chronological order, for building LLM context.
func (r *ChatRepository) RecentBySession(sessionID string, limit int) ([]model.ChatLog, error) {
	var logs []model.ChatLog
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

// CountBySession counts the user-authored messages of a session, used to
// enforce the per-session message cap.
func (r *ChatRepository) CountBySession(sessionID, role string) (int64, error) {
	var count int64
	err := r.db.Model(&model.ChatLog{}).
		Where("session_id = ? AND role = ?", sessionID, role).
		Count(&count).Error
	return count, err
}

func (r *ChatRepository) List(page, limit int) ([]model.ChatLog, int64, error) {
	var total int64
	if err := r.db.Model(&model.ChatLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.ChatLog
	err := r.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *ChatRepository) DeleteOlderThan(cutoff time.Time) error {
	return r.db.Where("created_at < ?", cutoff).Delete(&model.ChatLog{}).Error
}
