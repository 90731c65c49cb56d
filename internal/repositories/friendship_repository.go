package repositories

import (
	"github.com/nayeem51/friendline/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship edge operations.
// A friendship is two directed edges; pair operations must be atomic so no
// reader ever observes an edge present in one direction only.
type FriendshipRepository interface {
	CreateFriendshipPair(forward, reverse *models.Friendship) error
	DeleteFriendshipPair(userID, friendID uint) error
	GetFriendships(userID uint) ([]models.Friendship, error)
	FriendshipExists(userID, friendID uint) (bool, error)
	CountFriendships(userID uint) (int64, error)
	DeleteAllForUser(userID uint) error
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// CreateFriendshipPair inserts both directed edges in a single transaction.
// If either insert fails the transaction rolls back and no edge remains.
func (r *PostgresFriendshipRepository) CreateFriendshipPair(forward, reverse *models.Friendship) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(forward).Error; err != nil {
			return err
		}
		return tx.Create(reverse).Error
	})
}

// DeleteFriendshipPair deletes both directed edges in a single transaction
func (r *PostgresFriendshipRepository) DeleteFriendshipPair(userID, friendID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND friend_id = ?", userID, friendID).
			Delete(&models.Friendship{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND friend_id = ?", friendID, userID).
			Delete(&models.Friendship{}).Error
	})
}

// GetFriendships retrieves all edges owned by userID (the user's friend list)
func (r *PostgresFriendshipRepository) GetFriendships(userID uint) ([]models.Friendship, error) {
	var friendships []models.Friendship
	if err := r.db.Where("user_id = ?", userID).Find(&friendships).Error; err != nil {
		return nil, err
	}
	return friendships, nil
}

// FriendshipExists reports whether the directed edge userID->friendID exists
func (r *PostgresFriendshipRepository) FriendshipExists(userID, friendID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountFriendships counts the edges owned by userID
func (r *PostgresFriendshipRepository) CountFriendships(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Friendship{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteAllForUser deletes every edge where the user appears as either
// endpoint, in one transaction. Used by the user-delete cascade.
func (r *PostgresFriendshipRepository) DeleteAllForUser(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("user_id = ? OR friend_id = ?", userID, userID).
			Delete(&models.Friendship{}).Error
	})
}
