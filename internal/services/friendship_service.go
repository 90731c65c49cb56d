package services

import (
	"strconv"
	"time"

	"github.com/nayeem51/friendline/internal/apperrors"
	"github.com/nayeem51/friendline/internal/cache"
	"github.com/nayeem51/friendline/internal/models"
	"github.com/nayeem51/friendline/internal/repositories"
)

// FriendshipService owns the bidirectional-edge invariant: a friendship is
// two directed edges, created and removed as an atomic pair.
type FriendshipService struct {
	friendships repositories.FriendshipRepository
	users       repositories.UserRepository
	cache       *cache.Coordinator
}

// NewFriendshipService creates a new FriendshipService
func NewFriendshipService(
	friendshipRepo repositories.FriendshipRepository,
	userRepo repositories.UserRepository,
	coordinator *cache.Coordinator,
) *FriendshipService {
	return &FriendshipService{friendships: friendshipRepo, users: userRepo, cache: coordinator}
}

// AddFriend creates the bidirectional friendship userID<->friendID and
// returns the forward edge. Fails NotFound for unknown users, Invalid for a
// self-friendship and Conflict for a duplicate edge. Invalidates
// friends-of-user, friend-count and every timeline namespace.
func (s *FriendshipService) AddFriend(userID, friendID uint) (*models.FriendshipResponse, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	friend, err := s.users.GetUserByID(friendID)
	if err != nil {
		return nil, err
	}

	if userID == friendID {
		return nil, apperrors.Invalid("a user cannot be friends with themselves")
	}

	exists, err := s.friendships.FriendshipExists(userID, friendID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("friendship already exists between user %d and %d", userID, friendID)
	}

	now := time.Now()
	forward := &models.Friendship{UserID: userID, FriendID: friendID, CreatedAt: now}
	reverse := &models.Friendship{UserID: friendID, FriendID: userID, CreatedAt: now}
	if err := s.friendships.CreateFriendshipPair(forward, reverse); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.FriendshipWrite...)
	return &models.FriendshipResponse{
		ID:             forward.ID,
		UserID:         user.ID,
		Username:       user.Username,
		FriendID:       friend.ID,
		FriendUsername: friend.Username,
		CreatedAt:      forward.CreatedAt,
	}, nil
}

// RemoveFriend removes both directed edges of the friendship. Fails
// NotFound for unknown users and Invalid if the forward edge does not
// exist. Same invalidation set as AddFriend.
func (s *FriendshipService) RemoveFriend(userID, friendID uint) error {
	exists, err := s.users.ExistsByID(userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("user not found with id: %d", userID)
	}
	exists, err = s.users.ExistsByID(friendID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("user not found with id: %d", friendID)
	}

	exists, err = s.friendships.FriendshipExists(userID, friendID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.Invalid("friendship does not exist between user %d and %d", userID, friendID)
	}

	if err := s.friendships.DeleteFriendshipPair(userID, friendID); err != nil {
		return err
	}

	s.cache.Invalidate(cache.FriendshipWrite...)
	return nil
}

// GetFriendsOfUser returns the user's friend list enriched with usernames,
// cached. Friend usernames are resolved with a single bulk fetch.
func (s *FriendshipService) GetFriendsOfUser(userID uint) ([]models.FriendshipResponse, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	key := strconv.FormatUint(uint64(userID), 10)
	if v, ok := s.cache.Get(cache.FriendsOfUser, key); ok {
		if friends, ok := v.([]models.FriendshipResponse); ok {
			return friends, nil
		}
	}

	edges, err := s.friendships.GetFriendships(userID)
	if err != nil {
		return nil, err
	}

	friendIDs := make([]uint, len(edges))
	for i, e := range edges {
		friendIDs[i] = e.FriendID
	}
	friends, err := s.users.GetUsersByIDs(friendIDs)
	if err != nil {
		return nil, err
	}
	usernames := make(map[uint]string, len(friends))
	for _, f := range friends {
		usernames[f.ID] = f.Username
	}

	responses := make([]models.FriendshipResponse, len(edges))
	for i, e := range edges {
		responses[i] = models.FriendshipResponse{
			ID:             e.ID,
			UserID:         e.UserID,
			Username:       user.Username,
			FriendID:       e.FriendID,
			FriendUsername: usernames[e.FriendID],
			CreatedAt:      e.CreatedAt,
		}
	}

	s.cache.Put(cache.FriendsOfUser, key, responses)
	return responses, nil
}

// AreFriends is a pure existence check on the directed edge
// userID->friendID; unknown ids simply yield false
func (s *FriendshipService) AreFriends(userID, friendID uint) (bool, error) {
	return s.friendships.FriendshipExists(userID, friendID)
}

// GetFriendCount returns the number of edges owned by the user, cached
func (s *FriendshipService) GetFriendCount(userID uint) (int64, error) {
	exists, err := s.users.ExistsByID(userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperrors.NotFound("user not found with id: %d", userID)
	}

	key := strconv.FormatUint(uint64(userID), 10)
	if v, ok := s.cache.Get(cache.FriendCount, key); ok {
		if count, ok := v.(int64); ok {
			return count, nil
		}
	}

	count, err := s.friendships.CountFriendships(userID)
	if err != nil {
		return 0, err
	}
	s.cache.Put(cache.FriendCount, key, count)
	return count, nil
}
