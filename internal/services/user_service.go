package services

import (
	"context"
	"strconv"
	"time"

	"github.com/nayeem51/friendline/internal/apperrors"
	"github.com/nayeem51/friendline/internal/cache"
	"github.com/nayeem51/friendline/internal/models"
	"github.com/nayeem51/friendline/internal/repositories"
)

// UserService contains business logic for user management
type UserService struct {
	users       repositories.UserRepository
	posts       repositories.PostRepository
	friendships repositories.FriendshipRepository
	cache       *cache.Coordinator
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	friendshipRepo repositories.FriendshipRepository,
	coordinator *cache.Coordinator,
) *UserService {
	return &UserService{
		users:       userRepo,
		posts:       postRepo,
		friendships: friendshipRepo,
		cache:       coordinator,
	}
}

// CreateUser creates a new user after checking username and email
// uniqueness. Invalidates the all-users cache.
func (s *UserService) CreateUser(req *models.CreateUserRequest) (*models.User, error) {
	taken, err := s.users.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("username already exists: %s", req.Username)
	}
	taken, err = s.users.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("email already exists: %s", req.Email)
	}

	now := time.Now()
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.AllUsers)
	return user, nil
}

// GetUserByID retrieves a user by ID, cached
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	key := strconv.FormatUint(uint64(id), 10)
	if v, ok := s.cache.Get(cache.UserByID, key); ok {
		if user, ok := v.(*models.User); ok {
			return user, nil
		}
	}

	user, err := s.users.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.UserByID, key, user)
	return user, nil
}

// GetUserByUsername retrieves a user by username, cached
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	if v, ok := s.cache.Get(cache.UserByUsername, username); ok {
		if user, ok := v.(*models.User); ok {
			return user, nil
		}
	}

	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.UserByUsername, username, user)
	return user, nil
}

// GetAllUsers retrieves all users, cached
func (s *UserService) GetAllUsers() ([]models.User, error) {
	if v, ok := s.cache.Get(cache.AllUsers, "all"); ok {
		if users, ok := v.([]models.User); ok {
			return users, nil
		}
	}

	users, err := s.users.GetUsers()
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.AllUsers, "all", users)
	return users, nil
}

// UpdateUser updates a user's username and email, re-checking uniqueness for
// any value that changed. Invalidates user-by-id, user-by-username and
// all-users.
func (s *UserService) UpdateUser(id uint, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if user.Username != req.Username {
		taken, err := s.users.ExistsByUsername(req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("username already exists: %s", req.Username)
		}
	}
	if user.Email != req.Email {
		taken, err := s.users.ExistsByEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("email already exists: %s", req.Email)
		}
	}

	user.Username = req.Username
	user.Email = req.Email
	user.UpdatedAt = time.Now()
	if err := s.users.UpdateUser(user); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.UserWrite...)
	return user, nil
}

// DeleteUser deletes a user and cascades: all owned posts and every
// friendship edge where the user appears as either endpoint are removed.
// Invalidates the union of the user, post and friendship mutation sets.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	exists, err := s.users.ExistsByID(id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("user not found with id: %d", id)
	}

	if err := s.posts.DeletePostsByUserID(ctx, id); err != nil {
		return err
	}
	if err := s.friendships.DeleteAllForUser(id); err != nil {
		return err
	}
	if err := s.users.DeleteUser(id); err != nil {
		return err
	}

	s.cache.Invalidate(cache.UserCascadeDelete...)
	return nil
}
