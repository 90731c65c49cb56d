package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nayeem51/friendline/internal/apperrors"
	"github.com/nayeem51/friendline/internal/cache"
	"github.com/nayeem51/friendline/internal/models"
	"github.com/nayeem51/friendline/internal/repositories"
)

// PostService contains business logic for post management
type PostService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
	cache *cache.Coordinator
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	coordinator *cache.Coordinator,
) *PostService {
	return &PostService{posts: postRepo, users: userRepo, cache: coordinator}
}

// CreatePost creates a post for an existing user. Text must be non-empty
// after trimming. Invalidates all-posts, posts-by-user, search-results and
// every timeline namespace.
func (s *PostService) CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	exists, err := s.users.ExistsByID(req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("user not found with id: %d", req.UserID)
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperrors.Invalid("post text cannot be empty")
	}

	now := time.Now()
	post := &models.Post{
		UserID:    req.UserID,
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.PostCreate...)
	return post, nil
}

// GetPostByID retrieves a post by ID, cached
func (s *PostService) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if v, ok := s.cache.Get(cache.PostByID, id); ok {
		if post, ok := v.(*models.Post); ok {
			return post, nil
		}
	}

	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.PostByID, id, post)
	return post, nil
}

// GetAllPosts retrieves all posts newest first, cached
func (s *PostService) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	if v, ok := s.cache.Get(cache.AllPosts, "all"); ok {
		if posts, ok := v.([]models.Post); ok {
			return posts, nil
		}
	}

	posts, err := s.posts.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.AllPosts, "all", posts)
	return posts, nil
}

// GetPostsPage retrieves one page of posts newest first, cached per
// page/size pair
func (s *PostService) GetPostsPage(ctx context.Context, page, size int) ([]models.Post, error) {
	if page < 0 {
		return nil, apperrors.Invalid("page must not be negative: %d", page)
	}
	if size < 1 {
		return nil, apperrors.Invalid("size must be positive: %d", size)
	}

	key := fmt.Sprintf("%d-%d", page, size)
	if v, ok := s.cache.Get(cache.PaginatedPosts, key); ok {
		if posts, ok := v.([]models.Post); ok {
			return posts, nil
		}
	}

	posts, err := s.posts.GetPostsPage(ctx, int64(page)*int64(size), int64(size))
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.PaginatedPosts, key, posts)
	return posts, nil
}

// GetPostsByUser retrieves all posts owned by a user, cached
func (s *PostService) GetPostsByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	exists, err := s.users.ExistsByID(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("user not found with id: %d", userID)
	}

	key := strconv.FormatUint(uint64(userID), 10)
	if v, ok := s.cache.Get(cache.PostsByUser, key); ok {
		if posts, ok := v.([]models.Post); ok {
			return posts, nil
		}
	}

	posts, err := s.posts.GetPostsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.PostsByUser, key, posts)
	return posts, nil
}

// SearchPosts retrieves posts whose text contains the given string
// case-insensitively, cached per search string
func (s *PostService) SearchPosts(ctx context.Context, text string) ([]models.Post, error) {
	if v, ok := s.cache.Get(cache.SearchResults, text); ok {
		if posts, ok := v.([]models.Post); ok {
			return posts, nil
		}
	}

	posts, err := s.posts.SearchPosts(ctx, text)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.SearchResults, text, posts)
	return posts, nil
}

// UpdatePost replaces a post's text. createdAt is untouched, updatedAt is
// set to now. Invalidates post-by-id, all-posts, paginated-posts,
// posts-by-user, search-results and every timeline namespace.
func (s *PostService) UpdatePost(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperrors.Invalid("post text cannot be empty")
	}

	if err := s.posts.UpdatePost(ctx, id, req.Text, time.Now()); err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.PostWrite...)
	return post, nil
}

// DeletePost deletes a post. Same invalidation set as update.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(cache.PostWrite...)
	return nil
}
