// Package inmem provides in-memory implementations of the repository
// interfaces. They mirror the persistence-layer semantics (uniqueness,
// atomic edge pairs, newest-first ordering) behind mutex-guarded maps and
// are what the service tests run against.
package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nayeem51/friendline/internal/apperrors"
	"github.com/nayeem51/friendline/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is an in-memory repositories.UserRepository
type UserRepository struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1, users: make(map[uint]models.User)}
}

func (r *UserRepository) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetUserByID(id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, apperrors.NotFound("user not found with id: %d", id)
}

func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user not found with username: %s", username)
}

func (r *UserRepository) GetUsers() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *UserRepository) ExistsByID(id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NotFound("user not found with id: %d", user.ID)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) DeleteUser(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// FriendshipRepository is an in-memory repositories.FriendshipRepository.
// Pair operations run under one lock so no reader observes a half-applied
// bidirectional edge.
type FriendshipRepository struct {
	mu     sync.RWMutex
	nextID uint
	edges  map[uint]models.Friendship
}

func NewFriendshipRepository() *FriendshipRepository {
	return &FriendshipRepository{nextID: 1, edges: make(map[uint]models.Friendship)}
}

func (r *FriendshipRepository) exists(userID, friendID uint) bool {
	for _, e := range r.edges {
		if e.UserID == userID && e.FriendID == friendID {
			return true
		}
	}
	return false
}

func (r *FriendshipRepository) CreateFriendshipPair(forward, reverse *models.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Uniqueness on (user_id, friend_id): refuse the whole pair before
	// inserting anything, so a failure changes the edge count by zero
	if r.exists(forward.UserID, forward.FriendID) || r.exists(reverse.UserID, reverse.FriendID) {
		return apperrors.Conflict("friendship already exists between user %d and %d", forward.UserID, forward.FriendID)
	}
	forward.ID = r.nextID
	r.nextID++
	reverse.ID = r.nextID
	r.nextID++
	r.edges[forward.ID] = *forward
	r.edges[reverse.ID] = *reverse
	return nil
}

func (r *FriendshipRepository) DeleteFriendshipPair(userID, friendID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.edges {
		if (e.UserID == userID && e.FriendID == friendID) || (e.UserID == friendID && e.FriendID == userID) {
			delete(r.edges, id)
		}
	}
	return nil
}

func (r *FriendshipRepository) GetFriendships(userID uint) ([]models.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	edges := []models.Friendship{}
	for _, e := range r.edges {
		if e.UserID == userID {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges, nil
}

func (r *FriendshipRepository) FriendshipExists(userID, friendID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exists(userID, friendID), nil
}

func (r *FriendshipRepository) CountFriendships(userID uint) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, e := range r.edges {
		if e.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *FriendshipRepository) DeleteAllForUser(userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.edges {
		if e.UserID == userID || e.FriendID == userID {
			delete(r.edges, id)
		}
	}
	return nil
}

// EdgeCount returns the total number of directed edges in the store
func (r *FriendshipRepository) EdgeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.edges)
}

// PostRepository is an in-memory repositories.PostRepository
type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]models.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]models.Post)}
}

func (r *PostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	r.posts[post.ID.Hex()] = *post
	return nil
}

func (r *PostRepository) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.Invalid("invalid post id format: %s", id)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.posts[id]; ok {
		return &p, nil
	}
	return nil, apperrors.NotFound("post not found with id: %s", id)
}

func (r *PostRepository) all() []models.Post {
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID.Hex() < posts[j].ID.Hex()
	})
	return posts
}

func (r *PostRepository) GetAllPosts(_ context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.all(), nil
}

func (r *PostRepository) GetPostsPage(_ context.Context, skip, limit int64) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := r.all()
	if skip >= int64(len(posts)) {
		return []models.Post{}, nil
	}
	end := skip + limit
	if end > int64(len(posts)) {
		end = int64(len(posts))
	}
	return posts[skip:end], nil
}

func (r *PostRepository) GetPostsByUserID(_ context.Context, userID uint) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := []models.Post{}
	for _, p := range r.all() {
		if p.UserID == userID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (r *PostRepository) GetPostsByUserIDs(_ context.Context, userIDs []uint) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	posts := []models.Post{}
	for _, p := range r.posts {
		if wanted[p.UserID] {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (r *PostRepository) SearchPosts(_ context.Context, text string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(text)
	posts := []models.Post{}
	for _, p := range r.all() {
		if strings.Contains(strings.ToLower(p.Text), needle) {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (r *PostRepository) UpdatePost(_ context.Context, id string, text string, updatedAt time.Time) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperrors.Invalid("invalid post id format: %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return apperrors.NotFound("post not found with id: %s", id)
	}
	p.Text = text
	p.UpdatedAt = updatedAt
	r.posts[id] = p
	return nil
}

func (r *PostRepository) DeletePost(_ context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperrors.Invalid("invalid post id format: %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return apperrors.NotFound("post not found with id: %s", id)
	}
	delete(r.posts, id)
	return nil
}

func (r *PostRepository) DeletePostsByUserID(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.posts {
		if p.UserID == userID {
			delete(r.posts, id)
		}
	}
	return nil
}
