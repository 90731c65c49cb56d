package services

import (
	"context"
	"testing"
	"time"

	"github.com/nayeem51/friendline/internal/cache"
	"github.com/nayeem51/friendline/internal/models"
	"github.com/nayeem51/friendline/internal/repositories/inmem"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service against in-memory repositories and a shared
// cache coordinator, the same topology the router builds in production
type testEnv struct {
	users       *inmem.UserRepository
	posts       *inmem.PostRepository
	friendships *inmem.FriendshipRepository
	cache       *cache.Coordinator

	userService       *UserService
	postService       *PostService
	friendshipService *FriendshipService
	timelineService   *TimelineService
}

func newTestEnv() *testEnv {
	users := inmem.NewUserRepository()
	posts := inmem.NewPostRepository()
	friendships := inmem.NewFriendshipRepository()
	coordinator := cache.NewCoordinator(time.Minute)

	friendshipService := NewFriendshipService(friendships, users, coordinator)
	return &testEnv{
		users:             users,
		posts:             posts,
		friendships:       friendships,
		cache:             coordinator,
		userService:       NewUserService(users, posts, friendships, coordinator),
		postService:       NewPostService(posts, users, coordinator),
		friendshipService: friendshipService,
		timelineService:   NewTimelineService(friendshipService, posts, coordinator),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.userService.CreateUser(&models.CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return user
}

// addPost inserts a post directly into the store with an explicit creation
// time, bypassing the service so timestamps are controllable
func (e *testEnv) addPost(t *testing.T, userID uint, text string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:    userID,
		Text:      text,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, e.posts.CreatePost(context.Background(), post))
	return post
}

func (e *testEnv) befriend(t *testing.T, userID, friendID uint) {
	t.Helper()
	_, err := e.friendshipService.AddFriend(userID, friendID)
	require.NoError(t, err)
}
