package services

import (
	"context"
	"testing"
	"time"

	"github.com/nayeem51/friendline/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFriendCreatesBidirectionalEdges(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	resp, err := env.friendshipService.AddFriend(alice.ID, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, alice.ID, resp.UserID)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, bob.ID, resp.FriendID)
	assert.Equal(t, "bob", resp.FriendUsername)

	forward, err := env.friendshipService.AreFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	reverse, err := env.friendshipService.AreFriends(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, forward)
	assert.True(t, reverse)
	assert.Equal(t, 2, env.friendships.EdgeCount())
}

func TestAddFriendSelfFails(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")

	_, err := env.friendshipService.AddFriend(alice.ID, alice.ID)
	assert.True(t, apperrors.IsInvalid(err))
	assert.Equal(t, 0, env.friendships.EdgeCount())
}

func TestAddFriendUnknownUserFails(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")

	_, err := env.friendshipService.AddFriend(alice.ID, 9999)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = env.friendshipService.AddFriend(9999, alice.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 0, env.friendships.EdgeCount())
}

func TestAddFriendDuplicateFails(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.befriend(t, alice.ID, bob.ID)

	_, err := env.friendshipService.AddFriend(alice.ID, bob.ID)
	assert.True(t, apperrors.IsConflict(err))

	// The reverse direction already exists too
	_, err = env.friendshipService.AddFriend(bob.ID, alice.ID)
	assert.True(t, apperrors.IsConflict(err))

	// A failed add never leaves a partial edge behind
	assert.Equal(t, 2, env.friendships.EdgeCount())
}

func TestRemoveFriendRemovesBothEdges(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.befriend(t, alice.ID, bob.ID)

	require.NoError(t, env.friendshipService.RemoveFriend(alice.ID, bob.ID))

	forward, _ := env.friendshipService.AreFriends(alice.ID, bob.ID)
	reverse, _ := env.friendshipService.AreFriends(bob.ID, alice.ID)
	assert.False(t, forward)
	assert.False(t, reverse)
	assert.Equal(t, 0, env.friendships.EdgeCount())
}

func TestRemoveNonExistentFriendshipFails(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	err := env.friendshipService.RemoveFriend(alice.ID, bob.ID)
	assert.True(t, apperrors.IsInvalid(err))
}

func TestRemoveFriendUnknownUserFails(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")

	err := env.friendshipService.RemoveFriend(alice.ID, 9999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAreFriendsUnknownUsersYieldFalse(t *testing.T) {
	env := newTestEnv()

	ok, err := env.friendshipService.AreFriends(123, 456)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFriendCountMatchesFriendList(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	charlie := env.createUser(t, "charlie")
	env.befriend(t, alice.ID, bob.ID)
	env.befriend(t, alice.ID, charlie.ID)

	count, err := env.friendshipService.GetFriendCount(alice.ID)
	require.NoError(t, err)
	friends, err := env.friendshipService.GetFriendsOfUser(alice.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(len(friends)), count)
	assert.Equal(t, int64(2), count)
}

func TestFriendsOfUnknownUserFails(t *testing.T) {
	env := newTestEnv()

	_, err := env.friendshipService.GetFriendsOfUser(9999)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = env.friendshipService.GetFriendCount(9999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSymmetryInvariantHeldUnderMutation(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	charlie := env.createUser(t, "charlie")
	ids := []uint{alice.ID, bob.ID, charlie.ID}

	checkSymmetry := func() {
		for _, a := range ids {
			for _, b := range ids {
				if a == b {
					continue
				}
				ab, err := env.friendshipService.AreFriends(a, b)
				require.NoError(t, err)
				ba, err := env.friendshipService.AreFriends(b, a)
				require.NoError(t, err)
				assert.Equal(t, ab, ba, "asymmetric edge between %d and %d", a, b)
			}
		}
	}

	env.befriend(t, alice.ID, bob.ID)
	checkSymmetry()
	env.befriend(t, bob.ID, charlie.ID)
	checkSymmetry()
	require.NoError(t, env.friendshipService.RemoveFriend(alice.ID, bob.ID))
	checkSymmetry()
	env.befriend(t, charlie.ID, alice.ID)
	checkSymmetry()
}

func TestRemoveFriendImmediatelyExcludesPostsFromTimeline(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.befriend(t, alice.ID, bob.ID)
	env.addPost(t, bob.ID, "hi", time.Now())

	timeline, err := env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 1)

	require.NoError(t, env.friendshipService.RemoveFriend(alice.ID, bob.ID))

	timeline, err = env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, timeline, "stale timeline served after unfriending")
}

func TestFriendCountInvalidatedOnMutation(t *testing.T) {
	env := newTestEnv()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	charlie := env.createUser(t, "charlie")
	env.befriend(t, alice.ID, bob.ID)

	count, err := env.friendshipService.GetFriendCount(alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	env.befriend(t, alice.ID, charlie.ID)

	count, err = env.friendshipService.GetFriendCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
