package services

import (
	"context"
	"testing"
	"time"

	"github.com/nayeem51/friendline/internal/apperrors"
	"github.com/nayeem51/friendline/internal/cache"
	"github.com/nayeem51/friendline/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineAggregatesFriendsPostsNewestFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	charlie := env.createUser(t, "charlie")
	env.befriend(t, alice.ID, bob.ID)
	env.befriend(t, alice.ID, charlie.ID)
	require.Equal(t, 4, env.friendships.EdgeCount())

	t1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	env.addPost(t, bob.ID, "hi", t1)
	env.addPost(t, charlie.ID, "yo", t2)
	env.addPost(t, alice.ID, "my own post", t2)

	timeline, err := env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)

	require.Len(t, timeline, 2, "own posts must not appear in the timeline")
	assert.Equal(t, "yo", timeline[0].Text)
	assert.Equal(t, "charlie", timeline[0].AuthorUsername)
	assert.Equal(t, charlie.ID, timeline[0].AuthorID)
	assert.Equal(t, "hi", timeline[1].Text)
	assert.Equal(t, "bob", timeline[1].AuthorUsername)
}

func TestTimelineEmptyForUserWithNoFriends(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	timeline, err := env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, timeline)

	count, err := env.timelineService.GetTimelinePostCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTimelineUnknownUserFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.timelineService.GetUserTimeline(ctx, 9999)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = env.timelineService.GetUserTimelinePage(ctx, 9999, 0, 10)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = env.timelineService.GetTimelinePostCount(ctx, 9999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTimelineDateRangeBoundsAreInclusive(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.befriend(t, alice.ID, bob.ID)

	t1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t2.Add(24 * time.Hour)
	env.addPost(t, bob.ID, "first", t1)
	env.addPost(t, bob.ID, "second", t2)
	env.addPost(t, bob.ID, "third", t3)

	timeline, err := env.timelineService.GetUserTimelineByDateRange(ctx, alice.ID, &t1, &t2)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "second", timeline[0].Text)
	assert.Equal(t, "first", timeline[1].Text)

	// Open bounds on either side
	timeline, err = env.timelineService.GetUserTimelineByDateRange(ctx, alice.ID, nil, &t1)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, "first", timeline[0].Text)

	timeline, err = env.timelineService.GetUserTimelineByDateRange(ctx, alice.ID, &t3, nil)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, "third", timeline[0].Text)
}

func TestTimelineSortIsStrictlyDescending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	charlie := env.createUser(t, "charlie")
	env.befriend(t, alice.ID, bob.ID)
	env.befriend(t, alice.ID, charlie.ID)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		env.addPost(t, bob.ID, "b", base.Add(time.Duration(i)*time.Minute))
		env.addPost(t, charlie.ID, "c", base.Add(time.Duration(i)*time.Minute))
	}

	timeline, err := env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 10)

	for i := 1; i < len(timeline); i++ {
		assert.False(t, timeline[i-1].CreatedAt.Before(timeline[i].CreatedAt))
	}
}

func TestTimelineTieBreakIsDeterministic(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.befriend(t, alice.ID, bob.ID)

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	env.addPost(t, bob.ID, "one", ts)
	env.addPost(t, bob.ID, "two", ts)
	env.addPost(t, bob.ID, "three", ts)

	first, err := env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Equal timestamps order by post id ascending
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].PostID, first[i].PostID)
	}

	// Recomputing after an invalidation yields the identical order
	env.cache.Invalidate(cache.TimelineNamespaces...)
	second, err := env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTimelinePageSliceLaw(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.befriend(t, alice.ID, bob.ID)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		env.addPost(t, bob.ID, "post", base.Add(time.Duration(i)*time.Minute))
	}

	full, err := env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, full, 5)

	for page := 0; page < 4; page++ {
		result, err := env.timelineService.GetUserTimelinePage(ctx, alice.ID, page, 2)
		require.NoError(t, err)

		start := page * 2
		end := start + 2
		if start > len(full) {
			start = len(full)
		}
		if end > len(full) {
			end = len(full)
		}
		assert.Equal(t, full[start:end], result.Content, "page %d", page)
		assert.Equal(t, 5, result.TotalElements)
		assert.Equal(t, 3, result.TotalPages)
	}

	// A start offset past the end is an empty page, not an error
	result, err := env.timelineService.GetUserTimelinePage(ctx, alice.ID, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, result.Content)
}

func TestTimelinePageRejectsInvalidArguments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	_, err := env.timelineService.GetUserTimelinePage(ctx, alice.ID, -1, 10)
	assert.True(t, apperrors.IsInvalid(err))

	_, err = env.timelineService.GetUserTimelinePage(ctx, alice.ID, 0, 0)
	assert.True(t, apperrors.IsInvalid(err))
}

func TestTimelineFilteredPageCombinesFilterAndSlice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.befriend(t, alice.ID, bob.ID)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		env.addPost(t, bob.ID, "post", base.Add(time.Duration(i)*time.Hour))
	}

	from := base.Add(1 * time.Hour)
	to := base.Add(4 * time.Hour)
	filtered, err := env.timelineService.GetUserTimelineByDateRange(ctx, alice.ID, &from, &to)
	require.NoError(t, err)
	require.Len(t, filtered, 4)

	result, err := env.timelineService.GetUserTimelineFilteredPage(ctx, alice.ID, 1, 3, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, filtered[3:4], result.Content)
	assert.Equal(t, 4, result.TotalElements)
	assert.Equal(t, 2, result.TotalPages)
}

func TestTimelineCountsMatchContent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.befriend(t, alice.ID, bob.ID)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		env.addPost(t, bob.ID, "post", base.Add(time.Duration(i)*time.Hour))
	}

	timeline, err := env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	count, err := env.timelineService.GetTimelinePostCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, len(timeline), count)

	from := base.Add(1 * time.Hour)
	to := base.Add(2 * time.Hour)
	filtered, err := env.timelineService.GetUserTimelineByDateRange(ctx, alice.ID, &from, &to)
	require.NoError(t, err)
	filteredCount, err := env.timelineService.GetTimelinePostCountByDateRange(ctx, alice.ID, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, len(filtered), filteredCount)
}

func TestTimelineCacheInvalidatedByPostMutation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.befriend(t, alice.ID, bob.ID)
	env.addPost(t, bob.ID, "hi", time.Now())

	timeline, err := env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 1)

	// A write through the service invalidates the cached timeline
	_, err = env.postService.CreatePost(ctx, &models.CreatePostRequest{UserID: bob.ID, Text: "again"})
	require.NoError(t, err)

	timeline, err = env.timelineService.GetUserTimeline(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, timeline, 2)
}
