package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/nayeem51/friendline/internal/apperrors"
	"github.com/nayeem51/friendline/internal/cache"
	"github.com/nayeem51/friendline/internal/models"
	"github.com/nayeem51/friendline/internal/repositories"
)

// TimelineService aggregates posts from all of a user's friends into a
// personalized timeline: fan-out-on-read over the friendship graph and the
// post store, sorted newest first, optionally date-filtered and paginated.
type TimelineService struct {
	friendships *FriendshipService
	posts       repositories.PostRepository
	cache       *cache.Coordinator
}

// NewTimelineService creates a new TimelineService. User existence is
// checked through the friendship service's friend-set lookup.
func NewTimelineService(
	friendshipService *FriendshipService,
	postRepo repositories.PostRepository,
	coordinator *cache.Coordinator,
) *TimelineService {
	return &TimelineService{
		friendships: friendshipService,
		posts:       postRepo,
		cache:       coordinator,
	}
}

func dateKey(t *time.Time) string {
	if t == nil {
		return "null"
	}
	return t.Format(time.RFC3339Nano)
}

// GetUserTimeline returns the full timeline for a user, cached. A user with
// no friends gets an empty timeline, not an error.
func (s *TimelineService) GetUserTimeline(ctx context.Context, userID uint) ([]models.TimelineEntry, error) {
	key := strconv.FormatUint(uint64(userID), 10)
	if v, ok := s.cache.Get(cache.Timeline, key); ok {
		if entries, ok := v.([]models.TimelineEntry); ok {
			return entries, nil
		}
	}

	entries, err := s.timeline(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.Timeline, key, entries)
	return entries, nil
}

// GetUserTimelineByDateRange returns the timeline restricted to posts
// created within [fromDate, toDate], both bounds inclusive and either side
// optional. Cached per user and range.
func (s *TimelineService) GetUserTimelineByDateRange(ctx context.Context, userID uint, fromDate, toDate *time.Time) ([]models.TimelineEntry, error) {
	key := fmt.Sprintf("%d-%s-%s", userID, dateKey(fromDate), dateKey(toDate))
	if v, ok := s.cache.Get(cache.TimelineByDate, key); ok {
		if entries, ok := v.([]models.TimelineEntry); ok {
			return entries, nil
		}
	}

	entries, err := s.timeline(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.TimelineByDate, key, entries)
	return entries, nil
}

// GetUserTimelinePage returns one page of the fully sorted timeline.
// Pagination is a slice over the complete result, not a store-level offset.
func (s *TimelineService) GetUserTimelinePage(ctx context.Context, userID uint, page, size int) (*models.TimelinePage, error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d-%d-%d", userID, page, size)
	if v, ok := s.cache.Get(cache.TimelinePaginated, key); ok {
		if p, ok := v.(*models.TimelinePage); ok {
			return p, nil
		}
	}

	entries, err := s.timeline(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}
	result := paginate(entries, page, size)
	s.cache.Put(cache.TimelinePaginated, key, result)
	return result, nil
}

// GetUserTimelineFilteredPage combines the date filter with pagination; the
// slice is taken from the already filtered and sorted list
func (s *TimelineService) GetUserTimelineFilteredPage(ctx context.Context, userID uint, page, size int, fromDate, toDate *time.Time) (*models.TimelinePage, error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d-%d-%d-%s-%s", userID, page, size, dateKey(fromDate), dateKey(toDate))
	if v, ok := s.cache.Get(cache.TimelineFilteredPaginated, key); ok {
		if p, ok := v.(*models.TimelinePage); ok {
			return p, nil
		}
	}

	entries, err := s.timeline(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	result := paginate(entries, page, size)
	s.cache.Put(cache.TimelineFilteredPaginated, key, result)
	return result, nil
}

// GetTimelinePostCount is defined as the length of the full timeline, so
// count and content can never diverge
func (s *TimelineService) GetTimelinePostCount(ctx context.Context, userID uint) (int, error) {
	entries, err := s.GetUserTimeline(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// GetTimelinePostCountByDateRange is the length of the date-filtered
// timeline
func (s *TimelineService) GetTimelinePostCountByDateRange(ctx context.Context, userID uint, fromDate, toDate *time.Time) (int, error) {
	entries, err := s.GetUserTimelineByDateRange(ctx, userID, fromDate, toDate)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// timeline is the aggregation core: resolve the friend set, bulk-fetch all
// friends' posts in one query, filter by the inclusive date window, project
// with the author's username and sort newest first. Equal timestamps order
// by post id ascending so the result is deterministic.
func (s *TimelineService) timeline(ctx context.Context, userID uint, fromDate, toDate *time.Time) ([]models.TimelineEntry, error) {
	friends, err := s.friendships.GetFriendsOfUser(userID)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return []models.TimelineEntry{}, nil
	}

	friendIDs := make([]uint, len(friends))
	usernames := make(map[uint]string, len(friends))
	for i, f := range friends {
		friendIDs[i] = f.FriendID
		usernames[f.FriendID] = f.FriendUsername
	}

	posts, err := s.posts.GetPostsByUserIDs(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.TimelineEntry, 0, len(posts))
	for _, p := range posts {
		if fromDate != nil && p.CreatedAt.Before(*fromDate) {
			continue
		}
		if toDate != nil && p.CreatedAt.After(*toDate) {
			continue
		}
		entries = append(entries, models.TimelineEntry{
			PostID:         p.ID.Hex(),
			Text:           p.Text,
			AuthorID:       p.UserID,
			AuthorUsername: usernames[p.UserID],
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].PostID < entries[j].PostID
	})
	return entries, nil
}

func validatePage(page, size int) error {
	if page < 0 {
		return apperrors.Invalid("page must not be negative: %d", page)
	}
	if size < 1 {
		return apperrors.Invalid("size must be positive: %d", size)
	}
	return nil
}

// paginate slices the already sorted list. A start offset past the end
// yields an empty page, not an error.
func paginate(entries []models.TimelineEntry, page, size int) *models.TimelinePage {
	total := len(entries)
	content := []models.TimelineEntry{}
	start := page * size
	if start < total {
		end := start + size
		if end > total {
			end = total
		}
		content = entries[start:end]
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}

	return &models.TimelinePage{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
