package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nayeem51/friendline/internal/services"
)

// TimelineHandler handles HTTP requests for timeline queries
type TimelineHandler struct {
	timelineService *services.TimelineService
}

// NewTimelineHandler creates a new TimelineHandler
func NewTimelineHandler(timelineService *services.TimelineService) *TimelineHandler {
	return &TimelineHandler{timelineService: timelineService}
}

// RegisterTimelineRoutes registers timeline-related routes
func (h *TimelineHandler) RegisterTimelineRoutes(g *echo.Group) {
	g.GET("/timeline/user/:userId", h.GetTimeline)
	g.GET("/timeline/user/:userId/paginated", h.GetTimelinePage)
	g.GET("/timeline/user/:userId/daterange", h.GetTimelineByDateRange)
	g.GET("/timeline/user/:userId/filtered", h.GetTimelineFilteredPage)
	g.GET("/timeline/user/:userId/count", h.GetTimelineCount)
	g.GET("/timeline/user/:userId/count/daterange", h.GetTimelineCountByDateRange)
}

// parseDate parses an optional RFC3339 query param; nil means unbounded
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parsePaging(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size < 1 {
		size = 10
	}
	return page, size
}

// GetTimeline returns the full timeline for a user
func (h *TimelineHandler) GetTimeline(c echo.Context) error {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	timeline, err := h.timelineService.GetUserTimeline(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, timeline)
}

// GetTimelinePage returns one page of a user's timeline
func (h *TimelineHandler) GetTimelinePage(c echo.Context) error {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	page, size := parsePaging(c)

	result, err := h.timelineService.GetUserTimelinePage(c.Request().Context(), userID, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetTimelineByDateRange returns the timeline restricted to an inclusive
// date window
func (h *TimelineHandler) GetTimelineByDateRange(c echo.Context) error {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid from date")
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid to date")
	}

	timeline, err := h.timelineService.GetUserTimelineByDateRange(c.Request().Context(), userID, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, timeline)
}

// GetTimelineFilteredPage combines the date filter with pagination
func (h *TimelineHandler) GetTimelineFilteredPage(c echo.Context) error {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	page, size := parsePaging(c)
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid from date")
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid to date")
	}

	result, err := h.timelineService.GetUserTimelineFilteredPage(c.Request().Context(), userID, page, size, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetTimelineCount returns the number of posts in a user's timeline
func (h *TimelineHandler) GetTimelineCount(c echo.Context) error {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	count, err := h.timelineService.GetTimelinePostCount(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

// GetTimelineCountByDateRange returns the timeline post count within an
// inclusive date window
func (h *TimelineHandler) GetTimelineCountByDateRange(c echo.Context) error {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid from date")
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid to date")
	}

	count, err := h.timelineService.GetTimelinePostCountByDateRange(c.Request().Context(), userID, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}
