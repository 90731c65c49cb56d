package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nayeem51/friendline/internal/models"
	"github.com/nayeem51/friendline/internal/services"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipService *services.FriendshipService
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipService *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friendships", h.AddFriend)
	g.DELETE("/friendships", h.RemoveFriend)
	g.GET("/friendships/check", h.AreFriends)
	g.GET("/friendships/user/:userId", h.GetFriendsOfUser)
	g.GET("/friendships/user/:userId/count", h.GetFriendCount)
}

// AddFriend creates a bidirectional friendship
func (h *FriendshipHandler) AddFriend(c echo.Context) error {
	var req models.FriendshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	friendship, err := h.friendshipService.AddFriend(req.UserID, req.FriendID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, friendship)
}

// RemoveFriend removes a bidirectional friendship
func (h *FriendshipHandler) RemoveFriend(c echo.Context) error {
	var req models.FriendshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.friendshipService.RemoveFriend(req.UserID, req.FriendID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetFriendsOfUser retrieves a user's friend list
func (h *FriendshipHandler) GetFriendsOfUser(c echo.Context) error {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	friends, err := h.friendshipService.GetFriendsOfUser(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, friends)
}

// AreFriends checks whether the directed edge userId->friendId exists
func (h *FriendshipHandler) AreFriends(c echo.Context) error {
	userID, err := parseID(c.QueryParam("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	friendID, err := parseID(c.QueryParam("friendId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid friend ID")
	}

	areFriends, err := h.friendshipService.AreFriends(userID, friendID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"are_friends": areFriends})
}

// GetFriendCount retrieves the number of friends a user has
func (h *FriendshipHandler) GetFriendCount(c echo.Context) error {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	count, err := h.friendshipService.GetFriendCount(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}
