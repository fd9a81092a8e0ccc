package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/taskhub/api/internal/lists"
	"github.com/taskhub/taskhub/api/internal/models"
	"github.com/taskhub/taskhub/api/internal/tasks"
	"github.com/taskhub/taskhub/api/internal/tokens"
	"github.com/taskhub/taskhub/api/pkg/logger"
	"github.com/taskhub/taskhub/api/pkg/middleware"
)

// ListsHandler serves the list CRUD endpoints. Every query is scoped by the
// user id the access gate attached to the context; ids from request bodies
// are never used for ownership.
type ListsHandler struct {
	lists lists.Repository
	tasks tasks.Repository
}

func NewListsHandler(l lists.Repository, t tasks.Repository) *ListsHandler {
	return &ListsHandler{lists: l, tasks: t}
}

// Register wires /lists behind the access gate. Task routes for a list are
// registered by the tasks handler on the same group.
func (h *ListsHandler) Register(r *gin.Engine, codec *tokens.Codec, th *TasksHandler) {
	g := r.Group("/lists", middleware.AccessGate(codec))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PATCH("/:listId", h.Update)
	g.DELETE("/:listId", h.Delete)
	th.register(g)
}

// List returns all lists owned by the authenticated user.
func (h *ListsHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	out, err := h.lists.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("list lists: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lists"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Create makes a new list owned by the authenticated user.
func (h *ListsHandler) Create(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetString(middleware.CtxUserID)
	l, err := h.lists.Create(c.Request.Context(), &models.List{Title: req.Title, UserID: userID})
	if err != nil {
		logger.Errorf("create list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create list"})
		return
	}
	c.JSON(http.StatusOK, l)
}

// Update changes the title of an owned list; 404 when the list does not exist
// or belongs to someone else.
func (h *ListsHandler) Update(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetString(middleware.CtxUserID)
	ok, err := h.lists.UpdateTitle(c.Request.Context(), c.Param("listId"), userID, req.Title)
	if err != nil {
		logger.Errorf("update list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update list"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated successfully"})
}

// Delete removes an owned list and cascades deletion of its tasks.
func (h *ListsHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	removed, err := h.lists.Delete(c.Request.Context(), c.Param("listId"), userID)
	if err != nil {
		logger.Errorf("delete list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete list"})
		return
	}
	if removed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
		return
	}
	n, err := h.tasks.DeleteByList(c.Request.Context(), removed.ID)
	if err != nil {
		logger.Errorf("cascade delete tasks for list %s: %v", removed.ID, err)
	} else if n > 0 {
		logger.Debugf("deleted %d tasks from list %s", n, removed.ID)
	}
	c.JSON(http.StatusOK, removed)
}
