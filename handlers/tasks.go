package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/taskhub/api/internal/lists"
	"github.com/taskhub/taskhub/api/internal/models"
	"github.com/taskhub/taskhub/api/internal/tasks"
	"github.com/taskhub/taskhub/api/pkg/logger"
	"github.com/taskhub/taskhub/api/pkg/middleware"
)

// TasksHandler serves task endpoints nested under a list. Ownership is always
// established through the parent list before touching any task.
type TasksHandler struct {
	lists lists.Repository
	tasks tasks.Repository
}

func NewTasksHandler(l lists.Repository, t tasks.Repository) *TasksHandler {
	return &TasksHandler{lists: l, tasks: t}
}

// register attaches task routes to the access-gated /lists group.
func (h *TasksHandler) register(g *gin.RouterGroup) {
	g.GET("/:listId/tasks", h.List)
	g.POST("/:listId/tasks", h.Create)
	g.GET("/:listId/tasks/:taskId", h.Get)
	g.PATCH("/:listId/tasks/:taskId", h.Update)
	g.DELETE("/:listId/tasks/:taskId", h.Delete)
}

// ownedList resolves the list for the authenticated user or writes a 404.
func (h *TasksHandler) ownedList(c *gin.Context) *models.List {
	userID := c.GetString(middleware.CtxUserID)
	l, err := h.lists.GetByIDAndOwner(c.Request.Context(), c.Param("listId"), userID)
	if err != nil {
		logger.Errorf("lookup list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load list"})
		return nil
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
		return nil
	}
	return l
}

func (h *TasksHandler) List(c *gin.Context) {
	l := h.ownedList(c)
	if l == nil {
		return
	}
	out, err := h.tasks.ListByList(c.Request.Context(), l.ID)
	if err != nil {
		logger.Errorf("list tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *TasksHandler) Create(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l := h.ownedList(c)
	if l == nil {
		return
	}
	t, err := h.tasks.Create(c.Request.Context(), &models.Task{Title: req.Title, ListID: l.ID})
	if err != nil {
		logger.Errorf("create task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TasksHandler) Get(c *gin.Context) {
	l := h.ownedList(c)
	if l == nil {
		return
	}
	t, err := h.tasks.GetByIDAndList(c.Request.Context(), c.Param("taskId"), l.ID)
	if err != nil {
		logger.Errorf("get task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load task"})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TasksHandler) Update(c *gin.Context) {
	var req struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l := h.ownedList(c)
	if l == nil {
		return
	}
	ok, err := h.tasks.Patch(c.Request.Context(), c.Param("taskId"), l.ID, tasks.Update{Title: req.Title, Completed: req.Completed})
	if err != nil {
		logger.Errorf("update task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated successfully"})
}

func (h *TasksHandler) Delete(c *gin.Context) {
	l := h.ownedList(c)
	if l == nil {
		return
	}
	removed, err := h.tasks.Delete(c.Request.Context(), c.Param("taskId"), l.ID)
	if err != nil {
		logger.Errorf("delete task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	if removed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, removed)
}
