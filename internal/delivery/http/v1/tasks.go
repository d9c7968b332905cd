package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleAddTask(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	description := c.PostForm("description_task")
	_, err := h.tasks.AddTask(c, user, description)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	taskID := c.PostForm("task_id")
	_, err := h.tasks.RemoveTask(c, user, taskID)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, "/")
}
