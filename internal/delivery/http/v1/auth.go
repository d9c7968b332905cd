package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avgarcia/go-tasklist/internal/models"
	"github.com/avgarcia/go-tasklist/internal/services"
)

type indexView struct {
	User  *models.User
	Tasks []models.Task
	Error string
}

// renderIndex renders the task list for the current session. Anonymous
// requests get an empty list and the login form.
func (h *handlerImpl) renderIndex(c *gin.Context, status int, errorMessage string) {
	view := indexView{
		User:  currentUser(c),
		Error: errorMessage,
	}

	if view.User != nil {
		tasks, err := h.store.ListTasksForUser(c, view.User.ID)
		if err != nil {
			h.logger.Error().
				Err(err).
				Int64("user_id", view.User.ID).
				Msg("failed to list tasks")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		view.Tasks = tasks
	}

	c.HTML(status, "index.html", view)
}

func (h *handlerImpl) HandleIndex(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, "")
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	name := c.PostForm("user")
	password := c.PostForm("password")

	result, err := h.auth.Authenticate(c, name, password)
	if err != nil {
		// Validation and rejection render inline over the current
		// session's task list, without a redirect.
		switch {
		case errors.Is(err, services.ErrCredentialsRequired):
			h.renderIndex(c, http.StatusOK, msgTryAgain)
		case errors.Is(err, services.ErrPasswordTooShort):
			h.renderIndex(c, http.StatusOK, msgPasswordTooShort)
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			h.renderIndex(c, http.StatusOK, msgWrongPassword)
		case errors.Is(err, services.ErrUserAlreadyExists):
			h.renderIndex(c, http.StatusOK, msgUserExists)
		default:
			c.AbortWithStatus(http.StatusInternalServerError)
		}
		return
	}

	token, err := h.sessions.issue(result.User.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to issue session token")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	setSessionCookie(c, token, h.sessions.ttl)

	h.logger.Info().
		Int64("user_id", result.User.ID).
		Bool("registered", result.Registered).
		Msg("user logged in")
	c.Redirect(http.StatusFound, "/")
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	clearCookie(c, sessionCookie)
	c.Redirect(http.StatusFound, "/")
}
