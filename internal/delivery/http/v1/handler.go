package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avgarcia/go-tasklist/internal/services"
	"github.com/avgarcia/go-tasklist/internal/storage"
)

type Handler interface {
	HandleSessionMiddleware(c *gin.Context)

	HandleIndex(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleLogout(c *gin.Context)

	HandleAddTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	store    storage.Store
	auth     services.AuthService
	tasks    services.TaskService
	sessions sessionCodec
}

func New(
	logger zerolog.Logger,
	store storage.Store,
	authService services.AuthService,
	taskService services.TaskService,
	sessionIssuer string,
	sessionSigningKey []byte,
	sessionTTL time.Duration,
) Handler {
	return &handlerImpl{
		logger: logger,
		store:  store,
		auth:   authService,
		tasks:  taskService,
		sessions: sessionCodec{
			issuer:     sessionIssuer,
			signingKey: sessionSigningKey,
			ttl:        sessionTTL,
		},
	}
}

func RegisterRoutes(router *gin.Engine, h Handler) {
	router.SetHTMLTemplate(templates())
	router.Use(h.HandleSessionMiddleware)

	router.GET("/", h.HandleIndex)
	router.POST("/", h.HandleLogin)
	router.POST("/add_task", h.HandleAddTask)
	router.POST("/delete_task", h.HandleDeleteTask)
	router.POST("/logout", h.HandleLogout)
}
