package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"taskmatrix/internal/config"
	v1 "taskmatrix/internal/delivery/http/v1"
	"taskmatrix/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Storage.MaxUploadSize
	registerRoutes(router)

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: corsWrapper.Handler(router),
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()

	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)
	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)
	taskService := services.NewTaskService(
		globalLogger,
		globalPostgresPool,
		globalFileStore,
		cfg.Tasks.RejectPastDeadline,
	)
	attachmentService := services.NewAttachmentService(
		globalLogger,
		globalPostgresPool,
		globalFileStore,
		taskService,
	)

	handler := v1.New(
		globalLogger,
		authService,
		sessionService,
		taskService,
		attachmentService,
		globalFileStore,
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	api := router.Group("/api/v1")

	authRouter := api.Group("/auth")
	authRouter.POST("/login", handler.HandleLogin)
	authRouter.POST("/refresh", handler.HandleRefresh)
	authRouter.POST("/register", handler.HandleRegister)
	authRouter.POST("/logout", handler.HandleAuthMiddleware, handler.HandleLogout)

	api.GET("/me", handler.HandleAuthMiddleware, handler.HandleMe)

	taskRouter := api.Group("/tasks", handler.HandleAuthMiddleware)
	taskRouter.POST("", handler.HandleCreateTask)
	taskRouter.GET("", handler.HandleListTasks)
	taskRouter.GET("/matrix", handler.HandleMatrix)
	taskRouter.GET("/:id", handler.HandleGetTask)
	taskRouter.PUT("/:id", handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", handler.HandleSoftDeleteTask)
	taskRouter.POST("/:id/complete", handler.HandleCompleteTask)
	taskRouter.POST("/:id/reopen", handler.HandleReopenTask)
	taskRouter.POST("/:id/restore", handler.HandleRestoreTask)
	taskRouter.DELETE("/:id/purge", handler.HandlePurgeTask)
	taskRouter.POST("/:id/attachments", handler.HandleAddAttachment)
	taskRouter.GET("/:id/attachments", handler.HandleListAttachments)
	taskRouter.GET("/:id/attachments/:name", handler.HandleDownloadAttachment)
	taskRouter.DELETE("/:id/attachments/:name", handler.HandleRemoveAttachment)
}
