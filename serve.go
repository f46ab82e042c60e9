package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Scalingo/projects-widget/controller"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the widget over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		githubService, err := newGithubService(cmd.Context(), *cfg)
		if err != nil {
			return err
		}

		page, err := loadPage(*cfg)
		if err != nil {
			return err
		}

		// setup server and define all routes
		gin.SetMode(gin.ReleaseMode)
		apiController := controller.NewAPIController(*cfg, githubService, page)

		server := &http.Server{
			Addr:              ":" + cfg.API.ListenPort,
			Handler:           controller.NewRouter(apiController),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// start with configuration
		go func() {
			log.Info("server listening on port " + cfg.API.ListenPort)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("error while starting server")
			}
		}()

		// wait for interrupt signal to gracefully shut down the server
		// kill default send syscall.SIGTERM
		// kill -2 is syscall.SIGINT
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("SIGINT, SIGTERM received, will shut down server ...")

		// the server has 15 seconds to finish the requests it is currently handling
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Server forced to shutdown")
			return err
		}

		log.Info("Application stopped gracefully !")
		return nil
	},
}
