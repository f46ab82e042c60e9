package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Scalingo/projects-widget/config"
	"github.com/Scalingo/projects-widget/logger"
	"github.com/Scalingo/projects-widget/service"
	"github.com/Scalingo/projects-widget/view"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "projects-widget",
	Short: "Display the public repositories of a GitHub user",
	Long: `projects-widget renders the public repositories of a GitHub user as a card list,
with a light/dark theme persisted across sessions and a selectable sort order.

It can serve the widget over HTTP or export it as static pages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}

		if err != nil {
			log.WithError(err).Warning("unable to load configuration, using defaults")
			cfg = config.GetDefault()
		}

		// configure logger
		logger.Setup(*cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the TOML configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(themeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newGithubService sets up the github client and a local rate limiter seeded
// with the quota github reports
func newGithubService(ctx context.Context, cfg config.Config) (service.GithubService, error) {
	// we do here and pass the client to Github service to easily improve tests with mock client
	githubClient := github.NewClient(nil)

	if cfg.Github.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.Github.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github base url: %w", err)
		}
		githubClient.BaseURL = baseURL
	}

	limit, remaining := cfg.Github.RateLimitPerHour, cfg.Github.RateLimitPerHour

	// execute first request to github to fetch current rate limits
	log.Debug("loading current rate limit from github")
	rateLimits, _, err := githubClient.RateLimit.Get(ctx)
	if err != nil {
		log.WithError(err).Warning("unable to load current github rate limits, using configured limit")
	} else if rateLimits.Core != nil {
		limit, remaining = rateLimits.Core.Limit, rateLimits.Core.Remaining
	}

	log.WithFields(log.Fields{
		"totalAvailable":    limit,
		"remainingRequests": remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	// consume X tokens according to the number of remaining tokens
	// this help us to have a right rate limiter even if external requests are made
	rateLimiter := rate.NewLimiter(rate.Every(time.Hour/time.Duration(max(limit, 1))), limit)
	rateLimiter.AllowN(time.Now(), limit-remaining)

	return service.NewGithubService(cfg, githubClient, rateLimiter), nil
}

// loadPage returns the page skeleton, read from the configured template if any
func loadPage(cfg config.Config) (*view.Document, error) {
	if cfg.API.PageTemplate == "" {
		return view.NewDocument(view.PageOptions{Username: cfg.Github.Username}), nil
	}

	f, err := os.Open(cfg.API.PageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to open page template: %w", err)
	}
	defer f.Close()

	page, err := view.ParseDocument(f)
	if err != nil {
		return nil, err
	}

	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("invalid page template %s: %w", cfg.API.PageTemplate, err)
	}

	return page, nil
}
