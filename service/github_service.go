package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Scalingo/projects-widget/config"
	"github.com/Scalingo/projects-widget/model"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type GithubService interface {
	FetchProjects(ctx context.Context, sortKey model.SortKey) ([]model.RepositoryRecord, error)

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	config            config.Config
}

// the rate limiter mirrors the github quota of the process so an exhausted
// quota is reported without spending a request
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
	}
}

// FetchProjects lists the public repositories of the configured user, sorted by
// github. Only the first page is requested and nothing is retried.
func (s githubService) FetchProjects(ctx context.Context, sortKey model.SortKey) ([]model.RepositoryRecord, error) {
	username := s.config.Github.Username

	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Wait until the limit reset")
		return nil, model.NewHTTPError(http.StatusForbidden, username, errors.New("local rate limiter exhausted"))
	}

	log.WithFields(log.Fields{
		"username":  username,
		"sort":      sortKey,
		"direction": sortKey.Direction(),
	}).Info("fetch repositories from github")

	repos, _, err := s.githubClient.Repositories.ListByUser(ctx, username, &github.RepositoryListByUserOptions{
		Sort:      string(sortKey),
		Direction: string(sortKey.Direction()),
	})

	if err != nil {
		return nil, s.HandleRequestErrors(err)
	}

	// an empty list decodes to a non nil slice, null or an empty body leave it nil
	if repos == nil {
		return nil, model.NewDecodeError(errors.New("response body is not a JSON array"))
	}

	records := make([]model.RepositoryRecord, 0, len(repos))

	for _, r := range repos {
		if r == nil {
			log.Debug("null repository found in github response. skipped")
			continue
		}

		records = append(records, model.NewRepositoryRecord(r))
	}

	log.WithField("numberOfRepositories", len(records)).Debug("repositories fetched from github")

	return records, nil
}

// HandleRequestErrors classifies a failed github call into a fetch error.
// A github rate limit error also drains the local rate limiter so it stays in sync.
func (s githubService) HandleRequestErrors(err error) error {
	username := s.config.Github.Username

	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst())

		log.Warning("the Github rate limit has been reached. Wait until the limit reset")
		return model.NewHTTPError(http.StatusForbidden, username, err)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		log.Warning("the Github secondary rate limit has been reached")
		return model.NewHTTPError(http.StatusForbidden, username, err)
	}

	var responseErr *github.ErrorResponse
	if errors.As(err, &responseErr) && responseErr.Response != nil {
		log.WithFields(log.Fields{
			"status":   responseErr.Response.StatusCode,
			"username": username,
		}).Warning("github answered with an error status")

		return model.NewHTTPError(responseErr.Response.StatusCode, username, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		log.WithError(err).Error("unable to decode github response")
		return model.NewDecodeError(err)
	}

	log.WithError(err).Error("error catched when fetching data from github")
	return model.NewNetworkError(err)
}
