package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Scalingo/projects-widget/config"
	"github.com/Scalingo/projects-widget/model"
	"github.com/google/go-github/v66/github"
	githubMock "github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestGithubService(httpClient *http.Client, rateLimit int) GithubService {
	mockedRateLimiter := rate.NewLimiter(rate.Every(time.Hour), rateLimit)
	conf := config.GetDefault()
	conf.Github.Username = "octocat"

	return NewGithubService(*conf, github.NewClient(httpClient), mockedRateLimiter)
}

// TestFetchProjects will test function FetchProjects
func TestFetchProjects(t *testing.T) {
	tests := []struct {
		name              string
		sortKey           model.SortKey
		handler           func(w http.ResponseWriter, r *http.Request)
		expectedSort      string
		expectedDirection string
		expectedRecords   []model.RepositoryRecord
		expectedKind      model.FetchErrorKind
		expectedStatus    int
		expectedErrMsg    string
		expectError       bool
	}{
		{
			name:              "Single repository with null fields",
			sortKey:           model.SortUpdated,
			expectedSort:      "updated",
			expectedDirection: "desc",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"name":"repo1","description":null,"language":null,"html_url":"https://x/repo1","stargazers_count":0,"forks_count":0}]`))
			},
			expectedRecords: []model.RepositoryRecord{
				{Name: "repo1", HTMLURL: "https://x/repo1"},
			},
		},
		{
			name:              "Alphabetical sort is ascending and order is kept",
			sortKey:           model.SortFullName,
			expectedSort:      "full_name",
			expectedDirection: "asc",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(githubMock.MustMarshal([]github.Repository{
					{Name: github.String("beta"), Language: github.String("Go"), HTMLURL: github.String("https://github.com/octocat/beta"), StargazersCount: github.Int(5), ForksCount: github.Int(1)},
					{Name: github.String("alpha"), Description: github.String("first"), HTMLURL: github.String("https://github.com/octocat/alpha")},
				}))
			},
			expectedRecords: []model.RepositoryRecord{
				{Name: "beta", Language: github.String("Go"), HTMLURL: "https://github.com/octocat/beta", StargazersCount: 5, ForksCount: 1},
				{Name: "alpha", Description: github.String("first"), HTMLURL: "https://github.com/octocat/alpha"},
			},
		},
		{
			name:              "Empty list",
			sortKey:           model.SortPushed,
			expectedSort:      "pushed",
			expectedDirection: "desc",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[]`))
			},
			expectedRecords: []model.RepositoryRecord{},
		},
		{
			name:    "Rate limited by github",
			sortKey: model.SortCreated,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				githubMock.WriteError(w, http.StatusForbidden, "API rate limit exceeded")
			},
			expectError:    true,
			expectedKind:   model.FetchErrorHTTP,
			expectedStatus: http.StatusForbidden,
			expectedErrMsg: "GitHub API rate limit exceeded. Please try again later.",
		},
		{
			name:    "User not found",
			sortKey: model.SortUpdated,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				githubMock.WriteError(w, http.StatusNotFound, "Not Found")
			},
			expectError:    true,
			expectedKind:   model.FetchErrorHTTP,
			expectedStatus: http.StatusNotFound,
			expectedErrMsg: `User "octocat" not found.`,
		},
		{
			name:    "Generic http error",
			sortKey: model.SortUpdated,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				githubMock.WriteError(w, http.StatusServiceUnavailable, "unavailable")
			},
			expectError:    true,
			expectedKind:   model.FetchErrorHTTP,
			expectedStatus: http.StatusServiceUnavailable,
			expectedErrMsg: "HTTP Error: 503",
		},
		{
			name:    "Body is not json",
			sortKey: model.SortUpdated,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>oops</html>`))
			},
			expectError:    true,
			expectedKind:   model.FetchErrorDecode,
			expectedErrMsg: "Unable to decode the GitHub API response.",
		},
		{
			name:    "Body is not an array",
			sortKey: model.SortUpdated,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"name":"repo1"}`))
			},
			expectError:    true,
			expectedKind:   model.FetchErrorDecode,
			expectedErrMsg: "Unable to decode the GitHub API response.",
		},
		{
			name:    "Body is null",
			sortKey: model.SortUpdated,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`null`))
			},
			expectError:    true,
			expectedKind:   model.FetchErrorDecode,
			expectedErrMsg: "Unable to decode the GitHub API response.",
		},
		{
			name:    "Body is empty",
			sortKey: model.SortUpdated,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			expectError:    true,
			expectedKind:   model.FetchErrorDecode,
			expectedErrMsg: "Unable to decode the GitHub API response.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockedHTTPClient := githubMock.NewMockedHTTPClient(
				githubMock.WithRequestMatchHandler(
					githubMock.GetUsersReposByUsername,
					http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
						if tt.expectedSort != "" {
							assert.Equal(t, tt.expectedSort, r.URL.Query().Get("sort"))
							assert.Equal(t, tt.expectedDirection, r.URL.Query().Get("direction"))
						}

						tt.handler(w, r)
					}),
				),
			)

			svc := newTestGithubService(mockedHTTPClient, 60)
			records, err := svc.FetchProjects(context.Background(), tt.sortKey)

			if !tt.expectError {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedRecords, records)
				return
			}

			require.Error(t, err)
			assert.Nil(t, records)
			assert.EqualError(t, err, tt.expectedErrMsg)

			var fetchErr *model.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, tt.expectedKind, fetchErr.Kind)
			assert.Equal(t, tt.expectedStatus, fetchErr.Status)
		})
	}
}

// TestFetchProjectsNetworkError checks a transport failure is reported as a network error
func TestFetchProjectsNetworkError(t *testing.T) {
	httpClient := &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: connection refused")
		}),
	}

	svc := newTestGithubService(httpClient, 60)
	records, err := svc.FetchProjects(context.Background(), model.SortUpdated)

	require.Error(t, err)
	assert.Nil(t, records)

	var fetchErr *model.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, model.FetchErrorNetwork, fetchErr.Kind)
}

// TestFetchProjectsLocalRateLimit checks an exhausted local limiter answers without calling github
func TestFetchProjectsLocalRateLimit(t *testing.T) {
	calls := 0
	mockedHTTPClient := githubMock.NewMockedHTTPClient(
		githubMock.WithRequestMatchHandler(
			githubMock.GetUsersReposByUsername,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls++
				_, _ = w.Write([]byte(`[]`))
			}),
		),
	)

	svc := newTestGithubService(mockedHTTPClient, 1)

	_, err := svc.FetchProjects(context.Background(), model.SortUpdated)
	require.NoError(t, err)

	_, err = svc.FetchProjects(context.Background(), model.SortUpdated)
	require.Error(t, err)
	assert.EqualError(t, err, "GitHub API rate limit exceeded. Please try again later.")
	assert.Equal(t, 1, calls)
}

// TestHandleRequestErrors checks a github rate limit error drains the local limiter
func TestHandleRequestErrors(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 10)
	conf := config.GetDefault()
	svc := NewGithubService(*conf, github.NewClient(nil), limiter)

	err := svc.HandleRequestErrors(&github.RateLimitError{
		Response: &http.Response{
			StatusCode: http.StatusForbidden,
			Request:    httptest.NewRequest(http.MethodGet, "https://api.github.com/users/octocat/repos", nil),
		},
		Message:  "API rate limit exceeded",
	})

	var fetchErr *model.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusForbidden, fetchErr.Status)
	assert.False(t, limiter.Allow())
}
