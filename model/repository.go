package model

import "github.com/google/go-github/v66/github"

const (
	DefaultDescription = "No description provided."
	DefaultLanguage    = "N/A"
)

// RepositoryRecord is the subset of a GitHub repository the widget displays.
// Description and language are nil for repositories without them.
type RepositoryRecord struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Language        *string `json:"language"`
	HTMLURL         string  `json:"html_url"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
}

// NewRepositoryRecord extracts the displayed fields from a go-github repository.
func NewRepositoryRecord(r *github.Repository) RepositoryRecord {
	return RepositoryRecord{
		Name:            r.GetName(),
		Description:     r.Description,
		Language:        r.Language,
		HTMLURL:         r.GetHTMLURL(),
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
	}
}

func (r RepositoryRecord) DescriptionOrDefault() string {
	if r.Description == nil || *r.Description == "" {
		return DefaultDescription
	}

	return *r.Description
}

func (r RepositoryRecord) LanguageOrDefault() string {
	if r.Language == nil || *r.Language == "" {
		return DefaultLanguage
	}

	return *r.Language
}
