package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Scalingo/projects-widget/config"
	"github.com/Scalingo/projects-widget/controller"
	"github.com/Scalingo/projects-widget/model"
	"github.com/Scalingo/projects-widget/service"
	"github.com/Scalingo/projects-widget/store"
	"github.com/Scalingo/projects-widget/view"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
)

const indexFile = "index.html"

type ExportService interface {
	// Export writes one page per sort key into outDir and returns the written files
	Export(ctx context.Context, outDir string) ([]string, error)
	ExportSortKey(ctx context.Context, outDir string, sortKey model.SortKey, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- ExportResult)
}

type ExportResult struct {
	SortKey model.SortKey
	Files   []string
	Err     error
}

type exportService struct {
	config      config.Config
	fetcher     controller.ProjectFetcher
	preferences store.PreferenceStore
	page        *view.Document
}

// NewExportService renders static pages from page, the theme is read from
// preferences and the platform signal comes from the configuration
func NewExportService(config config.Config, fetcher controller.ProjectFetcher, preferences store.PreferenceStore, page *view.Document) ExportService {
	return exportService{
		config:      config,
		fetcher:     fetcher,
		preferences: preferences,
		page:        page,
	}
}

func (s exportService) Export(ctx context.Context, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// pages are rendered in parallel, each one issues a single github request
	swg := sizedwaitgroup.New(s.config.Tasks.MaxParallelTasksAllowed)
	results := make(chan ExportResult, len(model.SortKeys))

	for _, k := range model.SortKeys {
		swg.Add()
		go s.ExportSortKey(ctx, outDir, k, &swg, results)
	}

	log.Debug("waiting for all pages to be exported")
	swg.Wait()
	close(results)

	var files []string
	var firstErr error

	for result := range results {
		if result.Err != nil {
			log.WithError(result.Err).WithField("sort", result.SortKey).Error("unable to export page")

			if firstErr == nil {
				firstErr = result.Err
			}
			continue
		}

		files = append(files, result.Files...)
	}

	sort.Strings(files)

	return files, firstErr
}

// ExportSortKey renders the page of a single sort key and sends the outcome to ch.
// A failed fetch still produces a page showing the error message.
func (s exportService) ExportSortKey(ctx context.Context, outDir string, sortKey model.SortKey, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- ExportResult) {
	defer swg.Done()

	doc := s.page.Clone()
	doc.SelectSort(sortKey)

	themes := service.NewThemeStore(doc, s.preferences, func() bool {
		return s.config.Theme.PreferDark
	})

	widget, err := controller.NewWidgetController(doc, themes, s.fetcher)
	if err != nil {
		ch <- ExportResult{SortKey: sortKey, Err: err}
		return
	}

	if err := widget.Load(ctx); err != nil {
		log.WithError(err).WithField("sort", sortKey).Warning("page exported with an error message")
	}

	var page bytes.Buffer
	if err := widget.Render(&page); err != nil {
		ch <- ExportResult{SortKey: sortKey, Err: fmt.Errorf("failed to render %s page: %w", sortKey, err)}
		return
	}

	names := []string{string(sortKey) + ".html"}
	if sortKey == model.DefaultSortKey {
		names = append(names, indexFile)
	}

	var files []string
	for _, name := range names {
		path := filepath.Join(outDir, name)

		if err := os.WriteFile(path, page.Bytes(), 0o644); err != nil {
			ch <- ExportResult{SortKey: sortKey, Err: fmt.Errorf("failed to write %s: %w", path, err)}
			return
		}

		files = append(files, path)
	}

	log.WithFields(log.Fields{
		"sort":  sortKey,
		"files": files,
	}).Info("page exported")

	ch <- ExportResult{SortKey: sortKey, Files: files}
}
