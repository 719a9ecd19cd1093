package feed

import (
	"context"
	"sync"

	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/internal/storyapi"
	"github.com/orgball2608/stories-telegram-bot/pkg/errors"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

const defaultWorkers = 5

type Opts struct {
	fx.In

	API    storyapi.Client
	Logger logger.Logger
}

type Service struct {
	api     storyapi.Client
	logger  logger.Logger
	workers int
}

func New(opts Opts) *Service {
	return &Service{
		api:     opts.API,
		logger:  opts.Logger.WithComponent("Feed"),
		workers: defaultWorkers,
	}
}

// Load fetches every selected category concurrently. A category that fails
// to load comes back empty and marked as failed; not-found means empty.
func (s *Service) Load(ctx context.Context, sel Selection) []Section {
	categories := sel.Categories()
	sections := make([]Section, len(categories))
	for i, c := range categories {
		sections[i].Category = c
	}

	pool, err := ants.NewPool(s.workers, ants.WithPreAlloc(true))
	if err != nil {
		s.logger.Error("Failed to create worker pool", "error", err)
		for i := range sections {
			s.fetch(ctx, &sections[i])
		}
		return sections
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range sections {
		wg.Add(1)
		section := &sections[i]

		err := pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				section.Failed = true
			default:
				s.fetch(ctx, section)
			}
		})
		if err != nil {
			wg.Done()
			section.Failed = true
			s.logger.Error("Failed to submit feed job", "category", section.Category, "error", err)
		}
	}

	wg.Wait()
	return sections
}

func (s *Service) fetch(ctx context.Context, section *Section) {
	stories, err := s.api.StoriesByCategory(ctx, section.Category)
	if err != nil {
		if errors.IsNotFound(err) {
			return
		}
		section.Failed = true
		s.logger.Error("Failed to load category", "category", section.Category, "error", err)
		return
	}
	section.Stories = stories
}

// Mine lists the stories of the session's user. Missing or rejected
// credentials read as an empty list.
func (s *Service) Mine(ctx context.Context, token string) ([]domain.Story, error) {
	return s.personal(ctx, token, s.api.MyStories)
}

func (s *Service) Bookmarked(ctx context.Context, token string) ([]domain.Story, error) {
	return s.personal(ctx, token, s.api.Bookmarks)
}

func (s *Service) personal(ctx context.Context, token string, fetch func(context.Context, string) ([]domain.Story, error)) ([]domain.Story, error) {
	stories, err := fetch(ctx, token)
	if err != nil {
		if errors.IsNotFound(err) || errors.IsUnauthorized(err) {
			return nil, nil
		}
		return nil, err
	}
	return stories, nil
}
