package feed

import (
	"slices"

	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/pkg/formatter"
)

const (
	// PreviewSize is how many stories a collapsed section shows.
	PreviewSize = 4
	// SummaryWords caps cover heading and description in listings.
	SummaryWords = 8
)

// Selection is the set of categories a chat filters its feed by. The zero
// value selects everything.
type Selection struct {
	selected []string
}

func NewSelection(categories ...string) Selection {
	var s Selection
	for _, c := range categories {
		if domain.IsCategory(c) && !slices.Contains(s.selected, c) {
			s.selected = append(s.selected, c)
		}
	}
	return s
}

// Toggle picks "All" exclusively, or adds or removes a single category.
// Removing the last category falls back to "All".
func (s Selection) Toggle(category string) Selection {
	if category == domain.CategoryAll {
		return Selection{}
	}
	if !domain.IsCategory(category) {
		return s
	}

	if i := slices.Index(s.selected, category); i >= 0 {
		return Selection{selected: slices.Delete(slices.Clone(s.selected), i, i+1)}
	}
	return Selection{selected: append(slices.Clone(s.selected), category)}
}

func (s Selection) All() bool {
	return len(s.selected) == 0
}

func (s Selection) Has(category string) bool {
	if category == domain.CategoryAll {
		return s.All()
	}
	return slices.Contains(s.selected, category)
}

// Categories lists what to fetch, in display order.
func (s Selection) Categories() []string {
	if s.All() {
		return slices.Clone(domain.Categories)
	}
	var out []string
	for _, c := range domain.Categories {
		if slices.Contains(s.selected, c) {
			out = append(out, c)
		}
	}
	return out
}

// Section is one category of the feed.
type Section struct {
	Category string
	Stories  []domain.Story
	Expanded bool
	Failed   bool
}

func (s Section) Visible() []domain.Story {
	if s.Expanded || len(s.Stories) <= PreviewSize {
		return s.Stories
	}
	return s.Stories[:PreviewSize]
}

func (s Section) HasMore() bool {
	return !s.Expanded && len(s.Stories) > PreviewSize
}

// Summary is the truncated cover text shown in listings.
func Summary(story domain.Story) (heading, description string) {
	cover, ok := story.Cover()
	if !ok {
		return "", ""
	}
	return formatter.TruncateWords(cover.Heading, SummaryWords), formatter.TruncateWords(cover.Description, SummaryWords)
}
