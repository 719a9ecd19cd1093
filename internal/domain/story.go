package domain

import "time"

const (
	MinSlides = 3
	MaxSlides = 6
)

// ContentKind is advisory: it is inferred from the content URL and never
// verified against the media itself.
type ContentKind string

const (
	ContentImage   ContentKind = "image"
	ContentVideo   ContentKind = "video"
	ContentUnknown ContentKind = "unknown"
)

type Slide struct {
	ID          string      `json:"_id,omitempty"`
	Heading     string      `json:"heading" validate:"max=100"`
	Description string      `json:"description" validate:"max=1000"`
	Content     string      `json:"content" validate:"required"`
	Kind        ContentKind `json:"type" validate:"omitempty,oneof=image video unknown"`
	Category    string      `json:"category" validate:"required,category"`
	Likes       []string    `json:"likes,omitempty"`
}

// LikeCount is the server-provided number of likes.
func (s Slide) LikeCount() int {
	return len(s.Likes)
}

type Story struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title,omitempty"`
	Category  string    `json:"category,omitempty"`
	Slides    []Slide   `json:"slides"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Cover is the first slide, used for feed previews.
func (s Story) Cover() (Slide, bool) {
	if len(s.Slides) == 0 {
		return Slide{}, false
	}
	return s.Slides[0], true
}

// NewStory is the payload of the add-story form.
type NewStory struct {
	Title  string  `json:"title" validate:"omitempty,max=120"`
	Slides []Slide `json:"slides" validate:"min=3,max=6,dive"`
}
