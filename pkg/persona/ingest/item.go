package ingest

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Kind distinguishes the two activity variants.
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// RawItem is one activity record as returned by a fetcher, before cleaning.
type RawItem struct {
	ID          string  `json:"id"`
	Kind        Kind    `json:"kind"`
	Title       string  `json:"title,omitempty"`
	Body        string  `json:"body"`
	Tag         string  `json:"tag"`
	CreatedUTC  float64 `json:"created_utc"`
	Score       int     `json:"score"`
	Permalink   string  `json:"permalink"`
	UpvoteRatio float64 `json:"upvote_ratio,omitempty"`
	NumComments int     `json:"num_comments,omitempty"`
	ParentID    string  `json:"parent_id,omitempty"`
	ParentTitle string  `json:"parent_title,omitempty"`
}

// Validate checks the fields cleaning relies on.
func (r *RawItem) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: item id is required", internalerr.ErrInvalidInput)
	}
	if r.Kind != KindPost && r.Kind != KindComment {
		return fmt.Errorf("%w: item %s has unknown kind %q", internalerr.ErrInvalidInput, r.ID, r.Kind)
	}
	if math.IsNaN(r.CreatedUTC) || math.IsInf(r.CreatedUTC, 0) || r.CreatedUTC < 0 {
		return fmt.Errorf("%w: item %s has bad timestamp %v", internalerr.ErrInvalidInput, r.ID, r.CreatedUTC)
	}
	if !utf8.ValidString(r.Title) || !utf8.ValidString(r.Body) {
		return fmt.Errorf("%w: item %s is not valid UTF-8", internalerr.ErrInvalidInput, r.ID)
	}
	return nil
}

// Snapshot is the result of a single fetch for one subject.
type Snapshot struct {
	Subject           string    `json:"subject"`
	AccountCreatedUTC float64   `json:"account_created_utc,omitempty"`
	PostKarma         int       `json:"post_karma"`
	CommentKarma      int       `json:"comment_karma"`
	FetchedAt         time.Time `json:"fetched_at"`
	Posts             []RawItem `json:"-"`
	Comments          []RawItem `json:"-"`
}

// AccountAgeDays returns the account age relative to now, or 0 when the
// creation time is unknown.
func (s Snapshot) AccountAgeDays(now time.Time) float64 {
	if s.AccountCreatedUTC <= 0 {
		return 0
	}
	age := float64(now.Unix()) - s.AccountCreatedUTC
	if age < 0 {
		return 0
	}
	return age / 86400
}

// Item is a cleaned activity unit.
type Item struct {
	Kind        Kind
	ID          string
	Title       string
	Body        string
	Tag         string
	CreatedUTC  float64
	Score       int
	Permalink   string
	ParentTitle string
	UpvoteRatio float64
	NumComments int
	Sentiment   string
}

// CreatedAt converts the fractional epoch timestamp.
func (it Item) CreatedAt() time.Time {
	sec, frac := math.Modf(it.CreatedUTC)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// Text is the content used for overlap matching: title and body together.
func (it Item) Text() string {
	if it.Title == "" {
		return it.Body
	}
	return it.Title + " " + it.Body
}
