package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cognicore/persona/pkg/persona/ingest"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

const (
	DefaultBaseURL = "https://www.reddit.com"
	permalinkHost  = "https://reddit.com"
	maxPageSize    = 100
)

// Limits caps how many items of each kind are fetched.
type Limits struct {
	MaxPosts    int
	MaxComments int
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	Timeout           time.Duration
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

// Client reads a user's public activity from the JSON listing endpoints.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
	now       func() time.Time
}

// NewClient creates a fetcher. Requests are paced by a token bucket of
// RequestsPerSecond with a burst of one.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		http:      opts.HTTPClient,
		logger:    opts.Logger,
		now:       time.Now,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	return c
}

type about struct {
	Data struct {
		Name         string  `json:"name"`
		CreatedUTC   float64 `json:"created_utc"`
		LinkKarma    int     `json:"link_karma"`
		CommentKarma int     `json:"comment_karma"`
		IsSuspended  bool    `json:"is_suspended"`
	} `json:"data"`
}

type listing struct {
	Data struct {
		After    string  `json:"after"`
		Children []child `json:"children"`
	} `json:"data"`
}

type child struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// thing holds the fields read from both t3 (post) and t1 (comment) data.
type thing struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Title        string  `json:"title"`
	Selftext     string  `json:"selftext"`
	SelftextHTML string  `json:"selftext_html"`
	Body         string  `json:"body"`
	BodyHTML     string  `json:"body_html"`
	Subreddit    string  `json:"subreddit"`
	CreatedUTC   float64 `json:"created_utc"`
	Score        int     `json:"score"`
	UpvoteRatio  float64 `json:"upvote_ratio"`
	NumComments  int     `json:"num_comments"`
	Permalink    string  `json:"permalink"`
	ParentID     string  `json:"parent_id"`
	LinkTitle    string  `json:"link_title"`
}

// FetchSubject fetches the account summary, then up to the limits of
// submitted posts and comments, newest first.
func (c *Client) FetchSubject(ctx context.Context, subject string, lim Limits) (ingest.Snapshot, error) {
	if subject == "" {
		return ingest.Snapshot{}, fmt.Errorf("%w: empty username", internalerr.ErrInvalidInput)
	}

	var acct about
	if err := c.getJSON(ctx, c.userURL(subject, "about", nil), &acct); err != nil {
		return ingest.Snapshot{}, fmt.Errorf("fetch profile %s: %w", subject, err)
	}
	if acct.Data.IsSuspended {
		return ingest.Snapshot{}, fmt.Errorf("%w: account %s is suspended", internalerr.ErrForbidden, subject)
	}

	snap := ingest.Snapshot{
		Subject:           subject,
		AccountCreatedUTC: acct.Data.CreatedUTC,
		PostKarma:         acct.Data.LinkKarma,
		CommentKarma:      acct.Data.CommentKarma,
		FetchedAt:         c.now().UTC(),
	}

	var err error
	if snap.Posts, err = c.collect(ctx, subject, "submitted", ingest.KindPost, lim.MaxPosts); err != nil {
		return ingest.Snapshot{}, err
	}
	if snap.Comments, err = c.collect(ctx, subject, "comments", ingest.KindComment, lim.MaxComments); err != nil {
		return ingest.Snapshot{}, err
	}

	c.logger.Info("fetched activity",
		zap.String("subject", subject),
		zap.Int("posts", len(snap.Posts)),
		zap.Int("comments", len(snap.Comments)),
	)
	return snap, nil
}

// collect pages through one listing. Not-found and forbidden responses are
// returned; transient failures end paging and keep what was fetched.
func (c *Client) collect(ctx context.Context, subject, section string, kind ingest.Kind, limit int) ([]ingest.RawItem, error) {
	var items []ingest.RawItem
	after := ""
	for len(items) < limit {
		size := limit - len(items)
		if size > maxPageSize {
			size = maxPageSize
		}
		q := url.Values{"limit": {strconv.Itoa(size)}}
		if after != "" {
			q.Set("after", after)
		}

		var page listing
		err := c.getJSON(ctx, c.userURL(subject, section, q), &page)
		if err != nil {
			if errors.Is(err, internalerr.ErrTransient) {
				c.logger.Warn("listing page failed, keeping partial results",
					zap.String("section", section),
					zap.Int("fetched", len(items)),
					zap.Error(err),
				)
				return items, nil
			}
			return nil, fmt.Errorf("fetch %s for %s: %w", section, subject, err)
		}

		for _, ch := range page.Data.Children {
			if len(items) == limit {
				break
			}
			item, err := decodeChild(ch, kind)
			if err != nil {
				c.logger.Warn("skipping malformed listing entry", zap.String("section", section), zap.Error(err))
				continue
			}
			items = append(items, item)
		}

		if page.Data.After == "" || len(page.Data.Children) == 0 {
			break
		}
		after = page.Data.After
	}
	return items, nil
}

func decodeChild(ch child, kind ingest.Kind) (ingest.RawItem, error) {
	var t thing
	if err := json.Unmarshal(ch.Data, &t); err != nil {
		return ingest.RawItem{}, fmt.Errorf("%w: decode %s: %v", internalerr.ErrInvalidInput, ch.Kind, err)
	}
	if t.ID == "" {
		return ingest.RawItem{}, fmt.Errorf("%w: %s entry without id", internalerr.ErrInvalidInput, ch.Kind)
	}

	item := ingest.RawItem{
		ID:         t.ID,
		Kind:       kind,
		Tag:        t.Subreddit,
		CreatedUTC: t.CreatedUTC,
		Score:      t.Score,
		ParentID:   t.ParentID,
	}
	if t.Permalink != "" {
		item.Permalink = permalinkHost + t.Permalink
	}

	switch kind {
	case ingest.KindPost:
		item.Title = t.Title
		item.Body = t.Selftext
		if item.Body == "" && t.SelftextHTML != "" {
			item.Body = stripHTML(t.SelftextHTML)
		}
		item.UpvoteRatio = t.UpvoteRatio
		item.NumComments = t.NumComments
	case ingest.KindComment:
		item.Body = t.Body
		if item.Body == "" && t.BodyHTML != "" {
			item.Body = stripHTML(t.BodyHTML)
		}
		item.ParentTitle = t.LinkTitle
	}
	return item, nil
}

func (c *Client) userURL(subject, section string, q url.Values) string {
	u := fmt.Sprintf("%s/user/%s/%s.json", c.baseURL, url.PathEscape(subject), section)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("GET", zap.String("url", u))
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", internalerr.ErrTransient, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", internalerr.ErrTransient, u, err)
	}
	return nil
}

func statusError(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", internalerr.ErrNotFound, code)
	case code == http.StatusForbidden || code == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", internalerr.ErrForbidden, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%w: status %d", internalerr.ErrTransient, code)
	default:
		return fmt.Errorf("%w: status %d", internalerr.ErrBadRequest, code)
	}
}
