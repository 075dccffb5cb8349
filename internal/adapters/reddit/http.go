package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/okian/flairbot/internal/domain/flair"
	"github.com/okian/flairbot/internal/domain/karma"
	"github.com/okian/flairbot/internal/domain/request"
)

// Default endpoints and paging.
const (
	defaultAPIBase  = "https://oauth.reddit.com"
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	defaultPageSize = 100
)

// Credentials hold the script-app and bot-account secrets.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// HTTPClient implements Client against the real service. Authentication is
// lazy: the token is fetched on the first request of a run. The client is
// used from a single sequential batch pass and is not safe for concurrent
// use.
type HTTPClient struct {
	creds     Credentials
	userAgent string
	subreddit string

	apiBase  string
	tokenURL string
	pageSize int

	base   *http.Client // carries the User-Agent header
	authed *http.Client // token-bearing client, set on first use
}

// Option applies a configuration option to the HTTPClient.
type Option func(*HTTPClient)

// WithAPIBase overrides the API base URL. Used by tests.
func WithAPIBase(u string) Option {
	return func(c *HTTPClient) {
		if u != "" {
			c.apiBase = strings.TrimRight(u, "/")
		}
	}
}

// WithTokenURL overrides the token endpoint. Used by tests.
func WithTokenURL(u string) Option {
	return func(c *HTTPClient) {
		if u != "" {
			c.tokenURL = u
		}
	}
}

// WithPageSize sets the listing page size.
func WithPageSize(n int) Option {
	return func(c *HTTPClient) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) {
		if rt != nil {
			c.base = &http.Client{Transport: &uaTransport{ua: c.userAgent, rt: rt}}
		}
	}
}

// NewHTTPClient creates a client for one target subreddit.
func NewHTTPClient(creds Credentials, subreddit, userAgent string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		creds:     creds,
		userAgent: userAgent,
		subreddit: subreddit,
		apiBase:   defaultAPIBase,
		tokenURL:  defaultTokenURL,
		pageSize:  defaultPageSize,
	}
	c.base = &http.Client{Transport: &uaTransport{ua: userAgent, rt: http.DefaultTransport}}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// uaTransport stamps the configured User-Agent on every request; the
// service rejects default library agents.
type uaTransport struct {
	ua string
	rt http.RoundTripper
}

func (t *uaTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("User-Agent", t.ua)
	return t.rt.RoundTrip(r)
}

// ensureAuth fetches a token via the password-credentials grant on first use.
func (c *HTTPClient) ensureAuth(ctx context.Context) error {
	if c.authed != nil {
		return nil
	}
	conf := &oauth2.Config{
		ClientID:     c.creds.ClientID,
		ClientSecret: c.creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	authCtx := context.WithValue(ctx, oauth2.HTTPClient, c.base)
	tok, err := conf.PasswordCredentialsToken(authCtx, c.creds.Username, c.creds.Password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	// The token client keeps using the UA-stamping base transport.
	c.authed = conf.Client(context.WithValue(context.Background(), oauth2.HTTPClient, c.base), tok)
	return nil
}

// listing mirrors the service's paginated listing envelope.
type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type messageData struct {
	Name    string `json:"name"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type thingData struct {
	Subreddit string `json:"subreddit"`
	Score     int    `json:"score"`
}

type flairListData struct {
	Users []struct {
		User  string `json:"user"`
		Class string `json:"flair_css_class"`
		Text  string `json:"flair_text"`
	} `json:"users"`
}

// ListUnread fetches every unread message, following pagination cursors.
func (c *HTTPClient) ListUnread(ctx context.Context) ([]request.Message, error) {
	var msgs []request.Message
	after := ""
	for {
		q := url.Values{}
		q.Set("limit", fmt.Sprint(c.pageSize))
		if after != "" {
			q.Set("after", after)
		}
		var page listing
		if err := c.getJSON(ctx, "/message/unread", q, &page); err != nil {
			return nil, err
		}
		for _, child := range page.Data.Children {
			var md messageData
			if err := json.Unmarshal(child.Data, &md); err != nil {
				return nil, fmt.Errorf("%w: decode message: %w", ErrAPIRequest, err)
			}
			msgs = append(msgs, request.Message{
				ID:      md.Name,
				Author:  md.Author,
				Subject: md.Subject,
				Body:    md.Body,
			})
		}
		if page.Data.After == "" || len(page.Data.Children) == 0 {
			return msgs, nil
		}
		after = page.Data.After
	}
}

// MarkRead marks message ids read in one batch call.
func (c *HTTPClient) MarkRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	form := url.Values{}
	form.Set("id", strings.Join(ids, ","))
	return c.postForm(ctx, "/api/read_message", form)
}

// Reply answers one message.
func (c *HTTPClient) Reply(ctx context.Context, id, text string) error {
	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("thing_id", id)
	form.Set("text", text)
	return c.postForm(ctx, "/api/comment", form)
}

// Contributions walks a user's comment or submission listing lazily under
// the given ordering. Pagination stays inside the returned iterator.
func (c *HTTPClient) Contributions(ctx context.Context, user string, kind karma.Kind, ordering karma.Ordering) (karma.Iter, error) {
	if err := c.ensureAuth(ctx); err != nil {
		return nil, err
	}
	var path string
	switch kind {
	case karma.KindComment:
		path = fmt.Sprintf("/user/%s/comments", url.PathEscape(user))
	case karma.KindSubmission:
		path = fmt.Sprintf("/user/%s/submitted", url.PathEscape(user))
	default:
		return nil, fmt.Errorf("%w: unknown contribution kind %q", ErrAPIRequest, kind)
	}
	q := url.Values{}
	q.Set("sort", string(ordering))
	q.Set("t", "all")
	q.Set("limit", fmt.Sprint(c.pageSize))
	return &contributionIter{c: c, path: path, query: q}, nil
}

// contributionIter pulls listing pages on demand.
type contributionIter struct {
	c     *HTTPClient
	path  string
	query url.Values
	buf   []karma.Contribution
	after string
	done  bool
}

func (it *contributionIter) Next(ctx context.Context) (karma.Contribution, bool, error) {
	for len(it.buf) == 0 && !it.done {
		if err := it.fetch(ctx); err != nil {
			return karma.Contribution{}, false, err
		}
	}
	if len(it.buf) == 0 {
		return karma.Contribution{}, false, nil
	}
	head := it.buf[0]
	it.buf = it.buf[1:]
	return head, true, nil
}

func (it *contributionIter) fetch(ctx context.Context) error {
	q := url.Values{}
	for key, vals := range it.query {
		q[key] = vals
	}
	if it.after != "" {
		q.Set("after", it.after)
	}
	var page listing
	if err := it.c.getJSON(ctx, it.path, q, &page); err != nil {
		return err
	}
	for _, child := range page.Data.Children {
		var td thingData
		if err := json.Unmarshal(child.Data, &td); err != nil {
			return fmt.Errorf("%w: decode contribution: %w", ErrAPIRequest, err)
		}
		it.buf = append(it.buf, karma.Contribution{Subreddit: td.Subreddit, Score: td.Score})
	}
	if page.Data.After == "" || len(page.Data.Children) == 0 {
		it.done = true
	} else {
		it.after = page.Data.After
	}
	return nil
}

// Flair reads the user's current flair record; absent flair comes back as
// the zero State.
func (c *HTTPClient) Flair(ctx context.Context, user string) (flair.State, error) {
	q := url.Values{}
	q.Set("name", user)
	var fl flairListData
	if err := c.getJSON(ctx, fmt.Sprintf("/r/%s/api/flairlist", url.PathEscape(c.subreddit)), q, &fl); err != nil {
		return flair.State{}, err
	}
	for _, u := range fl.Users {
		if u.User == user {
			return flair.State{Class: u.Class, Text: u.Text}, nil
		}
	}
	return flair.State{}, nil
}

// SetFlair writes the user's flair class and text.
func (c *HTTPClient) SetFlair(ctx context.Context, user, class, text string) error {
	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("name", user)
	form.Set("css_class", class)
	form.Set("text", text)
	return c.postForm(ctx, fmt.Sprintf("/r/%s/api/flair", url.PathEscape(c.subreddit)), form)
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.ensureAuth(ctx); err != nil {
		return err
	}
	u := c.apiBase + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAPIRequest, err)
	}
	resp, err := c.authed.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrAPIRequest, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: GET %s: status %d", ErrAPIRequest, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: decode: %w", ErrAPIRequest, path, err)
	}
	return nil
}

func (c *HTTPClient) postForm(ctx context.Context, path string, form url.Values) error {
	if err := c.ensureAuth(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAPIRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.authed.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %w", ErrAPIRequest, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: POST %s: status %d", ErrAPIRequest, path, resp.StatusCode)
	}
	return nil
}
