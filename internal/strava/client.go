package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"backend-pacewatch/internal/store"
)

const defaultBaseURL = "https://www.strava.com/api/v3"

// TokenSource supplies a valid access token for each request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client talks to the fitness API. It only fetches; all interpretation of
// the data happens in the analysis packages.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(tokens TokenSource) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
	}
}

// WithBaseURL points the client elsewhere, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

func (c *Client) GetActivity(ctx context.Context, id int64) (store.Activity, error) {
	var a store.Activity
	err := c.get(ctx, "/activities/"+strconv.FormatInt(id, 10), nil, &a)
	return a, err
}

func (c *Client) GetStreams(ctx context.Context, id int64) (StreamSet, error) {
	q := url.Values{
		"keys":        {"distance,time,heartrate,watts,cadence,velocity_smooth"},
		"key_by_type": {"true"},
	}
	var s StreamSet
	err := c.get(ctx, "/activities/"+strconv.FormatInt(id, 10)+"/streams", q, &s)
	return s, err
}

func (c *Client) GetZones(ctx context.Context, id int64) ([]Zone, error) {
	var z []Zone
	err := c.get(ctx, "/activities/"+strconv.FormatInt(id, 10)+"/zones", nil, &z)
	return z, err
}

// ListActivitiesAfter returns the athlete's activities started after the
// given unix time (seconds), oldest parameters the provider supports.
func (c *Client) ListActivitiesAfter(ctx context.Context, after int64) ([]store.Activity, error) {
	q := url.Values{
		"after":    {strconv.FormatInt(after, 10)},
		"per_page": {"30"},
	}
	var list []store.Activity
	err := c.get(ctx, "/athlete/activities", q, &list)
	return list, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("strava: token: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("strava: %s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
