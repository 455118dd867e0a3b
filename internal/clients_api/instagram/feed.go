package instagram

// Timeline feed and media interaction endpoints.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// FetchFeed returns up to limit timeline posts. An empty feed is not
// an error.
func (c *Client) FetchFeed(ctx context.Context, limit int) ([]Post, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("count", strconv.Itoa(limit))
	}

	endpoint := "/feed/timeline/"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	data, err := c.MakeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		if IsAuthError(err) {
			return nil, err
		}
		return nil, &APIError{Op: "fetch feed", Err: err}
	}

	var resp feedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &APIError{Op: "fetch feed", Err: fmt.Errorf("failed to unmarshal feed: %w", err)}
	}

	if limit > 0 && len(resp.Items) > limit {
		resp.Items = resp.Items[:limit]
	}
	return resp.Items, nil
}

// Like marks a media item as liked.
func (c *Client) Like(ctx context.Context, mediaID string) error {
	endpoint := fmt.Sprintf("/media/%s/like/", url.PathEscape(mediaID))
	data, err := c.MakeRequest(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		if IsAuthError(err) {
			return err
		}
		return &APIError{Op: "like", Err: err}
	}
	return checkActionStatus("like", data)
}

// Comment posts a comment on a media item. Comment length is validated
// locally before the request goes out.
func (c *Client) Comment(ctx context.Context, mediaID, text string) error {
	if len(text) < 2 || len(text) > 200 {
		return &APIError{Op: "comment", Err: fmt.Errorf("comment length %d out of range [2,200]", len(text))}
	}

	endpoint := fmt.Sprintf("/media/%s/comment/", url.PathEscape(mediaID))
	body := map[string]string{"comment_text": text}
	data, err := c.MakeRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		if IsAuthError(err) {
			return err
		}
		return &APIError{Op: "comment", Err: err}
	}
	return checkActionStatus("comment", data)
}

// FetchTrendingClips returns up to limit trending short-form videos.
func (c *Client) FetchTrendingClips(ctx context.Context, limit int) ([]Clip, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("count", strconv.Itoa(limit))
	}

	endpoint := "/clips/trending/"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	data, err := c.MakeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		if IsAuthError(err) {
			return nil, err
		}
		return nil, &APIError{Op: "fetch trending clips", Err: err}
	}

	var resp clipsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &APIError{Op: "fetch trending clips", Err: fmt.Errorf("failed to unmarshal clips: %w", err)}
	}

	if limit > 0 && len(resp.Items) > limit {
		resp.Items = resp.Items[:limit]
	}
	return resp.Items, nil
}

// checkActionStatus validates the generic {"status": "ok"} action reply.
func checkActionStatus(op string, data []byte) error {
	var resp actionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return &APIError{Op: op, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	if resp.Status != "ok" {
		return &APIError{Op: op, Err: fmt.Errorf("unexpected status %q", resp.Status)}
	}
	return nil
}
