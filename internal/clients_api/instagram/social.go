package instagram

// Friendship endpoints: follow, unfollow, suggestions and relation lists.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Follow starts following a subject account.
func (c *Client) Follow(ctx context.Context, subjectID string) error {
	endpoint := fmt.Sprintf("/friendships/create/%s/", url.PathEscape(subjectID))
	data, err := c.MakeRequest(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		if IsAuthError(err) {
			return err
		}
		return &APIError{Op: "follow", Err: err}
	}
	return checkActionStatus("follow", data)
}

// Unfollow stops following a subject account.
func (c *Client) Unfollow(ctx context.Context, subjectID string) error {
	endpoint := fmt.Sprintf("/friendships/destroy/%s/", url.PathEscape(subjectID))
	data, err := c.MakeRequest(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		if IsAuthError(err) {
			return err
		}
		return &APIError{Op: "unfollow", Err: err}
	}
	return checkActionStatus("unfollow", data)
}

// FetchSuggestedAccounts returns up to limit follow suggestions.
func (c *Client) FetchSuggestedAccounts(ctx context.Context, limit int) ([]Account, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("count", strconv.Itoa(limit))
	}

	endpoint := "/discover/suggested_users/"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	data, err := c.MakeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		if IsAuthError(err) {
			return nil, err
		}
		return nil, &APIError{Op: "fetch suggestions", Err: err}
	}

	var resp suggestionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &APIError{Op: "fetch suggestions", Err: fmt.Errorf("failed to unmarshal suggestions: %w", err)}
	}

	if limit > 0 && len(resp.Users) > limit {
		resp.Users = resp.Users[:limit]
	}
	return resp.Users, nil
}

// FriendshipStatus returns the relation between this account and a subject.
func (c *Client) FriendshipStatus(ctx context.Context, subjectID string) (*FriendshipStatus, error) {
	endpoint := fmt.Sprintf("/friendships/show/%s/", url.PathEscape(subjectID))
	data, err := c.MakeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		if IsAuthError(err) {
			return nil, err
		}
		return nil, &APIError{Op: "friendship status", Err: err}
	}

	var resp friendshipResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &APIError{Op: "friendship status", Err: fmt.Errorf("failed to unmarshal friendship: %w", err)}
	}
	return &resp.Friendship, nil
}

// ListFollowing returns the accounts accountID follows, keyed by subject id.
func (c *Client) ListFollowing(ctx context.Context, accountID string) (map[string]Account, error) {
	users, err := c.listRelation(ctx, accountID, "following")
	if err != nil {
		return nil, err
	}

	following := make(map[string]Account, len(users))
	for _, u := range users {
		following[u.ID] = u
	}
	return following, nil
}

// ListFollowers returns the set of ids following accountID.
func (c *Client) ListFollowers(ctx context.Context, accountID string) (map[string]struct{}, error) {
	users, err := c.listRelation(ctx, accountID, "followers")
	if err != nil {
		return nil, err
	}

	followers := make(map[string]struct{}, len(users))
	for _, u := range users {
		followers[u.ID] = struct{}{}
	}
	return followers, nil
}

func (c *Client) listRelation(ctx context.Context, accountID, relation string) ([]Account, error) {
	endpoint := fmt.Sprintf("/friendships/%s/%s/", url.PathEscape(accountID), relation)
	data, err := c.MakeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		if IsAuthError(err) {
			return nil, err
		}
		return nil, &APIError{Op: "list " + relation, Err: err}
	}

	var resp followListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &APIError{Op: "list " + relation, Err: fmt.Errorf("failed to unmarshal %s: %w", relation, err)}
	}
	return resp.Users, nil
}
