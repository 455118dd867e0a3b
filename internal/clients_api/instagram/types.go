package instagram

// Package instagram contains the client for the Instagram private API.
// Response shapes are reduced to the handful of fields the bot reads.

import (
	"errors"
	"fmt"
)

// Post is one timeline feed item.
type Post struct {
	ID       string `json:"id"`
	AuthorID string `json:"user_id"`
	Code     string `json:"code"`
	HasLiked bool   `json:"has_liked"`
}

// Clip is one short-form video item.
type Clip struct {
	ID       string `json:"id"`
	AuthorID string `json:"user_id"`
	Duration int    `json:"video_duration"` // seconds
}

// Account is a remote account reference.
type Account struct {
	ID       string `json:"pk"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Private  bool   `json:"is_private"`
}

// FriendshipStatus is the relation between this account and a subject.
type FriendshipStatus struct {
	Following  bool `json:"following"`
	FollowedBy bool `json:"followed_by"`
	Outgoing   bool `json:"outgoing_request"`
}

type feedResponse struct {
	Items  []Post `json:"items"`
	Status string `json:"status"`
}

type clipsResponse struct {
	Items  []Clip `json:"items"`
	Status string `json:"status"`
}

type suggestionsResponse struct {
	Users  []Account `json:"users"`
	Status string    `json:"status"`
}

type friendshipResponse struct {
	Friendship FriendshipStatus `json:"friendship_status"`
	Status     string           `json:"status"`
}

type followListResponse struct {
	Users  []Account `json:"users"`
	Status string    `json:"status"`
}

type actionResponse struct {
	Status string `json:"status"`
}

type loginResponse struct {
	LoggedInUser Account `json:"logged_in_user"`
	Token        string  `json:"token"`
	Status       string  `json:"status"`
}

// AuthError means the session is invalid or login was rejected.
// It is fatal for the current run; the scheduler retries at the next fire.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Reason, e.Err)
	}
	return "auth error: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError is a transient action failure. Sessions log, skip and continue.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("instagram %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
