package bot

// ActivityClient is the capability set the orchestrator needs from the
// remote platform client. The concrete implementation lives in
// internal/clients_api/instagram; the orchestrator only depends on this
// interface and the data shapes.

import (
	"context"

	"insta-pilot/internal/clients_api/instagram"
)

type ActivityClient interface {
	// Login establishes or restores a session. Returns *instagram.AuthError
	// when the account cannot be authenticated.
	Login(ctx context.Context) error

	// AccountID is the id of the logged-in account, empty before Login.
	AccountID() string

	FetchFeed(ctx context.Context, limit int) ([]instagram.Post, error)
	Like(ctx context.Context, mediaID string) error
	Comment(ctx context.Context, mediaID, text string) error

	FetchTrendingClips(ctx context.Context, limit int) ([]instagram.Clip, error)

	Follow(ctx context.Context, subjectID string) error
	Unfollow(ctx context.Context, subjectID string) error
	FetchSuggestedAccounts(ctx context.Context, limit int) ([]instagram.Account, error)
	FriendshipStatus(ctx context.Context, subjectID string) (*instagram.FriendshipStatus, error)
	ListFollowing(ctx context.Context, accountID string) (map[string]instagram.Account, error)
	ListFollowers(ctx context.Context, accountID string) (map[string]struct{}, error)
}
