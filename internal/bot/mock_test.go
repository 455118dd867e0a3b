package bot

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"insta-pilot/internal/clients_api/instagram"
	"insta-pilot/internal/infra/config"
	"insta-pilot/internal/ledger"
	"insta-pilot/internal/status"

	"github.com/stretchr/testify/require"
)

// fakeClient scripts ActivityClient behavior for orchestrator tests.
type fakeClient struct {
	loginErr error

	feed    []instagram.Post
	feedErr error

	clips    []instagram.Clip
	clipsErr error

	suggestions    []instagram.Account
	suggestionsErr error

	friendships map[string]instagram.FriendshipStatus

	following map[string]instagram.Account
	followers map[string]struct{}

	likeErr     map[string]error
	followErr   map[string]error
	unfollowErr map[string]error

	liked      []string
	commented  []string
	followed   []string
	unfollowed []string

	feedCalls int
}

func (f *fakeClient) Login(ctx context.Context) error { return f.loginErr }

func (f *fakeClient) AccountID() string { return "self" }

func (f *fakeClient) FetchFeed(ctx context.Context, limit int) ([]instagram.Post, error) {
	f.feedCalls++
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return f.feed, nil
}

func (f *fakeClient) Like(ctx context.Context, mediaID string) error {
	if err := f.likeErr[mediaID]; err != nil {
		return err
	}
	f.liked = append(f.liked, mediaID)
	return nil
}

func (f *fakeClient) Comment(ctx context.Context, mediaID, text string) error {
	f.commented = append(f.commented, mediaID)
	return nil
}

func (f *fakeClient) FetchTrendingClips(ctx context.Context, limit int) ([]instagram.Clip, error) {
	if f.clipsErr != nil {
		return nil, f.clipsErr
	}
	return f.clips, nil
}

func (f *fakeClient) Follow(ctx context.Context, subjectID string) error {
	if err := f.followErr[subjectID]; err != nil {
		return err
	}
	f.followed = append(f.followed, subjectID)
	return nil
}

func (f *fakeClient) Unfollow(ctx context.Context, subjectID string) error {
	if err := f.unfollowErr[subjectID]; err != nil {
		return err
	}
	f.unfollowed = append(f.unfollowed, subjectID)
	return nil
}

func (f *fakeClient) FetchSuggestedAccounts(ctx context.Context, limit int) ([]instagram.Account, error) {
	if f.suggestionsErr != nil {
		return nil, f.suggestionsErr
	}
	return f.suggestions, nil
}

func (f *fakeClient) FriendshipStatus(ctx context.Context, subjectID string) (*instagram.FriendshipStatus, error) {
	if fs, ok := f.friendships[subjectID]; ok {
		return &fs, nil
	}
	return &instagram.FriendshipStatus{}, nil
}

func (f *fakeClient) ListFollowing(ctx context.Context, accountID string) (map[string]instagram.Account, error) {
	return f.following, nil
}

func (f *fakeClient) ListFollowers(ctx context.Context, accountID string) (map[string]struct{}, error) {
	return f.followers, nil
}

func testActivityConfig() config.ActivityConfig {
	return config.ActivityConfig{
		CooldownMinutes:   0,
		FeedLimit:         5,
		MaxLikes:          2,
		ClipsLimit:        2,
		MaxFollows:        1,
		ClipLikeChance:    1.0,
		ClipCommentChance: 0,
		WatchMinSeconds:   0,
		WatchMaxSeconds:   0,
		SimulationMinutes: 60,
		MaxSessions:       3,
		PauseMinSeconds:   0,
		PauseMaxSeconds:   0,
		RecoverySeconds:   300,
		UnfollowDays:      3,
		MaxUnfollows:      10,
		RoutineFollowsMax: 2,
	}
}

// newTestOrchestrator wires an orchestrator with a temp ledger, a
// deterministic rng and an instant fake clock.
func newTestOrchestrator(t *testing.T, client ActivityClient, cfg config.ActivityConfig) (*Orchestrator, *ledger.Ledger, *fakeClock) {
	t.Helper()

	led, err := ledger.Open(filepath.Join(t.TempDir(), "follow_history.json"))
	require.NoError(t, err)

	clock := newFakeClock()

	o := NewOrchestrator(client, led, status.NewCell(), cfg)
	o.rng = rand.New(rand.NewSource(1))
	o.now = clock.now
	o.sleep = clock.sleep
	o.gate = newTestGate(time.Duration(cfg.CooldownMinutes)*time.Minute, clock)

	return o, led, clock
}
