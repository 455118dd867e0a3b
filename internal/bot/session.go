package bot

import (
	"context"

	"insta-pilot/internal/clients_api/instagram"
	"insta-pilot/internal/infra/log"

	"go.uber.org/zap"
)

// clipComments is the pool of short comments occasionally left on
// watched clips.
var clipComments = []string{
	"Super content! 👍",
	"Très intéressant!",
	"J'adore 😍",
	"Top qualité!",
	"Merci pour le partage!",
	"Incroyable! 👏",
	"Bravo pour ce contenu!",
	"Très utile, merci!",
}

// RunSession executes one bounded activity session: feed scan, a few
// likes, clip watching with probabilistic interactions, then suggested
// follows. Individual action failures are logged, counted as skipped and
// never abort the session; a fetch failure fails the session but is
// reported through the outcome, never panicked or propagated.
func (o *Orchestrator) RunSession(ctx context.Context) SessionOutcome {
	var out SessionOutcome

	log.LogInfo("Activity session started")

	// 1. Feed scan. Empty feed is fine, a fetch error fails the session.
	o.gate.Wait()
	feed, err := o.client.FetchFeed(ctx, o.cfg.FeedLimit)
	if err != nil {
		log.LogError("Feed fetch failed, aborting session", zap.Error(err))
		out.Err = err
		return out
	}
	log.LogInfo("Feed loaded", zap.Int("posts", len(feed)))

	// 2. Like a few feed posts.
	for _, post := range feed {
		if out.Likes >= o.cfg.MaxLikes {
			break
		}
		if ctx.Err() != nil {
			out.Err = ctx.Err()
			return out
		}
		if post.HasLiked {
			continue
		}

		o.gate.Wait()
		if err := o.client.Like(ctx, post.ID); err != nil {
			if instagram.IsAuthError(err) {
				out.Err = err
				return out
			}
			log.LogWarn("Like failed, skipping post", zap.String("media_id", post.ID), zap.Error(err))
			out.Skipped++
			continue
		}
		out.Likes++
		log.LogInfo("Post liked", zap.String("media_id", post.ID))
		o.randomDelay(5, 15)
	}

	// 3. Watch trending clips; like about half, comment rarely.
	clips, err := o.client.FetchTrendingClips(ctx, o.cfg.ClipsLimit)
	if err != nil {
		if instagram.IsAuthError(err) {
			out.Err = err
			return out
		}
		log.LogWarn("Clip fetch failed, skipping clip step", zap.Error(err))
		out.Skipped++
		clips = nil
	}
	for _, clip := range clips {
		if ctx.Err() != nil {
			out.Err = ctx.Err()
			return out
		}

		o.watchClip(clip)
		out.ClipsWatched++

		if o.rng.Float64() < o.cfg.ClipLikeChance {
			o.gate.Wait()
			if err := o.client.Like(ctx, clip.ID); err != nil {
				if instagram.IsAuthError(err) {
					out.Err = err
					return out
				}
				log.LogWarn("Clip like failed", zap.String("media_id", clip.ID), zap.Error(err))
				out.Skipped++
			} else {
				out.Likes++
			}
		}

		if o.rng.Float64() < o.cfg.ClipCommentChance {
			comment := clipComments[o.rng.Intn(len(clipComments))]
			o.gate.Wait()
			if err := o.client.Comment(ctx, clip.ID, comment); err != nil {
				if instagram.IsAuthError(err) {
					out.Err = err
					return out
				}
				log.LogWarn("Clip comment failed", zap.String("media_id", clip.ID), zap.Error(err))
				out.Skipped++
			} else {
				out.Comments++
				log.LogInfo("Comment added", zap.String("media_id", clip.ID), zap.String("text", comment))
			}
		}
	}

	// 4. Follow a few suggested accounts.
	follows, err := o.followSuggested(ctx, o.cfg.MaxFollows)
	out.Follows += follows
	if err != nil {
		if instagram.IsAuthError(err) {
			out.Err = err
			return out
		}
		log.LogWarn("Suggested follow step failed", zap.Error(err))
		out.Skipped++
	}

	log.LogSuccess("Activity session finished",
		zap.Int("likes", out.Likes),
		zap.Int("follows", out.Follows),
		zap.Int("comments", out.Comments),
		zap.Int("clips_watched", out.ClipsWatched),
		zap.Int("skipped", out.Skipped))

	return out
}

// watchClip simulates watching: no media is rendered, the pacing delay is
// the whole point.
func (o *Orchestrator) watchClip(clip instagram.Clip) {
	log.LogInfo("Watching clip", zap.String("media_id", clip.ID))
	o.randomDelay(o.cfg.WatchMinSeconds, o.cfg.WatchMaxSeconds)
}

// followSuggested follows up to max suggested accounts that are not
// already followed, recording each follow in the ledger before pacing on.
func (o *Orchestrator) followSuggested(ctx context.Context, max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}

	// Fetch a few more candidates than needed; some will already be followed.
	suggestions, err := o.client.FetchSuggestedAccounts(ctx, max*3+2)
	if err != nil {
		return 0, err
	}

	followed := 0
	for _, account := range suggestions {
		if followed >= max {
			break
		}
		if ctx.Err() != nil {
			return followed, ctx.Err()
		}

		friendship, err := o.client.FriendshipStatus(ctx, account.ID)
		if err != nil {
			if instagram.IsAuthError(err) {
				return followed, err
			}
			log.LogWarn("Friendship check failed, skipping candidate",
				zap.String("subject_id", account.ID), zap.Error(err))
			continue
		}
		if friendship.Following || friendship.Outgoing {
			continue
		}

		o.gate.Wait()
		if err := o.client.Follow(ctx, account.ID); err != nil {
			if instagram.IsAuthError(err) {
				return followed, err
			}
			log.LogWarn("Follow failed, skipping candidate",
				zap.String("subject_id", account.ID), zap.Error(err))
			continue
		}

		if err := o.ledger.RecordFollow(account.ID, account.Username); err != nil {
			// The remote follow happened; a ledger write failure must not
			// abort the session, only surface in the log.
			log.LogError("Failed to persist follow record",
				zap.String("subject_id", account.ID), zap.Error(err))
		}

		followed++
		log.LogInfo("Account followed",
			zap.String("subject_id", account.ID),
			zap.String("username", account.Username))
		o.randomDelay(20, 40)
	}

	return followed, nil
}
