package bot

import (
	"context"
	"time"

	"insta-pilot/internal/clients_api/instagram"
	"insta-pilot/internal/infra/log"
	"insta-pilot/internal/status"

	"go.uber.org/zap"
)

// SimulateActivity repeats sessions until the wall-clock duration elapses
// or maxSessions complete, with a randomized pause between sessions. A
// failed session triggers a fixed recovery pause instead of the normal
// one; the loop itself never stops because of a single failure.
func (o *Orchestrator) SimulateActivity(ctx context.Context, duration time.Duration, maxSessions int) []SessionOutcome {
	log.LogInfo("Activity simulation started",
		zap.Duration("duration", duration),
		zap.Int("max_sessions", maxSessions))

	start := o.now()
	end := start.Add(duration)
	outcomes := make([]SessionOutcome, 0, maxSessions)

	for o.now().Before(end) && len(outcomes) < maxSessions && ctx.Err() == nil {
		sessionNum := len(outcomes) + 1
		log.LogInfo("Session starting", zap.Int("session", sessionNum))

		outcome := o.RunSession(ctx)
		outcomes = append(outcomes, outcome)

		if outcome.Err != nil {
			log.LogError("Session failed", zap.Int("session", sessionNum), zap.Error(outcome.Err))
			o.setStatus(status.StateSessionError, outcome.Err.Error())

			if instagram.IsAuthError(outcome.Err) {
				// No point continuing without a session; the scheduler
				// retries the whole routine at the next fire.
				break
			}
			if o.now().Before(end) && len(outcomes) < maxSessions && ctx.Err() == nil {
				o.sleep(time.Duration(o.cfg.RecoverySeconds) * time.Second)
			}
			continue
		}

		log.LogSuccess("Session completed", zap.Int("session", sessionNum))
		o.setStatus(status.StateConnected, "")

		if o.now().Before(end) && len(outcomes) < maxSessions && ctx.Err() == nil {
			o.randomDelay(o.cfg.PauseMinSeconds, o.cfg.PauseMaxSeconds)
		}
	}

	log.LogInfo("Activity simulation finished", zap.Int("sessions", len(outcomes)))
	return outcomes
}

// UnfollowNonFollowers unfollows accounts that do not follow back, when
// the ledger deems them eligible, capped at maxUnfollows per run.
func (o *Orchestrator) UnfollowNonFollowers(ctx context.Context, daysThreshold, maxUnfollows int) (int, error) {
	accountID := o.client.AccountID()
	if accountID == "" {
		return 0, &instagram.AuthError{Reason: "not logged in"}
	}

	o.gate.Wait()
	following, err := o.client.ListFollowing(ctx, accountID)
	if err != nil {
		return 0, err
	}
	followers, err := o.client.ListFollowers(ctx, accountID)
	if err != nil {
		return 0, err
	}

	unfollowed := 0
	for subjectID, account := range following {
		if unfollowed >= maxUnfollows {
			break
		}
		if ctx.Err() != nil {
			return unfollowed, ctx.Err()
		}

		if _, followsBack := followers[subjectID]; followsBack {
			continue
		}
		if !o.ledger.ShouldUnfollow(subjectID, daysThreshold) {
			continue
		}

		o.gate.Wait()
		if err := o.client.Unfollow(ctx, subjectID); err != nil {
			if instagram.IsAuthError(err) {
				return unfollowed, err
			}
			log.LogWarn("Unfollow failed, skipping",
				zap.String("subject_id", subjectID), zap.Error(err))
			continue
		}

		if err := o.ledger.MarkUnfollowed(subjectID); err != nil {
			log.LogError("Failed to persist unfollow record",
				zap.String("subject_id", subjectID), zap.Error(err))
		}

		unfollowed++
		log.LogInfo("Unfollowed non-follower",
			zap.String("subject_id", subjectID),
			zap.String("username", account.Username))
		o.randomDelay(30, 90)
	}

	log.LogSuccess("Unfollow routine finished", zap.Int("unfollowed", unfollowed))
	return unfollowed, nil
}

// RunDailyRoutine is the scheduler entry point: login, the follow/unfollow
// housekeeping, then a stretch of simulated activity. Errors are absorbed
// here; the shared status cell carries them to the outside.
func (o *Orchestrator) RunDailyRoutine(ctx context.Context) {
	summary := RoutineSummary{Start: o.now()}

	o.setStatus(status.StateRunning, "")
	log.LogInfo("Daily routine started")

	if err := o.client.Login(ctx); err != nil {
		log.LogError("Login failed, routine cancelled", zap.Error(err))
		o.setStatus(status.StateSessionError, err.Error())
		return
	}
	o.setStatus(status.StateConnected, "")

	unfollowed, err := o.UnfollowNonFollowers(ctx, o.cfg.UnfollowDays, o.cfg.MaxUnfollows)
	summary.Unfollows = unfollowed
	if err != nil {
		log.LogError("Unfollow routine failed", zap.Error(err))
		if instagram.IsAuthError(err) {
			o.setStatus(status.StateSessionError, err.Error())
			return
		}
	}

	o.randomDelay(o.cfg.RoutinePauseMinSec, o.cfg.RoutinePauseMaxSec)

	follows, err := o.followSuggested(ctx, o.cfg.RoutineFollowsMax)
	summary.Follows += follows
	if err != nil {
		log.LogError("Suggested follow routine failed", zap.Error(err))
		if instagram.IsAuthError(err) {
			o.setStatus(status.StateSessionError, err.Error())
			return
		}
	}

	outcomes := o.SimulateActivity(ctx, time.Duration(o.cfg.SimulationMinutes)*time.Minute, o.cfg.MaxSessions)
	for _, out := range outcomes {
		summary.Sessions++
		summary.Likes += out.Likes
		summary.Follows += out.Follows
		summary.Comments += out.Comments
		summary.ClipsWatched += out.ClipsWatched
		summary.Skipped += out.Skipped
		if out.Err != nil {
			summary.FailedCount++
		}
	}
	summary.End = o.now()

	if o.reporter != nil {
		if err := o.reporter.SendDailyReport(summary); err != nil {
			log.LogWarn("Failed to send daily report", zap.Error(err))
		}
	}

	o.setStatus(status.StateRunning, "")
	log.LogSuccess("Daily routine finished",
		zap.Int("sessions", summary.Sessions),
		zap.Int("likes", summary.Likes),
		zap.Int("follows", summary.Follows),
		zap.Int("unfollows", summary.Unfollows))
}
