package recorder

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/activity"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/auth"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/pubsub"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/mauv0809/squad-roster/internal/screenshot"
	"github.com/mauv0809/squad-roster/internal/stats"
)

// New creates a new Recorder.
func New(
	stats stats.StatsStore,
	members Members,
	files Files,
	activity activity.ActivityStore,
	notifier notifier.Notifier,
	metrics metrics.Metrics,
	counters metrics.CounterStore,
	pubsub pubsub.PubSubClient,
) *Recorder {
	return &Recorder{
		stats:    stats,
		members:  members,
		files:    files,
		activity: activity,
		notifier: notifier,
		metrics:  metrics,
		counters: counters,
		pubsub:   pubsub,
	}
}

// Submit stores a match reported by actor for themselves. Viewers may not submit.
func (rec *Recorder) Submit(ctx context.Context, actor auth.Actor, sub Submission) (match.Record, error) {
	if err := auth.Require(actor, "submit match records", roster.RoleAdmin, roster.RolePlayer); err != nil {
		return match.Record{}, err
	}
	if sub.Screenshot == nil || sub.Screenshot.Filename == "" {
		return match.Record{}, apperr.Invalid("screenshot", "please select a screenshot file")
	}
	if !screenshot.Allowed(sub.Screenshot.Filename) {
		return match.Record{}, apperr.Invalid("screenshot", "invalid file type, allowed: png, jpg, jpeg, gif")
	}

	r, err := match.New(sub.fields(actor.ID))
	if err != nil {
		return match.Record{}, err
	}

	name, err := rec.files.Save(sub.Screenshot.Filename, sub.Screenshot.Body)
	if err != nil {
		return match.Record{}, err
	}
	r.Screenshot = name

	stored, err := rec.stats.Insert(ctx, r)
	if err != nil {
		rec.removeFile(name)
		return match.Record{}, err
	}
	log.Info("Match record submitted", "id", stored.ID, "player", actor.Username, "position", *stored.Position)

	rec.metrics.IncRecordsSubmitted(string(stored.Type))
	rec.counters.Increment(metrics.KeyRecordsSubmitted)
	rec.logActivity(ctx, actor, activity.ActionMatchSubmit)
	rec.publish(ctx, pubsub.EventMatchSubmitted, stored, actor.Username, actor)

	if err := rec.notifier.SendMatchSubmitted(ctx, notice(stored, actor.Username), notifier.DryRun(ctx)); err != nil {
		log.Error("Failed to send match notification", "error", err, "id", stored.ID)
	}
	return stored, nil
}

// Edit replaces the fields of record id. Only admins may edit; the owner stays the same.
func (rec *Recorder) Edit(ctx context.Context, actor auth.Actor, id int64, sub Submission) (match.Record, error) {
	if err := auth.Require(actor, "edit match records", roster.RoleAdmin); err != nil {
		return match.Record{}, err
	}
	current, err := rec.stats.Get(ctx, id)
	if err != nil {
		return match.Record{}, err
	}

	r, err := match.New(sub.fields(current.PlayerID))
	if err != nil {
		return match.Record{}, err
	}
	r.ID = id
	r.Screenshot = current.Screenshot

	var uploaded string
	if sub.Screenshot != nil && sub.Screenshot.Filename != "" {
		if uploaded, err = rec.files.Save(sub.Screenshot.Filename, sub.Screenshot.Body); err != nil {
			return match.Record{}, err
		}
		r.Screenshot = uploaded
	}

	updated, err := rec.stats.Update(ctx, r)
	if err != nil {
		if uploaded != "" {
			rec.removeFile(uploaded)
		}
		return match.Record{}, err
	}
	if uploaded != "" {
		rec.releaseFile(ctx, current.Screenshot, id)
	}
	log.Info("Match record edited", "id", id, "by", actor.Username)

	rec.metrics.IncRecordsEdited()
	rec.counters.Increment(metrics.KeyRecordsEdited)
	rec.logActivity(ctx, actor, activity.ActionMatchEdit)
	rec.publish(ctx, pubsub.EventMatchEdited, updated, rec.ownerName(ctx, updated.PlayerID), actor)
	return updated, nil
}

// Delete removes record id and its screenshot when nothing else references it. Only admins may delete.
func (rec *Recorder) Delete(ctx context.Context, actor auth.Actor, id int64) (match.Record, error) {
	if err := auth.Require(actor, "delete match records", roster.RoleAdmin); err != nil {
		return match.Record{}, err
	}
	deleted, err := rec.stats.Delete(ctx, id)
	if err != nil {
		return match.Record{}, err
	}
	rec.releaseFile(ctx, deleted.Screenshot, id)
	log.Info("Match record deleted", "id", id, "by", actor.Username)

	rec.metrics.IncRecordsDeleted()
	rec.counters.Increment(metrics.KeyRecordsDeleted)
	rec.logActivity(ctx, actor, activity.ActionMatchDelete)
	rec.publish(ctx, pubsub.EventMatchDeleted, deleted, rec.ownerName(ctx, deleted.PlayerID), actor)
	return deleted, nil
}

func (sub Submission) fields(playerID int64) match.Fields {
	return match.Fields{
		PlayerID: playerID,
		Date:     sub.Date,
		Kills:    sub.Kills,
		Position: sub.Position,
		Damage:   sub.Damage,
		Survival: sub.Survival,
		Type:     sub.Type,
	}
}

// releaseFile deletes name unless a record other than id still points at it.
func (rec *Recorder) releaseFile(ctx context.Context, name string, id int64) {
	if name == "" {
		return
	}
	inUse, err := rec.stats.ScreenshotInUse(ctx, name, id)
	if err != nil {
		log.Error("Failed to check screenshot references", "error", err, "name", name)
		return
	}
	if inUse {
		log.Debug("Screenshot still referenced, keeping it", "name", name)
		return
	}
	rec.removeFile(name)
}

func (rec *Recorder) removeFile(name string) {
	if err := rec.files.Delete(name); err != nil {
		log.Error("Failed to delete screenshot", "error", err, "name", name)
	}
}

func (rec *Recorder) logActivity(ctx context.Context, actor auth.Actor, action activity.Action) {
	err := rec.activity.Record(ctx, activity.Entry{UserID: actor.ID, Username: actor.Username, Action: action})
	if err != nil {
		log.Error("Failed to write activity log", "error", err, "action", action)
	}
}

func (rec *Recorder) publish(ctx context.Context, topic pubsub.EventType, r match.Record, owner string, actor auth.Actor) {
	if notifier.DryRun(ctx) {
		log.Info("[Dry Run] Would publish match event", "topic", topic, "id", r.ID)
		return
	}
	event := pubsub.MatchEvent{
		RecordID:  r.ID,
		PlayerID:  r.PlayerID,
		Username:  owner,
		Date:      r.DateString(),
		Kills:     r.Kills,
		Damage:    r.Damage,
		MatchType: string(r.Type),
		ActorID:   actor.ID,
	}
	if r.Position != nil {
		event.Position = *r.Position
	}
	if err := rec.pubsub.SendMessage(ctx, topic, event); err != nil {
		log.Error("Failed to publish match event", "error", err, "topic", topic, "id", r.ID)
	}
}

func (rec *Recorder) ownerName(ctx context.Context, playerID int64) string {
	p, err := rec.members.Get(ctx, playerID)
	if err != nil {
		log.Warn("Could not resolve record owner", "error", err, "player_id", playerID)
		return ""
	}
	return p.Username
}

func notice(r match.Record, username string) notifier.MatchNotice {
	n := notifier.MatchNotice{
		Username:  username,
		Date:      r.DateString(),
		Kills:     r.Kills,
		Damage:    r.Damage,
		Survival:  r.Survival,
		MatchType: string(r.Type),
	}
	if r.Position != nil {
		n.Position = *r.Position
	}
	return n
}
