package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles as the topic name.
type EventType string

const (
	EventMatchSubmitted EventType = "match-submitted"
	EventMatchEdited    EventType = "match-edited"
	EventMatchDeleted   EventType = "match-deleted"
	EventActivity       EventType = "activity"
	EventAnnouncement   EventType = "announcement-posted"
)

// MatchEvent describes a change to a match record.
type MatchEvent struct {
	RecordID  int64  `msgpack:"record_id"`
	PlayerID  int64  `msgpack:"player_id"`
	Username  string `msgpack:"username"`
	Date      string `msgpack:"date"`
	Kills     int    `msgpack:"kills"`
	Position  int    `msgpack:"position"`
	Damage    int    `msgpack:"damage"`
	MatchType string `msgpack:"match_type"`
	ActorID   int64  `msgpack:"actor_id"`
}

// ActivityEvent mirrors one activity log entry.
type ActivityEvent struct {
	UserID    int64  `msgpack:"user_id"`
	Username  string `msgpack:"username"`
	Action    string `msgpack:"action"`
	Timestamp int64  `msgpack:"timestamp"`
}

// AnnouncementEvent carries a newly posted announcement.
type AnnouncementEvent struct {
	ID      int64  `msgpack:"id"`
	Message string `msgpack:"message"`
	Date    string `msgpack:"date"`
	Time    string `msgpack:"time"`
}
