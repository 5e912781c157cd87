package announcement

import "context"

// AnnouncementStore holds announcements and team notifications.
type AnnouncementStore interface {
	Post(ctx context.Context, message, date, clock string) (Announcement, error)
	Latest(ctx context.Context) (*Announcement, error)
	List(ctx context.Context) ([]Announcement, error)

	AddNotification(ctx context.Context, message string) (Notification, error)
	DeleteNotification(ctx context.Context, id int64) error
	ListNotifications(ctx context.Context) ([]Notification, error)
}
