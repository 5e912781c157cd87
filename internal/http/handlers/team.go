package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/activity"
	"github.com/mauv0809/squad-roster/internal/announcement"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/attendance"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/pubsub"
)

type announcementRequest struct {
	Message string `json:"message" validate:"required"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type notificationRequest struct {
	Message string `json:"message" validate:"required"`
}

func ListAnnouncementsHandler(notes announcement.AnnouncementStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := notes.List(r.Context())
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// PostAnnouncementHandler stores an announcement, then shares it on Slack and Pub/Sub.
// Delivery failures are logged; the announcement stays posted.
func PostAnnouncementHandler(notes announcement.AnnouncementStore, n notifier.Notifier, ps pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req announcementRequest
		if err := decodeJSON(w, r, &req); err != nil {
			RespondError(w, err)
			return
		}
		ctx := r.Context()
		a, err := notes.Post(ctx, req.Message, req.Date, req.Time)
		if err != nil {
			RespondError(w, err)
			return
		}

		dryRun := notifier.DryRun(ctx)
		if err := n.SendAnnouncement(ctx, notifier.AnnouncementNotice{Message: a.Message, Date: a.Date, Time: a.Time}, dryRun); err != nil {
			log.Error("Failed to send announcement", "error", err, "id", a.ID)
		}
		if !dryRun {
			event := pubsub.AnnouncementEvent{ID: a.ID, Message: a.Message, Date: a.Date, Time: a.Time}
			if err := ps.SendMessage(ctx, pubsub.EventAnnouncement, event); err != nil {
				log.Error("Failed to publish announcement", "error", err, "id", a.ID)
			}
		}
		respondJSON(w, http.StatusCreated, a)
	}
}

func ListNotificationsHandler(notes announcement.AnnouncementStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := notes.ListNotifications(r.Context())
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func AddNotificationHandler(notes announcement.AnnouncementStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req notificationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			RespondError(w, err)
			return
		}
		n, err := notes.AddNotification(r.Context(), req.Message)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, n)
	}
}

func DeleteNotificationHandler(notes announcement.AnnouncementStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			RespondError(w, err)
			return
		}
		if err := notes.DeleteNotification(r.Context(), id); err != nil {
			RespondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type attendanceResponse struct {
	Marked  bool   `json:"marked"`
	Message string `json:"message"`
}

// MarkAttendanceHandler marks the caller present for today. A second mark on the same day is a no-op.
func MarkAttendanceHandler(marks attendance.AttendanceStore, activityStore activity.ActivityStore, counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := actorFrom(r)
		marked, err := marks.MarkPresent(r.Context(), actor.ID, time.Now())
		if err != nil {
			RespondError(w, err)
			return
		}
		if !marked {
			respondJSON(w, http.StatusOK, attendanceResponse{Marked: false, Message: "You already joined today!"})
			return
		}

		counters.Increment(metrics.KeyAttendanceMarked)
		if err := activityStore.Record(r.Context(), activity.Entry{UserID: actor.ID, Username: actor.Username, Action: activity.ActionAttendanceMark}); err != nil {
			log.Error("Failed to record attendance activity", "error", err)
		}
		respondJSON(w, http.StatusCreated, attendanceResponse{Marked: true, Message: "Attendance Marked Successfully!"})
	}
}

func ListAttendanceHandler(marks attendance.AttendanceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := marks.List(r.Context())
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func ActivityHandler(activityStore activity.ActivityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			var err error
			if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
				RespondError(w, apperr.Invalid("limit", "%q is not a positive number", raw))
				return
			}
		}
		entries, err := activityStore.List(r.Context(), limit)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}
