package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/squad-roster/internal/activity"
	"github.com/mauv0809/squad-roster/internal/announcement"
	"github.com/mauv0809/squad-roster/internal/attendance"
	"github.com/mauv0809/squad-roster/internal/auth"
	"github.com/mauv0809/squad-roster/internal/config"
	"github.com/mauv0809/squad-roster/internal/database"
	"github.com/mauv0809/squad-roster/internal/leaderboard"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/pubsub"
	"github.com/mauv0809/squad-roster/internal/recorder"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/mauv0809/squad-roster/internal/scoring"
	"github.com/mauv0809/squad-roster/internal/screenshot"
	"github.com/mauv0809/squad-roster/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSlackSigningSecret = "test-signing-secret"

type testEnv struct {
	server   *Server
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
	metrics  *metrics.Mock
}

// setupTestServer initializes a new server with a test database, an in-memory upload dir and mock clients.
func setupTestServer(t *testing.T, slackSigningSecret string) (*testEnv, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	files, err := screenshot.New(afero.NewMemMapFs(), "/uploads")
	require.NoError(t, err)

	cfg := config.Config{
		MaxUploadBytes: 1 << 20,
		Slack:          config.SlackConfig{SigningSecret: slackSigningSecret},
	}
	env := &testEnv{
		notifier: notifier.NewMock(),
		pubsub:   pubsub.NewMock(),
		metrics:  metrics.NewMock(),
	}
	env.notifier.FormatLeaderboardResponseFunc = func(title string, entries []scoring.LeaderboardEntry) (any, error) {
		return slack.Message{Msg: slack.Msg{Text: title}}, nil
	}

	rosterStore := roster.New(db)
	statsStore := stats.New(db)
	activityStore := activity.New(db, env.pubsub)
	counters := metrics.New(db)

	env.server = NewServer(Server{
		Roster:         rosterStore,
		Stats:          statsStore,
		Attendance:     attendance.New(db),
		Announcements:  announcement.New(db),
		Activity:       activityStore,
		Leaderboard:    leaderboard.New(rosterStore, statsStore, env.metrics),
		Recorder:       recorder.New(statsStore, rosterStore, files, activityStore, env.notifier, env.metrics, counters, env.pubsub),
		Files:          files,
		Issuer:         auth.NewIssuer("test-secret", time.Hour),
		Notifier:       env.notifier,
		Metrics:        env.metrics,
		Counters:       counters,
		MetricsHandler: metrics.NewMetricsHandler(prometheus.NewRegistry()),
		PubSub:         env.pubsub,
		Cfg:            cfg,
	})
	return env, dbTeardown
}

func (e *testEnv) member(t *testing.T, username, password string, role roster.Role) roster.Player {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	p, err := e.server.Roster.Create(context.Background(), roster.NewPlayer{Username: username, PasswordHash: hash, Role: role})
	require.NoError(t, err)
	return p
}

func (e *testEnv) token(t *testing.T, p roster.Player) string {
	t.Helper()
	token, _, err := e.server.Issuer.Issue(auth.ActorOf(p))
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, target, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) doJSON(t *testing.T, method, target, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.do(t, method, target, token, bytes.NewReader(b), "application/json")
}

// matchForm builds the multipart body of a match submission.
func matchForm(t *testing.T, fields map[string]string, filename string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("screenshot", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req := httptest.NewRequest(http.MethodPost, targetURL, bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	rr := env.do(t, http.MethodGet, "/health", "", nil, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestLogin(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	ace := env.member(t, "ace", "secret1", roster.RolePlayer)

	t.Run("valid credentials issue a working token", func(t *testing.T) {
		rr := env.doJSON(t, http.MethodPost, "/login", "", map[string]string{"username": "ace", "password": "secret1"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Token string        `json:"token"`
			User  roster.Player `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, ace.ID, resp.User.ID)
		assert.NotEmpty(t, rr.Result().Cookies())

		dash := env.do(t, http.MethodGet, "/dashboard", resp.Token, nil, "")
		assert.Equal(t, http.StatusOK, dash.Code)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		rr := env.doJSON(t, http.MethodPost, "/login", "", map[string]string{"username": "ace", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid username or password")
	})

	t.Run("unknown user is rejected the same way", func(t *testing.T) {
		rr := env.doJSON(t, http.MethodPost, "/login", "", map[string]string{"username": "ghost", "password": "secret1"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("deactivated members cannot log in", func(t *testing.T) {
		_, err := env.server.Roster.Deactivate(context.Background(), ace.ID)
		require.NoError(t, err)
		rr := env.doJSON(t, http.MethodPost, "/login", "", map[string]string{"username": "ace", "password": "secret1"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	assert.Equal(t, 3, env.metrics.FailedLogins())
}

func TestAuthorization(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	admin := env.member(t, "boss", "pw", roster.RoleAdmin)
	player := env.member(t, "ace", "pw", roster.RolePlayer)
	viewer := env.member(t, "fan", "pw", roster.RoleViewer)

	t.Run("missing token", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/leaderboard", "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/leaderboard", "not-a-token", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("players cannot reach admin routes", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/activity", env.token(t, player), nil, "")
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("viewers cannot mark attendance", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/attendance", env.token(t, viewer), nil, "")
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admins can", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/activity", env.token(t, admin), nil, "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("sessions end when the member is deactivated", func(t *testing.T) {
		token := env.token(t, player)
		_, err := env.server.Roster.Deactivate(context.Background(), player.ID)
		require.NoError(t, err)
		rr := env.do(t, http.MethodGet, "/leaderboard", token, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestSubmitMatchFeedsLeaderboard(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	admin := env.member(t, "boss", "pw", roster.RoleAdmin)
	ace := env.member(t, "ace", "pw", roster.RolePlayer)
	env.member(t, "bolt", "pw", roster.RolePlayer)
	token := env.token(t, ace)

	body, ct := matchForm(t, map[string]string{
		"date": "2024-05-01", "kills": "5", "position": "1", "damage": "1000", "survival": "10", "match_type": "BR",
	}, "win.png")
	rr := env.do(t, http.MethodPost, "/matches", token, body, ct)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var stored struct {
		ID         int64  `json:"id"`
		Screenshot string `json:"screenshot"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stored))
	assert.NotZero(t, stored.ID)
	assert.Len(t, env.notifier.SendMatchSubmittedCalls, 1)
	assert.Equal(t, 1, env.metrics.RecordsSubmitted("BR"))

	t.Run("leaderboard ranks the submitter first", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/leaderboard", token, nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var board []scoring.LeaderboardEntry
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
		require.Len(t, board, 2)
		assert.Equal(t, "ace", board[0].Name)
		assert.Equal(t, 1, board[0].Rank)
		assert.Equal(t, 32.0, board[0].Score)
		assert.Equal(t, 0.0, board[1].Score)
	})

	t.Run("filters exclude other match types", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/leaderboard?match_type=CS", token, nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var board []scoring.LeaderboardEntry
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
		require.Len(t, board, 2)
		assert.Equal(t, 0, board[0].Kills)
	})

	t.Run("unknown match type is a bad request", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/leaderboard?match_type=Duo", token, nil, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("report downloads as csv", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/report/csv", token, nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "report.csv")

		rows, err := csv.NewReader(rr.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"name", "matches", "kills", "damage", "avg_kills", "winrate"}, rows[0])
		assert.Equal(t, "ace", rows[1][0])
	})

	t.Run("admins can fetch the proof", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/uploads/"+stored.Screenshot, env.token(t, admin), nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "fake image bytes", rr.Body.String())
	})

	t.Run("admin deletes the record", func(t *testing.T) {
		rr := env.do(t, http.MethodDelete, fmt.Sprintf("/matches/%d", stored.ID), env.token(t, admin), nil, "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = env.do(t, http.MethodDelete, fmt.Sprintf("/matches/%d", stored.ID), env.token(t, admin), nil, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), `"redirect":"/dashboard"`)
	})
}

func TestSubmitMatchValidation(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	token := env.token(t, env.member(t, "ace", "pw", roster.RolePlayer))

	t.Run("screenshot is required", func(t *testing.T) {
		body, ct := matchForm(t, map[string]string{"date": "2024-05-01", "position": "2"}, "")
		rr := env.do(t, http.MethodPost, "/matches", token, body, ct)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("only images are accepted", func(t *testing.T) {
		body, ct := matchForm(t, map[string]string{"date": "2024-05-01", "position": "2"}, "notes.txt")
		rr := env.do(t, http.MethodPost, "/matches", token, body, ct)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non numeric kills", func(t *testing.T) {
		body, ct := matchForm(t, map[string]string{"date": "2024-05-01", "position": "2", "kills": "many"}, "a.png")
		rr := env.do(t, http.MethodPost, "/matches", token, body, ct)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("oversized upload", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("date", "2024-05-01"))
		part, err := w.CreateFormFile("screenshot", "huge.png")
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte("x"), 2<<20))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		rr := env.do(t, http.MethodPost, "/matches", token, &buf, w.FormDataContentType())
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	assert.Empty(t, env.notifier.SendMatchSubmittedCalls)
}

func TestPlayerManagement(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	adminToken := env.token(t, env.member(t, "boss", "pw", roster.RoleAdmin))

	rr := env.doJSON(t, http.MethodPost, "/players", adminToken, map[string]string{"username": "newbie", "password": "pw123", "role": "player"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created roster.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = env.doJSON(t, http.MethodPost, "/players", adminToken, map[string]string{"username": "newbie", "password": "pw123", "role": "player"})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "duplicate usernames are rejected")

	rr = env.do(t, http.MethodPost, fmt.Sprintf("/players/%d/deactivate", created.ID), adminToken, nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/public/roster", "", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "newbie")

	rr = env.do(t, http.MethodPost, fmt.Sprintf("/players/%d/restore", created.ID), adminToken, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/public/roster", "", nil, "")
	assert.Contains(t, rr.Body.String(), "newbie")

	rr = env.do(t, http.MethodPost, "/players/999/deactivate", adminToken, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAttendance(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	admin := env.member(t, "boss", "pw", roster.RoleAdmin)
	token := env.token(t, env.member(t, "ace", "pw", roster.RolePlayer))

	rr := env.do(t, http.MethodPost, "/attendance", token, nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Attendance Marked Successfully!")

	rr = env.do(t, http.MethodPost, "/attendance", token, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "You already joined today!")

	rr = env.do(t, http.MethodGet, "/attendance", env.token(t, admin), nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var marks []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &marks))
	require.Len(t, marks, 1)
	assert.Equal(t, time.Now().Format("2006-01-02"), marks[0]["date"])
}

func TestAnnouncements(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	admin := env.token(t, env.member(t, "boss", "pw", roster.RoleAdmin))
	player := env.token(t, env.member(t, "ace", "pw", roster.RolePlayer))

	t.Run("posting notifies and publishes", func(t *testing.T) {
		rr := env.doJSON(t, http.MethodPost, "/announcements", admin, map[string]string{"message": "Scrims at 8", "date": "2024-05-02", "time": "20:00"})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		require.Len(t, env.notifier.SendAnnouncementCalls, 1)
		assert.Equal(t, "Scrims at 8", env.notifier.SendAnnouncementCalls[0].Message)

		var published bool
		for _, c := range env.pubsub.Calls() {
			if c.Topic == pubsub.EventAnnouncement {
				published = true
			}
		}
		assert.True(t, published)
	})

	t.Run("dry run skips publishing", func(t *testing.T) {
		before := len(env.pubsub.Calls())
		rr := env.doJSON(t, http.MethodPost, "/announcements?dry_run=true", admin, map[string]string{"message": "Practice only"})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, 1, env.notifier.DryRunCalls)
		assert.Len(t, env.pubsub.Calls(), before)
	})

	t.Run("overlong messages are rejected", func(t *testing.T) {
		rr := env.doJSON(t, http.MethodPost, "/announcements", admin, map[string]string{"message": strings.Repeat("a", announcement.MaxMessageLen+1)})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("players cannot post", func(t *testing.T) {
		rr := env.doJSON(t, http.MethodPost, "/announcements", player, map[string]string{"message": "hi"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("dashboard shows the latest", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/dashboard", player, nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Practice only")
		assert.NotContains(t, rr.Body.String(), `"counters"`)
	})
}

func TestSlackCommands(t *testing.T) {
	env, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()
	env.member(t, "ace", "pw", roster.RolePlayer)

	t.Run("signed leaderboard command", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "BR")
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "BR Leaderboard", env.notifier.LastLeaderboardResponse.(slack.Message).Text)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, "wrong-secret")

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unsigned request is rejected", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/slack/command/leaderboard", "", strings.NewReader("text=BR"), "application/x-www-form-urlencoded")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown match type answers in channel", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Duo")
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Unknown match type")
	})

	t.Run("player stats for unknown player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "ghost")
		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, "ghost", env.notifier.LastPlayerNotFoundResponse)
	})
}

func TestSlackCommandsWithoutSecret(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, "")
	rr := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMatchEventPush(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	env.member(t, "ace", "pw", roster.RolePlayer)

	data, err := pubsub.Encode(pubsub.MatchEvent{RecordID: 1, Username: "ace", MatchType: "CS"})
	require.NoError(t, err)
	envelope := map[string]any{
		"subscription": "projects/test/subscriptions/match-submitted",
		"message":      map[string]any{"data": base64.StdEncoding.EncodeToString(data)},
	}

	rr := env.doJSON(t, http.MethodPost, "/pubsub/match-events", "", envelope)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "OK", rr.Body.String())
	require.Len(t, env.notifier.SendLeaderboardCalls, 1)
	require.Len(t, env.notifier.SendLeaderboardCalls[0], 1)
	assert.Equal(t, "ace", env.notifier.SendLeaderboardCalls[0][0].Name)

	t.Run("malformed payload", func(t *testing.T) {
		rr := env.doJSON(t, http.MethodPost, "/pubsub/match-events", "", map[string]any{"message": map[string]any{"data": "%%%"}})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
