package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/metrics"
	"github.com/Dosada05/tournament-brackets/middleware"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/realtime"
	"github.com/Dosada05/tournament-brackets/routes"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testAPI struct {
	router http.Handler
	hub    *realtime.Hub
	auth   *middleware.Authenticator
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	registry := services.NewTournamentRegistry()
	tournamentService := services.NewTournamentService(registry, services.Limits{MaxEntrants: 128, MaxFieldSize: 512}, metrics.NoOpMetrics{}, hub, logger)
	matchService := services.NewMatchService(registry, metrics.NoOpMetrics{}, hub, logger)

	auth := middleware.NewAuthenticator(testSecret)
	router := chi.NewRouter()
	routes.SetupRoutes(router,
		routes.Options{AllowedOrigins: []string{"*"}, Authenticator: auth},
		handlers.NewTournamentHandler(tournamentService),
		handlers.NewMatchHandler(matchService),
		handlers.NewWebSocketHandler(hub, tournamentService, logger),
	)
	return &testAPI{router: router, hub: hub, auth: auth}
}

func (a *testAPI) token(t *testing.T, role models.UserRole) string {
	t.Helper()
	token, err := a.auth.IssueToken("tester", role, time.Hour)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = strings.NewReader(raw)
		} else {
			js, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(js)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

type tournamentEnvelope struct {
	Tournament struct {
		ID      uuid.UUID `json:"id"`
		Name    string    `json:"name"`
		Status  string    `json:"status"`
		Bracket struct {
			UpperMatches []struct {
				ID int `json:"id"`
			} `json:"upper_matches"`
			GrandFinals struct {
				ID int `json:"id"`
			} `json:"grand_finals"`
		} `json:"bracket"`
	} `json:"tournament"`
}

func createBody(n int) map[string]interface{} {
	entrants := make([]map[string]interface{}, n)
	for i := range entrants {
		entrants[i] = map[string]interface{}{"name": "player-" + string(rune('a'+i)), "seed": i}
	}
	return map[string]interface{}{
		"name":     "Friday Cup",
		"format":   map[string]interface{}{"bracket_type": "SingleElimination"},
		"entrants": entrants,
	}
}

func (a *testAPI) create(t *testing.T, n int) tournamentEnvelope {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/tournaments", a.token(t, models.RoleOrganizer), createBody(n))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var env tournamentEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rr := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestSwaggerDocs_DescribeEveryRoute(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, routes.OpenAPIPath, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var doc struct {
		OpenAPI string                            `json:"openapi"`
		Paths   map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc.OpenAPI)

	mux, ok := api.router.(chi.Routes)
	require.True(t, ok)
	walked := 0
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if strings.HasPrefix(route, "/swagger/") {
			return nil
		}
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		walked++
		ops, ok := doc.Paths[route]
		if assert.True(t, ok, "route %s is not documented", route) {
			assert.Contains(t, ops, strings.ToLower(method), "%s %s is not documented", method, route)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 9, walked)

	rr = api.do(t, http.MethodGet, "/swagger/index.html", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "openapi.json")
}

func TestCreateTournament_Auth(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "no token", token: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", token: "not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "viewer", token: api.token(t, models.RoleViewer), wantStatus: http.StatusForbidden},
		{name: "organizer", token: api.token(t, models.RoleOrganizer), wantStatus: http.StatusCreated},
		{name: "admin", token: api.token(t, models.RoleAdmin), wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := api.do(t, http.MethodPost, "/tournaments", tt.token, createBody(4))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}

	other := middleware.NewAuthenticator("other-secret")
	forged, err := other.IssueToken("mallory", models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	rr := api.do(t, http.MethodPost, "/tournaments", forged, createBody(4))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateTournament_BadRequests(t *testing.T) {
	api := newTestAPI(t)
	token := api.token(t, models.RoleOrganizer)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{name: "malformed json", body: `{"name":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"name":"Cup","prize":100}`, wantStatus: http.StatusBadRequest},
		{name: "missing name", body: map[string]interface{}{"entrants": []map[string]string{{"name": "a"}, {"name": "b"}}}, wantStatus: http.StatusBadRequest},
		{name: "one entrant", body: createBody(1), wantStatus: http.StatusUnprocessableEntity},
		{
			name: "bad shape",
			body: map[string]interface{}{
				"name":     "Cup",
				"format":   map[string]interface{}{"winners_per_match": 2, "participants_per_match": 3},
				"entrants": createBody(4)["entrants"],
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := api.do(t, http.MethodPost, "/tournaments", token, tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestTournamentLifecycle(t *testing.T) {
	api := newTestAPI(t)
	organizer := api.token(t, models.RoleOrganizer)
	created := api.create(t, 4)
	id := created.Tournament.ID.String()

	rr := api.do(t, http.MethodGet, "/tournaments/"+id, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(t, http.MethodGet, "/tournaments/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = api.do(t, http.MethodGet, "/tournaments/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(t, http.MethodGet, "/tournaments", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Tournaments []models.TournamentSummary `json:"tournaments"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Tournaments, 1)
	assert.Equal(t, 4, list.Tournaments[0].EntrantCount)

	rr = api.do(t, http.MethodGet, "/tournaments/"+id+"/matches?ready=true", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var matches struct {
		Matches []struct {
			ID int `json:"id"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	assert.Len(t, matches.Matches, 2)

	rr = api.do(t, http.MethodGet, "/tournaments/"+id+"/matches?side=sideways", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = api.do(t, http.MethodGet, "/tournaments/"+id+"/matches?ready=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resolve := func(matchID string, placements []int) *httptest.ResponseRecorder {
		return api.do(t, http.MethodPost, "/tournaments/"+id+"/matches/"+matchID+"/resolve", organizer,
			map[string]interface{}{"placements": placements})
	}

	assert.Equal(t, http.StatusBadRequest, resolve("0", []int{0, 1}).Code)
	assert.Equal(t, http.StatusBadRequest, resolve("abc", []int{0, 3}).Code)
	assert.Equal(t, http.StatusNotFound, resolve("77", []int{0, 3}).Code)
	assert.Equal(t, http.StatusConflict, resolve("2", []int{0, 1}).Code)
	assert.Equal(t, http.StatusOK, resolve("0", []int{0, 3}).Code)
	assert.Equal(t, http.StatusConflict, resolve("0", []int{0, 3}).Code)
	assert.Equal(t, http.StatusOK, resolve("1", []int{1, 2}).Code)
	assert.Equal(t, http.StatusOK, resolve("2", []int{1, 0}).Code)

	rr = api.do(t, http.MethodGet, "/tournaments/"+id+"/standings", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var standings struct {
		Standings []models.Standing `json:"standings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &standings))
	require.Len(t, standings.Standings, 4)
	assert.Equal(t, 1, standings.Standings[0].Place)
	assert.Equal(t, 1, standings.Standings[0].Entrant.Seed)

	rr = api.do(t, http.MethodDelete, "/tournaments/"+id, api.token(t, models.RoleViewer), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = api.do(t, http.MethodDelete, "/tournaments/"+id, organizer, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = api.do(t, http.MethodGet, "/tournaments/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWebSocketFeed(t *testing.T) {
	api := newTestAPI(t)
	created := api.create(t, 4)
	id := created.Tournament.ID.String()

	server := httptest.NewServer(api.router)
	t.Cleanup(server.Close)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/tournaments/"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+uuid.NewString(), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+id, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	room := realtime.RoomForTournament(id)
	require.Eventually(t, func() bool { return api.hub.RoomSize(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	rr := api.do(t, http.MethodPost, "/tournaments/"+id+"/matches/0/resolve", api.token(t, models.RoleOrganizer),
		map[string]interface{}{"placements": []int{0, 3}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string `json:"type"`
		RoomID  string `json:"room_id"`
		Payload struct {
			TournamentID uuid.UUID `json:"tournament_id"`
			Match        struct {
				ID       int  `json:"id"`
				Resolved bool `json:"resolved"`
			} `json:"match"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, realtime.MessageMatchResolved, msg.Type)
	assert.Equal(t, room, msg.RoomID)
	assert.Equal(t, created.Tournament.ID, msg.Payload.TournamentID)
	assert.Equal(t, 0, msg.Payload.Match.ID)
	assert.True(t, msg.Payload.Match.Resolved)
}

func TestWebSocketFeed_GrandFinalSendsOneDocumentPerFrame(t *testing.T) {
	api := newTestAPI(t)
	server := httptest.NewServer(api.router)
	t.Cleanup(server.Close)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/tournaments/"
	organizer := api.token(t, models.RoleOrganizer)

	for i := 0; i < 10; i++ {
		created := api.create(t, 2)
		id := created.Tournament.ID.String()

		conn, _, err := websocket.DefaultDialer.Dial(wsURL+id, nil)
		require.NoError(t, err)

		room := realtime.RoomForTournament(id)
		require.Eventually(t, func() bool { return api.hub.RoomSize(room) == 1 }, 2*time.Second, 10*time.Millisecond)

		rr := api.do(t, http.MethodPost, "/tournaments/"+id+"/matches/0/resolve", organizer,
			map[string]interface{}{"placements": []int{0, 1}})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var types []string
		for len(types) < 2 {
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
			kind, payload, err := conn.ReadMessage()
			require.NoError(t, err)
			require.Equal(t, websocket.TextMessage, kind)

			var msg struct {
				Type    string `json:"type"`
				Payload struct {
					Completed bool              `json:"completed"`
					Standings []models.Standing `json:"standings"`
				} `json:"payload"`
			}
			require.NoError(t, json.Unmarshal(payload, &msg), "frame %q", payload)
			if msg.Type == realtime.MessageTournamentCompleted {
				require.Len(t, msg.Payload.Standings, 2)
				assert.Equal(t, 0, msg.Payload.Standings[0].Entrant.Seed)
			} else {
				assert.True(t, msg.Payload.Completed)
			}
			types = append(types, msg.Type)
		}
		assert.Equal(t, []string{realtime.MessageMatchResolved, realtime.MessageTournamentCompleted}, types)
		conn.Close()
	}
}
