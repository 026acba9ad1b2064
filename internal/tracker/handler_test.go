package tracker_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revolveme/backend/internal/kvstore"
	"github.com/revolveme/backend/internal/telemetry/metrics"
	"github.com/revolveme/backend/internal/tracker"
)

func handlerTestSetup(t *testing.T) (*mux.Router, *tracker.Session, *kvstore.TestStore) {
	t.Helper()

	store := kvstore.NewTestStore()
	session := tracker.NewSession(context.Background(), store, sessionTestPlan())

	router := mux.NewRouter()
	handler := tracker.NewHandler(session, metrics.NewTestManager())
	handler.SetupRoutes(router)

	return router, session, store
}

func TestHandler_Routes(t *testing.T) {
	router, _, _ := handlerTestSetup(t)

	for _, tc := range []struct {
		name   string
		method string
		path   string
	}{
		{name: "state", method: "GET", path: "/tracker/state"},
		{name: "plan", method: "GET", path: "/tracker/plan"},
		{name: "get users", method: "GET", path: "/tracker/users"},
		{name: "add user", method: "POST", path: "/tracker/users"},
		{name: "rename user", method: "PUT", path: "/tracker/users/Ana"},
		{name: "delete user", method: "DELETE", path: "/tracker/users/Ana"},
		{name: "set weight", method: "PUT", path: "/tracker/exercise/benchpress/weight"},
		{name: "set note", method: "PUT", path: "/tracker/exercise/benchpress/note"},
		{name: "toggle", method: "POST", path: "/tracker/exercise/benchpress/toggle"},
		{name: "progress", method: "GET", path: "/tracker/progress"},
		{name: "records", method: "GET", path: "/tracker/records"},
		{name: "streak", method: "GET", path: "/tracker/streak"},
		{name: "get goals", method: "GET", path: "/tracker/goals"},
		{name: "set year goal", method: "PUT", path: "/tracker/goals/year"},
		{name: "lock year goal", method: "POST", path: "/tracker/goals/year/lock"},
		{name: "set weight goal", method: "PUT", path: "/tracker/goals/weight"},
		{name: "lock weight goal", method: "POST", path: "/tracker/goals/weight/lock"},
		{name: "collapsed", method: "PUT", path: "/tracker/collapsed/monday"},
		{name: "dismiss help", method: "POST", path: "/tracker/help/dismiss"},
		{name: "get timer", method: "GET", path: "/tracker/timer"},
		{name: "start timer", method: "POST", path: "/tracker/timer/start"},
		{name: "stop timer", method: "POST", path: "/tracker/timer/stop"},
		{name: "reset timer", method: "POST", path: "/tracker/timer/reset"},
		{name: "reset all", method: "POST", path: "/tracker/reset"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			require.NoError(t, err)

			var match mux.RouteMatch
			assert.True(t, router.Match(req, &match), "no route for %s %s", tc.method, tc.path)
		})
	}
}

func TestHandler_AddRenameDeleteUser(t *testing.T) {
	router, session, _ := handlerTestSetup(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tracker/users", bytes.NewReader([]byte(`{"name":"Ana"}`)))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var usersResp tracker.UsersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usersResp))
	assert.Equal(t, []string{tracker.DefaultUser, "Ana"}, usersResp.Users)

	// duplicate add rejected
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/tracker/users", bytes.NewReader([]byte(`{"name":"Ana"}`)))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("PUT", "/tracker/users/Ana", bytes.NewReader([]byte(`{"name":"Anastasija"}`)))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{tracker.DefaultUser, "Anastasija"}, session.Users())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/tracker/users/Anastasija", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{tracker.DefaultUser}, session.Users())

	// deleting the last user rejected
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/tracker/users/User%201", nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_SetWeight(t *testing.T) {
	router, session, _ := handlerTestSetup(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		"PUT", "/tracker/exercise/benchpress/weight",
		bytes.NewReader([]byte(`{"user":"User 1","value":"72.5"}`)),
	)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tracker.SetWeightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "benchpress", resp.ExerciseID)
	assert.Equal(t, 72.5, resp.Kilos)

	kilos, ok := session.Weight("benchpress", tracker.DefaultUser)
	assert.True(t, ok)
	assert.Equal(t, 72.5, kilos)

	// unknown user rejected
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(
		"PUT", "/tracker/exercise/benchpress/weight",
		bytes.NewReader([]byte(`{"user":"Nobody","value":"60"}`)),
	)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ToggleCompletion(t *testing.T) {
	router, session, _ := handlerTestSetup(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tracker/exercise/benchpress/toggle", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tracker.ToggleCompletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Completed)
	assert.Equal(t, 1, resp.Streak.Count)
	assert.Equal(t, tracker.Progress{Completed: 1, Total: 3}, resp.Progress)
	assert.True(t, session.IsCompleted("benchpress"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/tracker/exercise/benchpress/toggle", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Completed)
	// un-completing does not roll the streak back
	assert.Equal(t, 1, resp.Streak.Count)
}

func TestHandler_Goals(t *testing.T) {
	router, session, _ := handlerTestSetup(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/tracker/goals/year", bytes.NewReader([]byte(`{"value":"bench 100kg"}`)))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/tracker/goals/year/lock", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tracker.GoalsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Year.Locked)
	assert.Equal(t, "bench 100kg", resp.Year.Value)

	// editing the locked goal rejected
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("PUT", "/tracker/goals/year", bytes.NewReader([]byte(`{"value":"squat 200kg"}`)))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bench 100kg", session.Goals().Year.Value)
}

func TestHandler_GetState(t *testing.T) {
	router, session, _ := handlerTestSetup(t)

	ctx := context.Background()
	require.NoError(t, session.AddUser(ctx, "Ana"))
	_, err := session.SetWeight(ctx, "benchpress", "Ana", "60")
	require.NoError(t, err)
	session.ToggleCompletion(ctx, "benchpress")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tracker/state", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var state tracker.StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, []string{tracker.DefaultUser, "Ana"}, state.Users)
	assert.Equal(t, map[string]float64{"Ana_benchpress": 60}, state.Weights)
	assert.True(t, state.Completed["benchpress"])
	assert.Equal(t, 1, state.Streak.Count)
	assert.Equal(t, tracker.Progress{Completed: 1, Total: 3}, state.Progress)
	assert.Equal(t, "Ana", state.Records["benchpress"].User)
}

func TestHandler_ResetAll(t *testing.T) {
	router, session, store := handlerTestSetup(t)

	ctx := context.Background()
	require.NoError(t, session.AddUser(ctx, "Ana"))
	session.ToggleCompletion(ctx, "benchpress")
	require.Positive(t, store.Len())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tracker/reset", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{tracker.DefaultUser}, session.Users())
	assert.Equal(t, 0, store.Len())
}

func TestHandler_Timer(t *testing.T) {
	router, _, _ := handlerTestSetup(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tracker/timer/start", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var timer tracker.TimerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &timer))
	assert.True(t, timer.Running)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/tracker/timer/stop", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &timer))
	assert.False(t, timer.Running)
}
