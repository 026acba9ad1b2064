package tracker

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/revolveme/backend/internal/telemetry/metrics"
	"github.com/revolveme/backend/internal/telemetry/tracing"
	"github.com/revolveme/backend/pkg"
)

type Handler struct {
	session        *Session
	metricsManager *metrics.Manager
}

func NewHandler(session *Session, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		session:        session,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	trackerRouter := router.PathPrefix("/tracker").Subrouter()

	trackerRouter.HandleFunc("/state", handler.HandleGetState).Methods("GET", "OPTIONS")
	trackerRouter.HandleFunc("/plan", handler.HandleGetPlan).Methods("GET", "OPTIONS")

	trackerRouter.HandleFunc("/users", handler.HandleGetUsers).Methods("GET", "OPTIONS")
	trackerRouter.HandleFunc("/users", handler.HandleAddUser).Methods("POST", "OPTIONS")
	trackerRouter.HandleFunc("/users/{name}", handler.HandleRenameUser).Methods("PUT", "OPTIONS")
	trackerRouter.HandleFunc("/users/{name}", handler.HandleDeleteUser).Methods("DELETE", "OPTIONS")

	trackerRouter.HandleFunc("/exercise/{id}/weight", handler.HandleSetWeight).Methods("PUT", "OPTIONS")
	trackerRouter.HandleFunc("/exercise/{id}/note", handler.HandleSetNote).Methods("PUT", "OPTIONS")
	trackerRouter.HandleFunc("/exercise/{id}/toggle", handler.HandleToggleCompletion).Methods("POST", "OPTIONS")

	trackerRouter.HandleFunc("/progress", handler.HandleGetProgress).Methods("GET", "OPTIONS")
	trackerRouter.HandleFunc("/records", handler.HandleGetRecords).Methods("GET", "OPTIONS")
	trackerRouter.HandleFunc("/streak", handler.HandleGetStreak).Methods("GET", "OPTIONS")

	trackerRouter.HandleFunc("/goals", handler.HandleGetGoals).Methods("GET", "OPTIONS")
	trackerRouter.HandleFunc("/goals/year", handler.HandleSetYearGoal).Methods("PUT", "OPTIONS")
	trackerRouter.HandleFunc("/goals/year/lock", handler.HandleLockYearGoal).Methods("POST", "OPTIONS")
	trackerRouter.HandleFunc("/goals/weight", handler.HandleSetWeightGoal).Methods("PUT", "OPTIONS")
	trackerRouter.HandleFunc("/goals/weight/lock", handler.HandleLockWeightGoal).Methods("POST", "OPTIONS")

	trackerRouter.HandleFunc("/collapsed/{section}", handler.HandleSetCollapsed).Methods("PUT", "OPTIONS")
	trackerRouter.HandleFunc("/help/dismiss", handler.HandleDismissHelp).Methods("POST", "OPTIONS")

	trackerRouter.HandleFunc("/timer", handler.HandleGetTimer).Methods("GET", "OPTIONS")
	trackerRouter.HandleFunc("/timer/start", handler.HandleStartTimer).Methods("POST", "OPTIONS")
	trackerRouter.HandleFunc("/timer/stop", handler.HandleStopTimer).Methods("POST", "OPTIONS")
	trackerRouter.HandleFunc("/timer/reset", handler.HandleResetTimer).Methods("POST", "OPTIONS")

	trackerRouter.HandleFunc("/reset", handler.HandleResetAll).Methods("POST", "OPTIONS")
}

// StateResponse is the full session snapshot used by the UI on load, so the
// client needs a single request to render everything.
type StateResponse struct {
	Users         []string                  `json:"users"`
	Weights       map[string]float64        `json:"weights"`
	Notes         map[string]string         `json:"notes"`
	Completed     map[string]bool           `json:"completed"`
	Streak        StreakResponse            `json:"streak"`
	Progress      Progress                  `json:"progress"`
	Records       map[string]PersonalRecord `json:"records"`
	Goals         GoalsResponse             `json:"goals"`
	Collapsed     map[string]bool           `json:"collapsed"`
	HelpDismissed bool                      `json:"helpDismissed"`
	Timer         TimerResponse             `json:"timer"`
}

type StreakResponse struct {
	Count    int    `json:"count"`
	LastDate string `json:"lastDate"`
}

type GoalsResponse struct {
	Year   YearGoal   `json:"year"`
	Weight WeightGoal `json:"weight"`
}

type TimerResponse struct {
	ElapsedSeconds int  `json:"elapsedSeconds"`
	Running        bool `json:"running"`
}

func (handler *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.state")
	defer span.End()

	s := handler.session
	streak := s.Streak()
	goals := s.Goals()

	stateJson, err := json.Marshal(StateResponse{
		Users:         s.Users(),
		Weights:       s.WeightsSnapshot(),
		Notes:         s.NotesSnapshot(),
		Completed:     s.CompletedSnapshot(),
		Streak:        StreakResponse{Count: streak.Count, LastDate: streak.LastDate},
		Progress:      s.Progress(),
		Records:       s.PersonalRecords(),
		Goals:         GoalsResponse{Year: goals.Year, Weight: goals.Weight},
		Collapsed:     s.Collapsed(),
		HelpDismissed: s.HelpDismissed(),
		Timer: TimerResponse{
			ElapsedSeconds: s.TimerElapsed(),
			Running:        s.TimerRunning(),
		},
	})
	if err != nil {
		log.Errorf("failed to marshal session state: %s", err)
		http.Error(w, "failed to get state", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, stateJson)
}

func (handler *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	planJson, err := json.Marshal(handler.session.Plan())
	if err != nil {
		log.Errorf("failed to marshal workout plan: %s", err)
		http.Error(w, "failed to get plan", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, planJson)
}

//// users

type UsersResponse struct {
	Users []string `json:"users"`
}

func (handler *Handler) HandleGetUsers(w http.ResponseWriter, r *http.Request) {
	handler.writeUsers(w)
}

func (handler *Handler) HandleAddUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.addUser")
	defer span.End()

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add user, unmarshal json params: %s", err)
		http.Error(w, "add user failed", http.StatusBadRequest)
		return
	}

	if err := handler.session.AddUser(ctx, req.Name); err != nil {
		writeSessionError(w, "add user", err)
		return
	}
	handler.writeUsers(w)
}

func (handler *Handler) HandleRenameUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.renameUser")
	defer span.End()

	oldName := mux.Vars(r)["name"]

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("rename user, unmarshal json params: %s", err)
		http.Error(w, "rename user failed", http.StatusBadRequest)
		return
	}

	if err := handler.session.RenameUser(ctx, oldName, req.Name); err != nil {
		writeSessionError(w, "rename user", err)
		return
	}
	handler.writeUsers(w)
}

func (handler *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.deleteUser")
	defer span.End()

	name := mux.Vars(r)["name"]
	if err := handler.session.DeleteUser(ctx, name); err != nil {
		writeSessionError(w, "delete user", err)
		return
	}
	handler.writeUsers(w)
}

func (handler *Handler) writeUsers(w http.ResponseWriter) {
	usersJson, err := json.Marshal(UsersResponse{Users: handler.session.Users()})
	if err != nil {
		log.Errorf("failed to marshal users: %s", err)
		http.Error(w, "failed to get users", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, usersJson)
}

//// weights / notes / completion

type SetWeightResponse struct {
	ExerciseID string  `json:"exerciseId"`
	User       string  `json:"user"`
	Kilos      float64 `json:"kilos"`
}

func (handler *Handler) HandleSetWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.setWeight")
	defer span.End()

	exerciseID := mux.Vars(r)["id"]

	var req struct {
		User  string `json:"user"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set weight, unmarshal json params: %s", err)
		http.Error(w, "set weight failed", http.StatusBadRequest)
		return
	}

	kilos, err := handler.session.SetWeight(ctx, exerciseID, req.User, req.Value)
	if err != nil {
		writeSessionError(w, "set weight", err)
		return
	}

	handler.metricsManager.CounterWeightsLogged.Inc()

	respJson, err := json.Marshal(SetWeightResponse{
		ExerciseID: exerciseID,
		User:       req.User,
		Kilos:      kilos,
	})
	if err != nil {
		log.Errorf("failed to marshal set weight response: %s", err)
		http.Error(w, "set weight failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleSetNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.setNote")
	defer span.End()

	exerciseID := mux.Vars(r)["id"]

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set note, unmarshal json params: %s", err)
		http.Error(w, "set note failed", http.StatusBadRequest)
		return
	}

	handler.session.SetNote(ctx, exerciseID, req.Text)
	pkg.WriteResponse(w, pkg.ContentType.Text, "saved", http.StatusOK)
}

type ToggleCompletionResponse struct {
	ExerciseID string         `json:"exerciseId"`
	Completed  bool           `json:"completed"`
	Streak     StreakResponse `json:"streak"`
	Progress   Progress       `json:"progress"`
}

func (handler *Handler) HandleToggleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.toggleCompletion")
	defer span.End()

	exerciseID := mux.Vars(r)["id"]
	completed := handler.session.ToggleCompletion(ctx, exerciseID)

	handler.metricsManager.CounterCompletionsToggled.Inc()
	streak := handler.session.Streak()
	handler.metricsManager.GaugeWorkoutStreak.Set(float64(streak.Count))

	respJson, err := json.Marshal(ToggleCompletionResponse{
		ExerciseID: exerciseID,
		Completed:  completed,
		Streak:     StreakResponse{Count: streak.Count, LastDate: streak.LastDate},
		Progress:   handler.session.Progress(),
	})
	if err != nil {
		log.Errorf("failed to marshal toggle response: %s", err)
		http.Error(w, "toggle failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

//// analytics

func (handler *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	progressJson, err := json.Marshal(handler.session.Progress())
	if err != nil {
		log.Errorf("failed to marshal progress: %s", err)
		http.Error(w, "failed to get progress", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, progressJson)
}

func (handler *Handler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	recordsJson, err := json.Marshal(handler.session.PersonalRecords())
	if err != nil {
		log.Errorf("failed to marshal personal records: %s", err)
		http.Error(w, "failed to get records", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, recordsJson)
}

func (handler *Handler) HandleGetStreak(w http.ResponseWriter, r *http.Request) {
	streak := handler.session.Streak()
	streakJson, err := json.Marshal(StreakResponse{
		Count:    streak.Count,
		LastDate: streak.LastDate,
	})
	if err != nil {
		log.Errorf("failed to marshal streak: %s", err)
		http.Error(w, "failed to get streak", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, streakJson)
}

//// goals

func (handler *Handler) HandleGetGoals(w http.ResponseWriter, r *http.Request) {
	handler.writeGoals(w)
}

func (handler *Handler) HandleSetYearGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.setYearGoal")
	defer span.End()

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set year goal, unmarshal json params: %s", err)
		http.Error(w, "set year goal failed", http.StatusBadRequest)
		return
	}

	if err := handler.session.SetYearGoalDraft(ctx, req.Value); err != nil {
		writeSessionError(w, "set year goal", err)
		return
	}
	handler.writeGoals(w)
}

func (handler *Handler) HandleLockYearGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.lockYearGoal")
	defer span.End()

	handler.session.LockYearGoal(ctx)
	handler.writeGoals(w)
}

func (handler *Handler) HandleSetWeightGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.setWeightGoal")
	defer span.End()

	var req struct {
		Kilos float64 `json:"kilos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set weight goal, unmarshal json params: %s", err)
		http.Error(w, "set weight goal failed", http.StatusBadRequest)
		return
	}

	if err := handler.session.SetWeightGoalDraft(ctx, req.Kilos); err != nil {
		writeSessionError(w, "set weight goal", err)
		return
	}
	handler.writeGoals(w)
}

func (handler *Handler) HandleLockWeightGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.lockWeightGoal")
	defer span.End()

	handler.session.LockWeightGoal(ctx)
	handler.writeGoals(w)
}

func (handler *Handler) writeGoals(w http.ResponseWriter) {
	goals := handler.session.Goals()
	goalsJson, err := json.Marshal(GoalsResponse{
		Year:   goals.Year,
		Weight: goals.Weight,
	})
	if err != nil {
		log.Errorf("failed to marshal goals: %s", err)
		http.Error(w, "failed to get goals", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, goalsJson)
}

//// auxiliary preferences

func (handler *Handler) HandleSetCollapsed(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.setCollapsed")
	defer span.End()

	section := mux.Vars(r)["section"]

	var req struct {
		Collapsed bool `json:"collapsed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set collapsed, unmarshal json params: %s", err)
		http.Error(w, "set collapsed failed", http.StatusBadRequest)
		return
	}

	handler.session.SetCollapsed(ctx, section, req.Collapsed)
	pkg.WriteResponse(w, pkg.ContentType.Text, "saved", http.StatusOK)
}

func (handler *Handler) HandleDismissHelp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.dismissHelp")
	defer span.End()

	handler.session.DismissHelp(ctx)
	pkg.WriteResponse(w, pkg.ContentType.Text, "dismissed", http.StatusOK)
}

//// stopwatch

func (handler *Handler) HandleGetTimer(w http.ResponseWriter, r *http.Request) {
	handler.writeTimer(w)
}

func (handler *Handler) HandleStartTimer(w http.ResponseWriter, r *http.Request) {
	handler.session.StartTimer()
	handler.writeTimer(w)
}

func (handler *Handler) HandleStopTimer(w http.ResponseWriter, r *http.Request) {
	handler.session.StopTimer()
	handler.writeTimer(w)
}

func (handler *Handler) HandleResetTimer(w http.ResponseWriter, r *http.Request) {
	handler.session.ResetTimer()
	handler.writeTimer(w)
}

func (handler *Handler) writeTimer(w http.ResponseWriter) {
	timerJson, err := json.Marshal(TimerResponse{
		ElapsedSeconds: handler.session.TimerElapsed(),
		Running:        handler.session.TimerRunning(),
	})
	if err != nil {
		log.Errorf("failed to marshal timer: %s", err)
		http.Error(w, "failed to get timer", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, timerJson)
}

//// reset

func (handler *Handler) HandleResetAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.resetAll")
	defer span.End()

	// the client shows the are-you-sure dialog, this endpoint wipes
	// unconditionally
	handler.session.ResetAll(ctx)

	handler.metricsManager.CounterSessionResets.Inc()
	handler.metricsManager.GaugeWorkoutStreak.Set(0)

	log.Warnf("session data reset requested from %s, all data wiped", pkg.ReadUserIP(r))
	pkg.WriteResponse(w, pkg.ContentType.Text, "reset done", http.StatusOK)
}

func writeSessionError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrDuplicateUser),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrLastUser),
		errors.Is(err, ErrGoalLocked):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
