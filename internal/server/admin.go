package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"league-ladder/internal/config"
	"league-ladder/internal/constants"
	"league-ladder/internal/domain"
	"league-ladder/internal/metrics"
	"league-ladder/internal/middleware"
	"league-ladder/internal/pipeline"
	"league-ladder/internal/scheduler"
	"league-ladder/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type RunLister interface {
	ListByDate(ctx context.Context, runDate string) ([]domain.BatchRun, error)
}

type SeasonFinder interface {
	CurrentSeason(ctx context.Context, date time.Time) (domain.Season, error)
}

// Admin is the operator HTTP surface: health, metrics, manual runs and
// batch run markers.
type Admin struct {
	orchestrator *scheduler.Orchestrator
	runs         RunLister
	seasons      SeasonFinder
	metrics      *metrics.Metrics
	db           Pinger
	loc          *time.Location
	logger       zerolog.Logger
}

func NewAdmin(
	orchestrator *scheduler.Orchestrator,
	runs RunLister,
	seasons SeasonFinder,
	m *metrics.Metrics,
	db Pinger,
	cfg *config.Config,
	logger zerolog.Logger,
) *Admin {
	return &Admin{
		orchestrator: orchestrator,
		runs:         runs,
		seasons:      seasons,
		metrics:      m,
		db:           db,
		loc:          cfg.Location,
		logger:       logger.With().Str("component", "admin").Logger(),
	}
}

func (a *Admin) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID(a.logger), middleware.Recover)

	r.HandleFunc("/healthz", a.health).Methods(http.MethodGet)
	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/runs", a.triggerRun).Methods(http.MethodPost)
	r.HandleFunc("/runs/{date}", a.listRuns).Methods(http.MethodGet)
	r.HandleFunc("/seasons/current", a.currentSeason).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

func (a *Admin) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	if err := a.db.PingContext(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type runRequest struct {
	Date      string   `json:"date"`
	Pipelines []string `json:"pipelines"`
}

func (a *Admin) triggerRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	date := time.Now().In(a.loc)
	if req.Date != "" {
		parsed, err := a.parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		date = parsed
	}

	opts := scheduler.Options{}
	if len(req.Pipelines) > 0 {
		opts.Enabled = make(map[string]bool, len(req.Pipelines))
		for _, name := range req.Pipelines {
			if !slices.Contains(pipeline.Names, name) {
				writeError(w, http.StatusBadRequest, fmt.Errorf("unknown pipeline %q", name))
				return
			}
			opts.Enabled[name] = true
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), constants.ManualRunTimeout)
	defer cancel()

	zerolog.Ctx(r.Context()).Info().
		Str("date", date.Format(constants.DateLayout)).
		Strs("pipelines", req.Pipelines).
		Msg("manual run requested")

	report := a.orchestrator.Run(ctx, date, opts)
	status := http.StatusOK
	if report.Status == pipeline.StatusFailed {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, report)
}

type batchRunResponse struct {
	Pipeline   string    `json:"pipeline"`
	Stage      string    `json:"stage"`
	RunID      string    `json:"run_id"`
	Status     string    `json:"status"`
	Affected   int       `json:"affected"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (a *Admin) listRuns(w http.ResponseWriter, r *http.Request) {
	day := mux.Vars(r)["date"]
	if _, err := a.parseDate(day); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	runs, err := a.runs.ListByDate(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]batchRunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, batchRunResponse{
			Pipeline:   run.Pipeline,
			Stage:      run.Stage,
			RunID:      run.RunID,
			Status:     run.Status,
			Affected:   run.Affected,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type seasonResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Week       int    `json:"week"`
	FinalWeek  bool   `json:"final_week"`
	QueriedFor string `json:"date"`
}

func (a *Admin) currentSeason(w http.ResponseWriter, r *http.Request) {
	date := time.Now().In(a.loc)
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := a.parseDate(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		date = parsed
	}
	date = domain.Day(date)

	season, err := a.seasons.CurrentSeason(r.Context(), date)
	if errors.Is(err, service.ErrNoActiveSeason) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, seasonResponse{
		ID:         season.ID,
		Name:       season.Name,
		StartDate:  season.StartDate.Format(constants.DateLayout),
		EndDate:    season.EndDate.Format(constants.DateLayout),
		Week:       service.WeekOfSeason(season, date),
		FinalWeek:  service.IsFinalWeek(season, date),
		QueriedFor: date.Format(constants.DateLayout),
	})
}

func (a *Admin) parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(constants.DateLayout, s, a.loc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
