package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/organizer/pkg/appcontext"
	"github.com/yurykabanov/organizer/pkg/domain"
)

type PassRepository interface {
	FindLatestPasses(context.Context) ([]domain.Pass, error)
}

type PassMetricHandler struct {
	logger logrus.FieldLogger
	jobs   []domain.Job
	repo   PassRepository
}

func NewPassMetricHandler(logger logrus.FieldLogger, jobs []domain.Job, repo PassRepository) *PassMetricHandler {
	return &PassMetricHandler{
		logger: logger,
		jobs:   jobs,
		repo:   repo,
	}
}

type passMetricResponse struct {
	JobName        string `json:"job_name"`
	Strategy       string `json:"strategy"`
	LastPassAt     int64  `json:"last_pass_at_mtime"`
	LastCompletion int64  `json:"last_completion_mtime"`
	Moved          int    `json:"moved"`
	Renamed        int    `json:"renamed"`
	Overwritten    int    `json:"overwritten"`
	Skipped        int    `json:"skipped"`
	Failed         int    `json:"failed"`
	Error          string `json:"error,omitempty"`
}

func (h *PassMetricHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	logger := appcontext.LoggerFromContext(h.logger, ctx)

	pp, err := h.repo.FindLatestPasses(ctx)
	if err != nil {
		logger.WithError(err).Error("Unable to query latest passes")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	latest := make(map[string]domain.Pass, len(pp))
	for _, p := range pp {
		latest[p.Job] = p
	}

	// configured jobs only, in configuration order
	result := make([]passMetricResponse, 0, len(h.jobs))

	for _, job := range h.jobs {
		p, ok := latest[job.Name]
		if !ok {
			continue
		}

		result = append(result, passMetricResponse{
			JobName:        job.Name,
			Strategy:       job.Strategy.String(),
			LastPassAt:     p.StartedAt.UnixNano() / 1e6,
			LastCompletion: p.FinishedAt.Sub(p.StartedAt).Nanoseconds() / 1e6,
			Moved:          p.Moved,
			Renamed:        p.Renamed,
			Overwritten:    p.Overwritten,
			Skipped:        p.Skipped,
			Failed:         p.Failed,
			Error:          p.Error,
		})
	}

	writeJSON(logger, w, result)
}

func writeJSON(logger logrus.FieldLogger, w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	err := enc.Encode(v)
	if err != nil {
		logger.WithError(err).Error("Unable to encode response")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
