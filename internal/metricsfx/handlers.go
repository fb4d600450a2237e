package metricsfx

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/organizer/pkg/domain"
	"github.com/yurykabanov/organizer/pkg/http/handler"
)

func PassMetricHandler(
	logger *logrus.Logger,
	jobs []domain.Job,
	repository handler.PassRepository,
) *handler.PassMetricHandler {
	return handler.NewPassMetricHandler(logger, jobs, repository)
}

func JobStateHandler(logger *logrus.Logger, tracker *domain.StateTracker) *handler.JobStateHandler {
	return handler.NewJobStateHandler(logger, tracker)
}

func RegisterHandlers(router *mux.Router, metrics *handler.PassMetricHandler, jobs *handler.JobStateHandler) {
	router.Handle("/metrics/jobs", metrics).Methods(http.MethodGet)
	router.Handle("/jobs", jobs).Methods(http.MethodGet)
}
