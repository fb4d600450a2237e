package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/organizer/pkg/appcontext"
	"github.com/yurykabanov/organizer/pkg/domain"
)

type JobStateSource interface {
	Snapshot() []domain.JobStatus
}

// JobStateHandler reports the live state of every job.
type JobStateHandler struct {
	logger logrus.FieldLogger
	source JobStateSource
}

func NewJobStateHandler(logger logrus.FieldLogger, source JobStateSource) *JobStateHandler {
	return &JobStateHandler{
		logger: logger,
		source: source,
	}
}

func (h *JobStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := appcontext.LoggerFromContext(h.logger, r.Context())

	writeJSON(logger, w, h.source.Snapshot())
}
