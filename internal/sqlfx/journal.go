package sqlfx

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yurykabanov/organizer/pkg/domain"
	"github.com/yurykabanov/organizer/pkg/http/handler"
	"github.com/yurykabanov/organizer/pkg/storage"
)

type emptyPassRepository struct{}

func (emptyPassRepository) FindLatestPasses(context.Context) ([]domain.Pass, error) {
	return nil, nil
}

func JournalRepository(db *sqlx.DB) (
	domain.PassRecorder,
	handler.PassRepository,
) {
	if db == nil {
		return domain.NoopRecorder(), emptyPassRepository{}
	}

	repo := storage.NewJournalRepository(db)

	return repo, repo
}
