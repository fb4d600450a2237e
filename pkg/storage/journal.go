package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yurykabanov/organizer/pkg/domain"
)

const (
	passInsertQuery = `
		INSERT INTO passes (
			id, job, started_at, finished_at,
			moved, renamed, overwritten, skipped, failed,
			error
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	moveInsertQuery = `
		INSERT INTO moves (pass_id, file, target, outcome, error)
		VALUES (?, ?, ?, ?, ?)
	`

	passSelectLatest = `
		SELECT
			p.id, p.job, p.started_at, p.finished_at,
			p.moved, p.renamed, p.overwritten, p.skipped, p.failed,
			p.error
		FROM passes p
		WHERE p.started_at = (
			SELECT MAX(l.started_at) FROM passes l WHERE l.job = p.job
		)
		ORDER BY p.job
	`

	passSelectRecentByJob = `
		SELECT
			id, job, started_at, finished_at,
			moved, renamed, overwritten, skipped, failed,
			error
		FROM passes
		WHERE job = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	moveSelectByPass = `
		SELECT file, target, outcome, error
		FROM moves
		WHERE pass_id = ?
		ORDER BY id
	`
)

type passRow struct {
	Id          string
	Job         string
	StartedAt   time.Time
	FinishedAt  time.Time
	Moved       int
	Renamed     int
	Overwritten int
	Skipped     int
	Failed      int
	Error       string
}

func (r passRow) toDomain() domain.Pass {
	return domain.Pass{
		Id:          r.Id,
		Job:         r.Job,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Moved:       r.Moved,
		Renamed:     r.Renamed,
		Overwritten: r.Overwritten,
		Skipped:     r.Skipped,
		Failed:      r.Failed,
		Error:       r.Error,
	}
}

type moveRow struct {
	File    string
	Target  string
	Outcome string
	Error   string
}

// JournalRepository stores every pass and its moves. It expects a db with
// util.CamelToSnakeCase as the mapper.
type JournalRepository struct {
	db *sqlx.DB
}

func NewJournalRepository(db *sqlx.DB) *JournalRepository {
	return &JournalRepository{
		db: db,
	}
}

func (r *JournalRepository) RecordPass(ctx context.Context, pass domain.Pass) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Unable to begin transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(
		ctx, passInsertQuery,
		pass.Id, pass.Job, pass.StartedAt.UTC(), pass.FinishedAt.UTC(),
		pass.Moved, pass.Renamed, pass.Overwritten, pass.Skipped, pass.Failed,
		pass.Error,
	)
	if err != nil {
		return errors.Wrap(err, "Unable to insert pass")
	}

	if len(pass.Moves) > 0 {
		stmt, err := tx.PreparexContext(ctx, moveInsertQuery)
		if err != nil {
			return errors.Wrap(err, "Unable to prepare move insert")
		}
		defer stmt.Close()

		for _, move := range pass.Moves {
			_, err = stmt.ExecContext(ctx, pass.Id, move.File, move.Target, string(move.Outcome), move.Error)
			if err != nil {
				return errors.Wrap(err, "Unable to insert move")
			}
		}
	}

	return tx.Commit()
}

// FindLatestPasses returns the most recent pass of every job, ordered by job.
func (r *JournalRepository) FindLatestPasses(ctx context.Context) ([]domain.Pass, error) {
	var rows []passRow

	err := r.db.SelectContext(ctx, &rows, passSelectLatest)
	if err != nil {
		return nil, err
	}

	passes := make([]domain.Pass, 0, len(rows))
	for _, row := range rows {
		passes = append(passes, row.toDomain())
	}

	return passes, nil
}

func (r *JournalRepository) FindRecentPasses(ctx context.Context, job string, limit int) ([]domain.Pass, error) {
	var rows []passRow

	err := r.db.SelectContext(ctx, &rows, passSelectRecentByJob, job, limit)
	if err != nil {
		return nil, err
	}

	passes := make([]domain.Pass, 0, len(rows))
	for _, row := range rows {
		pass := row.toDomain()

		pass.Moves, err = r.findMoves(ctx, pass.Id)
		if err != nil {
			return nil, err
		}

		passes = append(passes, pass)
	}

	return passes, nil
}

func (r *JournalRepository) findMoves(ctx context.Context, passId string) ([]domain.Move, error) {
	var rows []moveRow

	err := r.db.SelectContext(ctx, &rows, moveSelectByPass, passId)
	if err != nil {
		return nil, err
	}

	moves := make([]domain.Move, 0, len(rows))
	for _, row := range rows {
		moves = append(moves, domain.Move{
			File:    row.File,
			Target:  row.Target,
			Outcome: domain.Outcome(row.Outcome),
			Error:   row.Error,
		})
	}

	return moves, nil
}
