package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/albmartin/po-intake/internal/workflow"
	"github.com/albmartin/po-intake/pkg/pagination"
	"github.com/albmartin/po-intake/pkg/query"
	"github.com/albmartin/po-intake/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a run repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Sender", "Subject", "POID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) FindByMessage(ctx context.Context, messageID string) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("MessageID", messageID)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Record(ctx context.Context, st workflow.State) (*Run, error) {
	fieldsJSON, err := json.Marshal(orEmptyMap(st.Fields))
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	confidencesJSON, err := json.Marshal(orEmptyConfidences(st.Confidences))
	if err != nil {
		return nil, fmt.Errorf("marshal confidences: %w", err)
	}
	warningsJSON, err := json.Marshal(orEmptySlice(st.ExtractionWarnings))
	if err != nil {
		return nil, fmt.Errorf("marshal extraction_warnings: %w", err)
	}
	missingJSON, err := json.Marshal(orEmptySlice(st.MissingFields))
	if err != nil {
		return nil, fmt.Errorf("marshal missing_fields: %w", err)
	}
	trajectoryJSON, err := json.Marshal(orEmptySlice(st.Trajectory))
	if err != nil {
		return nil, fmt.Errorf("marshal trajectory: %w", err)
	}
	actionsJSON, err := json.Marshal(orEmptySlice(st.ActionsLog))
	if err != nil {
		return nil, fmt.Errorf("marshal actions_log: %w", err)
	}

	insert := `
		INSERT INTO runs(
			id, message_id, sender, subject, is_valid_po, po_id,
			final_status, error_message, fields, confidences,
			extraction_warnings, missing_fields, trajectory, actions_log,
			confirmation_sent, missing_info_sent, row_appended,
			attachment_key, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id`

	runID := st.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}

	id, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (uuid.UUID, error) {
		var id uuid.UUID
		err := tx.QueryRowContext(
			ctx, insert,
			runID, st.MessageID, st.Sender, st.Subject, st.IsValidPO, st.POID,
			st.FinalStatus, st.ErrorMessage, fieldsJSON, confidencesJSON,
			warningsJSON, missingJSON, trajectoryJSON, actionsJSON,
			st.ConfirmationSent, st.MissingInfoSent, st.RowAppended,
			st.AttachmentKey, time.Now().UTC(),
		).Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run recorded", "run_id", id, "final_status", st.FinalStatus)

	return r.Find(ctx, id)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM runs WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptyConfidences(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
