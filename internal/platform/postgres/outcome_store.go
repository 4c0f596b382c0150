package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/phrazzld/feedsieve/internal/domain"
	"github.com/phrazzld/feedsieve/internal/platform/logger"
	"github.com/phrazzld/feedsieve/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// psql builds queries with PostgreSQL-style $N placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresOutcomeStore implements the store.OutcomeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresOutcomeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOutcomeStore creates a new PostgreSQL implementation of the
// OutcomeStore interface. If logger is nil, a default logger will be used.
func NewPostgresOutcomeStore(db store.DBTX, logger *slog.Logger) *PostgresOutcomeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOutcomeStore{
		db:     db,
		logger: logger.With(slog.String("component", "outcome_store")),
	}
}

// Ensure PostgresOutcomeStore implements store.OutcomeStore interface
var _ store.OutcomeStore = (*PostgresOutcomeStore)(nil)

// Create implements store.OutcomeStore.Create
// It appends a new outcome record with the verdict payload stored as JSONB.
func (s *PostgresOutcomeStore) Create(ctx context.Context, record *domain.OutcomeRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("outcome record validation failed during create",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return err
	}

	var verdictJSON []byte
	if record.Verdict != nil {
		data, err := json.Marshal(record.Verdict)
		if err != nil {
			return fmt.Errorf("failed to marshal verdict: %w", err)
		}
		verdictJSON = data
	}

	query := `
		INSERT INTO outcome_records (id, source_url, title, summary, article_url,
			disposition, verdict, publish_id, error_detail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.SourceURL,
		record.Title,
		record.Summary,
		record.ArticleURL,
		record.Disposition,
		verdictJSON,
		nullableString(record.PublishID),
		nullableString(record.ErrorDetail),
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create outcome record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()),
			slog.String("disposition", string(record.Disposition)))
		return MapError(err)
	}

	log.Info("outcome record created",
		slog.String("record_id", record.ID.String()),
		slog.String("disposition", string(record.Disposition)),
		slog.String("source_url", record.SourceURL))
	return nil
}

// List implements store.OutcomeStore.List
// It returns outcome records newest-first, with optional disposition and
// title-search filters and page/page_size paging.
func (s *PostgresOutcomeStore) List(ctx context.Context, filter store.ListFilter) (*store.OutcomePage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	conditions := squirrel.And{}
	if filter.Disposition != "" {
		conditions = append(conditions, squirrel.Eq{"disposition": filter.Disposition})
	}
	if filter.Search != "" {
		conditions = append(conditions, squirrel.ILike{"title": "%" + filter.Search + "%"})
	}

	countQuery := psql.Select("COUNT(*)").From("outcome_records")
	if len(conditions) > 0 {
		countQuery = countQuery.Where(conditions)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		log.Error("failed to count outcome records", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	listQuery := psql.Select(
		"id", "source_url", "title", "summary", "article_url",
		"disposition", "verdict", "publish_id", "error_detail",
		"created_at", "updated_at",
	).
		From("outcome_records").
		OrderBy("created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize))
	if len(conditions) > 0 {
		listQuery = listQuery.Where(conditions)
	}

	listSQL, listArgs, err := listQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		log.Error("failed to list outcome records", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*domain.OutcomeRecord, 0, pageSize)
	for rows.Next() {
		record, err := scanOutcomeRecord(rows)
		if err != nil {
			log.Error("failed to scan outcome record row", slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating outcome record rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &store.OutcomePage{
		Records:    records,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// Stats implements store.OutcomeStore.Stats
// It aggregates dispositions for records created at or after since.
// The success rate counts every non-failed disposition as a success.
func (s *PostgresOutcomeStore) Stats(ctx context.Context, since time.Time) (*store.OutcomeStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	statsSQL, statsArgs, err := psql.Select("disposition", "COUNT(*)").
		From("outcome_records").
		Where(squirrel.GtOrEq{"created_at": since}).
		GroupBy("disposition").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build stats query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, statsSQL, statsArgs...)
	if err != nil {
		log.Error("failed to aggregate outcome stats", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stats := &store.OutcomeStats{}
	for rows.Next() {
		var disposition string
		var count int64
		if err := rows.Scan(&disposition, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}

		stats.Total += count
		switch domain.Disposition(disposition) {
		case domain.DispositionUseful:
			stats.Useful = count
		case domain.DispositionUseless:
			stats.Useless = count
		case domain.DispositionFailed:
			stats.Failed = count
		case domain.DispositionSkipped:
			stats.Skipped = count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	if stats.Total > 0 {
		succeeded := stats.Useful + stats.Useless + stats.Skipped
		stats.SuccessRate = float64(succeeded) / float64(stats.Total) * 100
	}

	return stats, nil
}

// scanOutcomeRecord reads one outcome record row, decoding the nullable
// columns and the verdict JSONB payload.
func scanOutcomeRecord(rows *sql.Rows) (*domain.OutcomeRecord, error) {
	var record domain.OutcomeRecord
	var disposition string
	var verdictJSON []byte
	var publishID sql.NullString
	var errorDetail sql.NullString

	if err := rows.Scan(
		&record.ID,
		&record.SourceURL,
		&record.Title,
		&record.Summary,
		&record.ArticleURL,
		&disposition,
		&verdictJSON,
		&publishID,
		&errorDetail,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan outcome record: %w", err)
	}

	record.Disposition = domain.Disposition(disposition)
	record.PublishID = publishID.String
	record.ErrorDetail = errorDetail.String

	if len(verdictJSON) > 0 {
		var verdict domain.ClassificationVerdict
		if err := json.Unmarshal(verdictJSON, &verdict); err != nil {
			return nil, fmt.Errorf("failed to unmarshal verdict payload: %w", err)
		}
		record.Verdict = &verdict
	}

	return &record, nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
