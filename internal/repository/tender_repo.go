package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// TenderRepository - интерфейс для работы с тендерами.
type TenderRepository interface {
	GetTenderByCode(ctx context.Context, code string) (*models.Tender, error)
	CreateTender(ctx context.Context, tender *models.Tender) error
	UpdateTenderFields(ctx context.Context, tender *models.Tender, fields []string) error
	GetTenders(ctx context.Context, filter models.TenderFilter) ([]models.Tender, error)
	GetTenderStatistics(ctx context.Context) (*models.Statistics, error)
	WithinTx(ctx context.Context, fn func(repo TenderRepository) error) error
}

// querier - общее подмножество методов пула и транзакции.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresTenderRepository - реализация TenderRepository для базы данных.
type PostgresTenderRepository struct {
	DB querier
}

// NewPostgresTenderRepository создаёт новый экземпляр PostgresTenderRepository.
func NewPostgresTenderRepository(db *pgxpool.Pool) *PostgresTenderRepository {
	return &PostgresTenderRepository{DB: db}
}

// WithinTx выполняет fn в транзакции; при ошибке транзакция откатывается.
func (r *PostgresTenderRepository) WithinTx(ctx context.Context, fn func(repo TenderRepository) error) error {
	return pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
		return fn(&PostgresTenderRepository{DB: tx})
	})
}

// GetTenderByCode возвращает тендер по коду или models.ErrNotFound.
func (r *PostgresTenderRepository) GetTenderByCode(ctx context.Context, code string) (*models.Tender, error) {
	var tender models.Tender
	columns := tenderColumns(&tender)

	query := fmt.Sprintf(`SELECT %s FROM tenders WHERE code = $1`, columnNames(columns))
	err := r.DB.QueryRow(ctx, query, code).Scan(columnPointers(columns)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tender %s: %w", code, err)
	}
	return &tender, nil
}

// CreateTender создает новый тендер.
func (r *PostgresTenderRepository) CreateTender(ctx context.Context, tender *models.Tender) error {
	columns := tenderColumns(tender)
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO tenders (%s) VALUES (%s)`,
		columnNames(columns), strings.Join(placeholders, ", "))
	if _, err := r.DB.Exec(ctx, query, columnPointers(columns)...); err != nil {
		return fmt.Errorf("failed to insert tender %s: %w", tender.Code, err)
	}
	return nil
}

// UpdateTenderFields записывает перечисленные поля и updated_at.
func (r *PostgresTenderRepository) UpdateTenderFields(ctx context.Context, tender *models.Tender, fields []string) error {
	byName := make(map[string]any)
	for _, c := range tenderColumns(tender) {
		byName[c.name] = c.ptr
	}

	var updates []string
	var args []any
	argIndex := 1
	for _, field := range fields {
		ptr, ok := byName[field]
		if !ok || field == "code" || field == "created_at" {
			return fmt.Errorf("field %q cannot be updated", field)
		}
		updates = append(updates, fmt.Sprintf("%s = $%d", field, argIndex))
		args = append(args, ptr)
		argIndex++
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, tender.UpdatedAt)
	argIndex++

	query := fmt.Sprintf(`UPDATE tenders SET %s WHERE code = $%d`, strings.Join(updates, ", "), argIndex)
	args = append(args, tender.Code)

	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update tender %s: %w", tender.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetTenders возвращает список тендеров по фильтру.
func (r *PostgresTenderRepository) GetTenders(ctx context.Context, filter models.TenderFilter) ([]models.Tender, error) {
	var probe models.Tender
	query, args := buildTendersQuery(columnNames(tenderColumns(&probe)), filter)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenders: %w", err)
	}
	defer rows.Close()

	tenders := make([]models.Tender, 0)
	for rows.Next() {
		var tender models.Tender
		if err := rows.Scan(columnPointers(tenderColumns(&tender))...); err != nil {
			return nil, err
		}
		tenders = append(tenders, tender)
	}
	return tenders, rows.Err()
}

func buildTendersQuery(columns string, filter models.TenderFilter) (string, []any) {
	query := fmt.Sprintf(`SELECT %s FROM tenders`, columns)
	var filters []string
	var args []any
	argIndex := 1

	if filter.Search != "" {
		filters = append(filters, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIndex++
	}

	if len(filter.Statuses) > 0 {
		filters = append(filters, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.Statuses))
		argIndex++
	}

	if filter.StartDate != nil {
		filters = append(filters, fmt.Sprintf("creation_date >= $%d", argIndex))
		args = append(args, *filter.StartDate)
		argIndex++
	}

	if filter.EndDate != nil {
		filters = append(filters, fmt.Sprintf("creation_date <= $%d", argIndex))
		args = append(args, *filter.EndDate)
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, code LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Skip)
	return query, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetTenderStatistics считает агрегаты напрямую по таблице.
func (r *PostgresTenderRepository) GetTenderStatistics(ctx context.Context) (*models.Statistics, error) {
	stats := models.Statistics{
		ByType:   make(map[string]int64),
		ByStatus: make(map[string]int64),
	}

	err := r.DB.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(estimated_amount), 0) FROM tenders`).
		Scan(&stats.TotalCount, &stats.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to count tenders: %w", err)
	}

	if err := r.countBy(ctx, "tender_type", stats.ByType); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, "status", stats.ByStatus); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *PostgresTenderRepository) countBy(ctx context.Context, column string, dst map[string]int64) error {
	query := fmt.Sprintf(`SELECT %[1]s, COUNT(*) FROM tenders WHERE %[1]s IS NOT NULL AND %[1]s <> '' GROUP BY %[1]s`, column)
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to group tenders by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dst[key] = count
	}
	return rows.Err()
}
