package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/senyabanana/mercado-publico-monitor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// KeywordRepository - интерфейс для работы с ключевыми словами.
type KeywordRepository interface {
	GetKeywords(ctx context.Context, keywordType *models.KeywordType) ([]models.Keyword, error)
	CreateKeyword(ctx context.Context, req models.KeywordRequest) (*models.Keyword, error)
	UpdateKeyword(ctx context.Context, id int64, req models.KeywordRequest) (*models.Keyword, error)
	DeleteKeyword(ctx context.Context, id int64) error
	CountKeywords(ctx context.Context) (int, error)
}

// PostgresKeywordRepository - реализация KeywordRepository для базы данных.
type PostgresKeywordRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresKeywordRepository создаёт новый экземпляр PostgresKeywordRepository.
func NewPostgresKeywordRepository(db *pgxpool.Pool) *PostgresKeywordRepository {
	return &PostgresKeywordRepository{DB: db}
}

// GetKeywords возвращает ключевые слова, при необходимости только заданного типа.
func (r *PostgresKeywordRepository) GetKeywords(ctx context.Context, keywordType *models.KeywordType) ([]models.Keyword, error) {
	query := `SELECT id, keyword, type, created_at FROM keywords`
	var args []any
	if keywordType != nil {
		query += ` WHERE type = $1`
		args = append(args, string(*keywordType))
	}
	query += ` ORDER BY id`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer rows.Close()

	keywords := make([]models.Keyword, 0)
	for rows.Next() {
		var keyword models.Keyword
		if err := rows.Scan(&keyword.ID, &keyword.Keyword, &keyword.Type, &keyword.CreatedAt); err != nil {
			return nil, err
		}
		keywords = append(keywords, keyword)
	}
	return keywords, rows.Err()
}

// CreateKeyword создает новое ключевое слово.
func (r *PostgresKeywordRepository) CreateKeyword(ctx context.Context, req models.KeywordRequest) (*models.Keyword, error) {
	var keyword models.Keyword
	query := `INSERT INTO keywords (keyword, type) VALUES ($1, $2)
			  RETURNING id, keyword, type, created_at`
	err := r.DB.QueryRow(ctx, query, req.Keyword, string(req.Type)).
		Scan(&keyword.ID, &keyword.Keyword, &keyword.Type, &keyword.CreatedAt)
	if err != nil {
		return nil, mapKeywordError(err)
	}
	return &keyword, nil
}

// UpdateKeyword обновляет непустые поля ключевого слова.
func (r *PostgresKeywordRepository) UpdateKeyword(ctx context.Context, id int64, req models.KeywordRequest) (*models.Keyword, error) {
	var keyword models.Keyword
	query := `UPDATE keywords
			  SET keyword = COALESCE(NULLIF($1, ''), keyword), type = COALESCE(NULLIF($2, ''), type)
			  WHERE id = $3
			  RETURNING id, keyword, type, created_at`
	err := r.DB.QueryRow(ctx, query, req.Keyword, string(req.Type), id).
		Scan(&keyword.ID, &keyword.Keyword, &keyword.Type, &keyword.CreatedAt)
	if err != nil {
		return nil, mapKeywordError(err)
	}
	return &keyword, nil
}

// DeleteKeyword удаляет ключевое слово по идентификатору.
func (r *PostgresKeywordRepository) DeleteKeyword(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM keywords WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountKeywords возвращает количество сохранённых ключевых слов.
func (r *PostgresKeywordRepository) CountKeywords(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM keywords`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count keywords: %w", err)
	}
	return count, nil
}

func mapKeywordError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return models.ErrDuplicateKeyword
	}
	return err
}
