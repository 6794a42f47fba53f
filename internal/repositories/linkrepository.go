package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Totarae/LinkBoard/internal/database"
	"github.com/Totarae/LinkBoard/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки хранилища. Сервисный слой транслирует их в коды ответов.
var (
	// ErrNotFound нет живой записи с таким кодом.
	ErrNotFound = errors.New("link not found")
	// ErrCodeTaken код уже занят живой записью (нарушение частичного
	// уникального индекса links_code_active_idx).
	ErrCodeTaken = errors.New("code already taken")
)

// uniqueViolation код ошибки PostgreSQL 23505.
const uniqueViolation = "23505"

// LinkRepositoryInterface определяет методы репозитория ссылок.
type LinkRepositoryInterface interface {
	SaveLink(ctx context.Context, link *model.Link) error
	GetLink(ctx context.Context, code string) (*model.Link, error)
	ListLinks(ctx context.Context) ([]*model.Link, error)
	SoftDeleteLink(ctx context.Context, code string) error
	ResolveAndRecord(ctx context.Context, code string) (string, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
	Ping(ctx context.Context) error
}

// LinkRepository реализует LinkRepositoryInterface поверх PostgreSQL.
type LinkRepository struct {
	DB *database.DB
}

// NewLinkRepository создаёт новый экземпляр LinkRepository.
func NewLinkRepository(db *database.DB) *LinkRepository {
	return &LinkRepository{DB: db}
}

// SaveLink вставляет новую живую запись.
// Уникальность кода гарантирует частичный уникальный индекс: предварительная
// проверка CodeInUse — лишь быстрый путь для дружелюбного 409, настоящая
// защита от гонки двух вставок — здесь.
func (r *LinkRepository) SaveLink(ctx context.Context, link *model.Link) error {
	query := `INSERT INTO links (code, target_url)
              VALUES ($1, $2)
              RETURNING id, total_clicks, created_at`

	err := r.DB.Pool.QueryRow(ctx, query, link.Code, link.TargetURL).
		Scan(&link.ID, &link.TotalClicks, &link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrCodeTaken
		}
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// GetLink извлекает живую запись по коду.
// Удалённая и никогда не существовавшая ссылка неразличимы — обе дают ErrNotFound.
func (r *LinkRepository) GetLink(ctx context.Context, code string) (*model.Link, error) {
	query := `SELECT id, code, target_url, total_clicks, last_clicked_at, created_at
              FROM links
              WHERE code = $1 AND deleted_at IS NULL`

	link := &model.Link{}
	err := r.DB.Pool.QueryRow(ctx, query, code).Scan(
		&link.ID, &link.Code, &link.TargetURL, &link.TotalClicks, &link.LastClickedAt, &link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return link, nil
}

// ListLinks возвращает все живые записи, новые сверху.
// Пагинации нет: набор данных предполагается небольшим.
func (r *LinkRepository) ListLinks(ctx context.Context) ([]*model.Link, error) {
	query := `SELECT id, code, target_url, total_clicks, last_clicked_at, created_at
              FROM links
              WHERE deleted_at IS NULL
              ORDER BY created_at DESC`

	rows, err := r.DB.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var results []*model.Link
	for rows.Next() {
		link := &model.Link{}
		err := rows.Scan(&link.ID, &link.Code, &link.TargetURL, &link.TotalClicks, &link.LastClickedAt, &link.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return results, nil
}

// SoftDeleteLink помечает живую запись удалённой.
// Повторное удаление даёт ErrNotFound, как и удаление несуществующего кода.
func (r *LinkRepository) SoftDeleteLink(ctx context.Context, code string) error {
	query := `UPDATE links
              SET deleted_at = now()
              WHERE code = $1 AND deleted_at IS NULL`

	tag, err := r.DB.Pool.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to mark link as deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveAndRecord атомарно инкрементирует счётчик переходов, проставляет
// время последнего перехода и возвращает целевой URL — одним UPDATE ...
// RETURNING, так что параллельные переходы не теряют инкременты.
func (r *LinkRepository) ResolveAndRecord(ctx context.Context, code string) (string, error) {
	query := `UPDATE links
              SET total_clicks = total_clicks + 1,
                  last_clicked_at = now()
              WHERE code = $1 AND deleted_at IS NULL
              RETURNING target_url`

	var target string
	err := r.DB.Pool.QueryRow(ctx, query, code).Scan(&target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}
	return target, nil
}

// CodeInUse сообщает, занят ли код живой записью.
func (r *LinkRepository) CodeInUse(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM links WHERE code = $1 AND deleted_at IS NULL)`
	if err := r.DB.Pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("database query error: %w", err)
	}
	return exists, nil
}

// Ping проверяет доступность базы данных.
func (r *LinkRepository) Ping(ctx context.Context) error {
	_, err := r.DB.Pool.Exec(ctx, "SELECT 1")
	return err
}
