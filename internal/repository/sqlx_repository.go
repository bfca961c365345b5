package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/SketchShifter/comment_widget_backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var commentColumns = []string{"comment_id", "page_id", "nickname", "password_hash", "content", "ip", "created_at"}

// builderFor ドライバーに合わせたプレースホルダー形式のビルダー
func builderFor(db *sqlx.DB) sq.StatementBuilderType {
	if db.DriverName() == "mysql" {
		return sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// sqlxCommentRepository CommentRepositoryのsqlx実装
type sqlxCommentRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewSQLXCommentRepository sqlxを使うCommentRepositoryを作成
func NewSQLXCommentRepository(db *sqlx.DB) CommentRepository {
	return &sqlxCommentRepository{db: db, sb: builderFor(db)}
}

func (r *sqlxCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query, args, err := r.sb.Insert("comments").
		Columns(commentColumns...).
		Values(comment.ID, comment.PageID, comment.Nickname, comment.PasswordHash, comment.Content, comment.IP, comment.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *sqlxCommentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	query, args, err := r.sb.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"comment_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var comment models.Comment
	if err := r.db.GetContext(ctx, &comment, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *sqlxCommentRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.sb.Delete("comments").
		Where(sq.Eq{"comment_id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *sqlxCommentRepository) ListByPage(ctx context.Context, pageID string, page, limit int) ([]models.Comment, int64, error) {
	countQuery, countArgs, err := r.sb.Select("COUNT(*)").
		From("comments").
		Where(sq.Eq{"page_id": pageID}).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query, args, err := r.sb.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"page_id": pageID}).
		OrderBy("created_at DESC", "comment_id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offsetOf(page, limit))).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	comments := []models.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *sqlxCommentRepository) LatestCreatedAtByIP(ctx context.Context, ip string) (*time.Time, error) {
	query, args, err := r.sb.Select("created_at").
		From("comments").
		Where(sq.Eq{"ip": ip}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var createdAt time.Time
	if err := r.db.GetContext(ctx, &createdAt, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &createdAt, nil
}

// sqlxLikeRepository LikeRepositoryのsqlx実装
type sqlxLikeRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewSQLXLikeRepository sqlxを使うLikeRepositoryを作成
func NewSQLXLikeRepository(db *sqlx.DB) LikeRepository {
	return &sqlxLikeRepository{db: db, sb: builderFor(db)}
}

func (r *sqlxLikeRepository) Exists(ctx context.Context, pageID, ip string) (bool, error) {
	query, args, err := r.sb.Select("1").
		From("likes").
		Where(sq.Eq{"page_id": pageID, "ip": ip}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *sqlxLikeRepository) Create(ctx context.Context, like *models.Like) error {
	query, args, err := r.sb.Insert("likes").
		Columns("page_id", "ip", "created_at").
		Values(like.PageID, like.IP, like.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *sqlxLikeRepository) Delete(ctx context.Context, pageID, ip string) error {
	query, args, err := r.sb.Delete("likes").
		Where(sq.Eq{"page_id": pageID, "ip": ip}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *sqlxLikeRepository) CountByPage(ctx context.Context, pageID string) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("likes").
		Where(sq.Eq{"page_id": pageID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

// NewSQLXRepositories sqlxを使うリポジトリ一式を作成
func NewSQLXRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Comments: NewSQLXCommentRepository(db),
		Likes:    NewSQLXLikeRepository(db),
	}
}
