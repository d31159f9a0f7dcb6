// internal/posts/repository.go

package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

// Repository defines the posts repository interface
type Repository interface {
	CreatePost(ctx context.Context, post *Post) error
	AddPostMedia(ctx context.Context, postID int64, urls []string) error
	GetPostByID(ctx context.Context, postID, viewerID int64) (*Post, error)
	GetFeed(ctx context.Context, viewerID int64, limit int) ([]Post, error)
	GetPostAuthor(ctx context.Context, postID int64) (*int64, error)
	UpdatePost(ctx context.Context, postID, authorID int64, req *UpdatePostRequest) (bool, error)
	DeletePost(ctx context.Context, postID, authorID int64) (bool, error)
	ToggleLike(ctx context.Context, postID, userID int64, reactionType string) (bool, error)
	IncrementViewCount(ctx context.Context, postID int64) error
	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, postID int64, limit int) ([]Comment, error)
	CountLikes(ctx context.Context, postID int64) (int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (author_id, content, post_type, location, is_monetized, hashtags, mentions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, like_count, comment_count, share_count, view_count, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		post.AuthorID,
		post.Content,
		post.PostType,
		post.Location,
		post.IsMonetized,
		pq.Array([]string(post.Hashtags)),
		pq.Array([]int64(post.Mentions)),
	).Scan(
		&post.ID,
		&post.LikeCount, &post.CommentCount, &post.ShareCount, &post.ViewCount,
		&post.CreatedAt, &post.UpdatedAt,
	)
}

func (r *postgresRepository) AddPostMedia(ctx context.Context, postID int64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(urls))
	valueArgs := make([]interface{}, 0, len(urls)*3)

	for i, url := range urls {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d)",
			i*3+1, i*3+2, i*3+3))
		valueArgs = append(valueArgs, postID, url, i)
	}

	query := fmt.Sprintf(`
		INSERT INTO post_media (post_id, media_url, position)
		VALUES %s`, strings.Join(valueStrings, ","))

	_, err := r.db.ExecContext(ctx, query, valueArgs...)
	return err
}

// postRow carries one feed/detail row before author resolution
type postRow struct {
	Post
	AuthorUsername    sql.NullString `db:"author_username"`
	AuthorDisplayName sql.NullString `db:"author_display_name"`
	AuthorAvatarURL   sql.NullString `db:"author_avatar_url"`
	AuthorVerified    sql.NullBool   `db:"author_is_verified"`
}

// resolve attaches the author summary, falling back to the deleted-user
// placeholder when the author reference is absent
func (row *postRow) resolve() Post {
	post := row.Post
	if post.AuthorID != nil && row.AuthorUsername.Valid {
		post.Author = &AuthorSummary{
			ID:          post.AuthorID,
			DisplayName: row.AuthorDisplayName.String,
			Username:    row.AuthorUsername.String,
			AvatarURL:   row.AuthorAvatarURL.String,
			IsVerified:  row.AuthorVerified.Bool,
		}
	} else {
		post.Author = deletedAuthor()
	}
	if post.Hashtags == nil {
		post.Hashtags = pq.StringArray{}
	}
	if post.Mentions == nil {
		post.Mentions = pq.Int64Array{}
	}
	return post
}

const postSelectColumns = `
	p.id, p.author_id, p.content, p.post_type, p.location, p.is_monetized,
	p.hashtags, p.mentions,
	p.like_count, p.comment_count, p.share_count, p.view_count,
	p.created_at, p.updated_at,
	u.username AS author_username,
	COALESCE(u.display_name, u.username) AS author_display_name,
	COALESCE(u.avatar_url, '') AS author_avatar_url,
	COALESCE(u.is_verified, FALSE) AS author_is_verified,
	EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS is_liked`

func (r *postgresRepository) GetPostByID(ctx context.Context, postID, viewerID int64) (*Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		LEFT JOIN users u ON p.author_id = u.id
		WHERE p.id = $2`, postSelectColumns)

	var row postRow
	err := r.db.QueryRowxContext(ctx, query, viewerID, postID).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post := row.resolve()

	media, err := r.getPostMedia(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.MediaURLs = media

	return &post, nil
}

func (r *postgresRepository) GetFeed(ctx context.Context, viewerID int64, limit int) ([]Post, error) {
	// Counters come straight from the posts row; they are maintained by
	// increments on each mutation, never recomputed here.
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		LEFT JOIN users u ON p.author_id = u.id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2`, postSelectColumns)

	rows, err := r.db.QueryxContext(ctx, query, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var row postRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}

		post := row.resolve()

		media, err := r.getPostMedia(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		post.MediaURLs = media

		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func (r *postgresRepository) getPostMedia(ctx context.Context, postID int64) ([]string, error) {
	urls := []string{}
	query := `SELECT media_url FROM post_media WHERE post_id = $1 ORDER BY position`
	if err := r.db.SelectContext(ctx, &urls, query, postID); err != nil {
		return nil, fmt.Errorf("failed to get post media: %w", err)
	}
	return urls, nil
}

func (r *postgresRepository) GetPostAuthor(ctx context.Context, postID int64) (*int64, error) {
	var authorID *int64
	err := r.db.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return authorID, nil
}

// UpdatePost applies the provided fields in one statement scoped to both the
// post id and the author id, so a missing post and a foreign post are
// indistinguishable to the caller.
func (r *postgresRepository) UpdatePost(ctx context.Context, postID, authorID int64, req *UpdatePostRequest) (bool, error) {
	var setClauses []string
	var args []interface{}
	argCount := 1

	if req.Content != nil {
		setClauses = append(setClauses, fmt.Sprintf("content = $%d", argCount))
		args = append(args, *req.Content)
		argCount++
	}
	if req.PostType != nil {
		setClauses = append(setClauses, fmt.Sprintf("post_type = $%d", argCount))
		args = append(args, *req.PostType)
		argCount++
	}
	if req.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", argCount))
		args = append(args, *req.Location)
		argCount++
	}
	if req.Hashtags != nil {
		setClauses = append(setClauses, fmt.Sprintf("hashtags = $%d", argCount))
		args = append(args, pq.Array(*req.Hashtags))
		argCount++
	}
	if req.Mentions != nil {
		setClauses = append(setClauses, fmt.Sprintf("mentions = $%d", argCount))
		args = append(args, pq.Array(*req.Mentions))
		argCount++
	}
	if req.IsMonetized != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_monetized = $%d", argCount))
		args = append(args, *req.IsMonetized)
		argCount++
	}

	// A media-only update still has to touch the posts row so ownership is
	// checked by the same WHERE clause
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, postID, authorID)

	query := fmt.Sprintf("UPDATE posts SET %s WHERE id = $%d AND author_id = $%d",
		strings.Join(setClauses, ", "), argCount, argCount+1)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if updated == 0 {
		return false, nil
	}

	if req.MediaURLs != nil {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM post_media WHERE post_id = $1`, postID); err != nil {
			return false, err
		}
		if err := r.AddPostMedia(ctx, postID, *req.MediaURLs); err != nil {
			return false, err
		}
	}

	return true, nil
}

func (r *postgresRepository) DeletePost(ctx context.Context, postID, authorID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND author_id = $2`, postID, authorID)
	if err != nil {
		return false, err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if deleted == 0 {
		return false, nil
	}

	// Likes, comments and media cascade via foreign keys; delete explicitly
	// as well so the behavior does not depend on schema history
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1`, postID); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_media WHERE post_id = $1`, postID); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// ToggleLike flips the (user, post) reaction inside one transaction. The
// unique index on post_likes is what makes concurrent toggles safe: the
// insert either wins or affects zero rows, and the counter moves by an
// in-database increment, never a read-modify-write.
func (r *postgresRepository) ToggleLike(ctx context.Context, postID, userID int64, reactionType string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, ErrPostNotFound
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO post_likes (post_id, user_id, reaction_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID, reactionType)
	if err != nil {
		return false, err
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	liked := inserted == 1
	if liked {
		_, err = tx.ExecContext(ctx,
			`UPDATE posts SET like_count = like_count + 1 WHERE id = $1`, postID)
	} else {
		res, delErr := tx.ExecContext(ctx,
			`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if delErr != nil {
			return false, delErr
		}
		deleted, delErr := res.RowsAffected()
		if delErr != nil {
			return false, delErr
		}
		// Only decrement when this transaction actually removed the row. A
		// concurrent unlike may have deleted it first, and decrementing for
		// both would drift the counter below the real like count.
		if deleted == 1 {
			_, err = tx.ExecContext(ctx,
				`UPDATE posts SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1`, postID)
		}
	}
	if err != nil {
		return false, err
	}

	return liked, tx.Commit()
}

func (r *postgresRepository) IncrementViewCount(ctx context.Context, postID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, postID)
	return err
}

// CreateComment inserts the comment and bumps the denormalized counter in the
// same transaction
func (r *postgresRepository) CreateComment(ctx context.Context, comment *Comment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, comment.PostID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		comment.PostID, comment.UserID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET comment_count = comment_count + 1 WHERE id = $1`, comment.PostID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) ListComments(ctx context.Context, postID int64, limit int) ([]Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.username AS author_username,
		       COALESCE(u.display_name, u.username) AS author_display_name,
		       COALESCE(u.avatar_url, '') AS author_avatar_url,
		       COALESCE(u.is_verified, FALSE) AS author_is_verified
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		comment := Comment{Author: &AuthorSummary{}}
		err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.UserID, &comment.Content, &comment.CreatedAt,
			&comment.Author.Username, &comment.Author.DisplayName,
			&comment.Author.AvatarURL, &comment.Author.IsVerified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		userID := comment.UserID
		comment.Author.ID = &userID
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *postgresRepository) CountLikes(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count)
	return count, err
}
