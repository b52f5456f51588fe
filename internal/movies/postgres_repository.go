package movies

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresRepository реализует хранилище каталога фильмов (Infrastructure Layer)
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository создает новый экземпляр PostgresRepository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// ListMovies возвращает весь каталог фильмов
func (r *PostgresRepository) ListMovies(ctx context.Context) ([]Movie, error) {
	query := `
		SELECT movie_id, title, thumbnail_path, video_path, duration_sec
		FROM movies
		ORDER BY title ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]Movie, 0)

	for rows.Next() {
		var movie Movie
		if err := rows.Scan(&movie.MovieID, &movie.Title, &movie.ThumbnailPath, &movie.VideoPath, &movie.DurationSec); err != nil {
			continue // Пропускаем поврежденные записи
		}
		movies = append(movies, movie)
	}

	return movies, nil
}

// GetMovie возвращает фильм по ID
func (r *PostgresRepository) GetMovie(ctx context.Context, movieID string) (*Movie, error) {
	query := `
		SELECT movie_id, title, thumbnail_path, video_path, duration_sec
		FROM movies
		WHERE movie_id = $1
	`

	var movie Movie
	err := r.db.QueryRowContext(ctx, query, movieID).Scan(
		&movie.MovieID,
		&movie.Title,
		&movie.ThumbnailPath,
		&movie.VideoPath,
		&movie.DurationSec,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("movie not found: %s", movieID)
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return &movie, nil
}

// MovieTitle возвращает название фильма по ID
func (r *PostgresRepository) MovieTitle(ctx context.Context, movieID string) (string, error) {
	movie, err := r.GetMovie(ctx, movieID)
	if err != nil {
		return "", err
	}
	return movie.Title, nil
}

// MovieInfo возвращает название и путь к превью фильма
func (r *PostgresRepository) MovieInfo(ctx context.Context, movieID string) (title, thumbnailPath string, err error) {
	movie, err := r.GetMovie(ctx, movieID)
	if err != nil {
		return "", "", err
	}
	return movie.Title, movie.ThumbnailPath, nil
}
