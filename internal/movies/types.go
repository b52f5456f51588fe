package movies

// Movie представляет фильм каталога
type Movie struct {
	MovieID       string `json:"movie_id"`
	Title         string `json:"title"`
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
	VideoPath     string `json:"video_path,omitempty"`
	DurationSec   int    `json:"duration_sec,omitempty"`
}
