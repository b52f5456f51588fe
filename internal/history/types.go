package history

// Entry представляет запись истории просмотров пользователя
type Entry struct {
	MovieID         string `json:"movie_id"`
	MovieTitle      string `json:"movie_title"`
	ThumbnailPath   string `json:"thumbnail_path,omitempty"`
	WatchedOnMillis int64  `json:"watched_on_millis"`
}

// AppendRequest представляет запрос на добавление записи истории
type AppendRequest struct {
	MovieID string `json:"movie_id"`
}
