package model

// CreateLinkRequest представляет структуру запроса на создание короткой ссылки.
// Code необязателен: если он пуст, сервис генерирует код сам.
type CreateLinkRequest struct {
	URL  string `json:"url"`
	Code string `json:"code,omitempty"`
}

// ErrorResponse представляет тело ошибки для JSON-эндпоинтов.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse представляет ответ /healthz.
type HealthResponse struct {
	OK        bool    `json:"ok"`
	Version   string  `json:"version"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}
