// Package render отвечает за HTML-страницы сервиса: дашборд, страницу
// статистики и страницы ошибок. Шаблоны и статика вшиты в бинарник.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/Totarae/LinkBoard/internal/model"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Renderer рендерит HTML-страницы сервиса.
type Renderer struct {
	templates *template.Template
	logger    *zap.Logger
	baseURL   string
}

// DashboardData данные для дашборда.
type DashboardData struct {
	Links   []*model.Link
	BaseURL string
}

// StatsData данные для страницы статистики одной ссылки.
type StatsData struct {
	Link    *model.Link
	BaseURL string
}

// NewRenderer разбирает вшитые шаблоны.
func NewRenderer(baseURL string, logger *zap.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl, logger: logger, baseURL: baseURL}, nil
}

// Dashboard рендерит главную страницу со списком живых ссылок.
func (r *Renderer) Dashboard(w http.ResponseWriter, links []*model.Link) {
	r.renderPage(w, http.StatusOK, "dashboard.html", DashboardData{Links: links, BaseURL: r.baseURL})
}

// Stats рендерит страницу статистики одной ссылки.
func (r *Renderer) Stats(w http.ResponseWriter, link *model.Link) {
	r.renderPage(w, http.StatusOK, "stats.html", StatsData{Link: link, BaseURL: r.baseURL})
}

// NotFoundPage рендерит страницу 404 с заданным сообщением.
func (r *Renderer) NotFoundPage(w http.ResponseWriter, message string) {
	r.ErrorPage(w, http.StatusNotFound, message)
}

// ErrorPage рендерит страницу ошибки с произвольным статусом.
func (r *Renderer) ErrorPage(w http.ResponseWriter, status int, message string) {
	r.renderPage(w, status, "404.html", map[string]string{"Message": message})
}

func (r *Renderer) renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		r.logger.Error("Не удалось отрендерить шаблон", zap.String("template", name), zap.Error(err))
	}
}

// Assets возвращает файловую систему со статикой (main.js, style.css,
// favicon) для раздачи под /assets/.
func Assets() http.FileSystem {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		// Недостижимо: каталог assets вшит при сборке
		panic(err)
	}
	return http.FS(sub)
}
