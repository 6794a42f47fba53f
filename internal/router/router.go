package router

import (
	"net/http"
	"strings"

	"github.com/Totarae/LinkBoard/internal/handlers"
	"github.com/Totarae/LinkBoard/internal/middleware"
	"github.com/Totarae/LinkBoard/internal/render"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор.
//
// Зарезервированные пути (/api, /assets, /code, /ping, /healthz,
// /favicon.ico) диспетчеризуются до маршрута /{code}, поэтому кодом
// ссылки стать не могут. Сегменты /api, /code и /ping дополнительно
// короче шести символов, то есть вне пространства кодов и по формату.
func NewRouter(handler *handlers.Handler, renderer *render.Renderer, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(middleware.RecoveryMiddleware(logger, renderer))
	r.Use(middleware.GzipMiddleware) // Gzip-сжатие

	r.Route("/api/links", func(api chi.Router) {
		api.Post("/", handler.CreateLink)
		api.Get("/", handler.ListLinks)
		api.Get("/{code}", handler.GetLink)
		api.Delete("/{code}", handler.DeleteLink)
	})

	r.Get("/healthz", handler.Healthz)
	r.Get("/ping", handler.PingDB)

	assets := http.FileServer(render.Assets())
	r.Handle("/assets/*", http.StripPrefix("/assets/", assets))
	r.Get("/favicon.ico", func(w http.ResponseWriter, req *http.Request) {
		req.URL.Path = "/favicon.ico"
		assets.ServeHTTP(w, req)
	})

	r.Get("/", handler.Dashboard)
	r.Get("/code/{code}", handler.StatsPage)
	r.Get("/{code}", handler.Redirect)

	// Всё остальное: JSON для /api, HTML-страница для остальных путей
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}
		renderer.NotFoundPage(w, "Page not found")
	})

	return r
}
