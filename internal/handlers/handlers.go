package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Totarae/LinkBoard/internal/model"
	"github.com/Totarae/LinkBoard/internal/render"
	"github.com/Totarae/LinkBoard/internal/service"
	"github.com/Totarae/LinkBoard/internal/util"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Shortener определяет операции сервиса, нужные обработчикам.
type Shortener interface {
	CreateLink(ctx context.Context, targetURL, requestedCode string) (*model.Link, error)
	GetLink(ctx context.Context, code string) (*model.Link, error)
	ListLinks(ctx context.Context) ([]*model.Link, error)
	DeleteLink(ctx context.Context, code string) error
	ResolveAndRecord(ctx context.Context, code string) (string, error)
	Ping(ctx context.Context) error
}

// Handler обслуживает HTTP-запросы сервиса коротких ссылок.
type Handler struct {
	Service   Shortener
	Renderer  *render.Renderer
	Logger    *zap.Logger
	Version   string
	startedAt time.Time
}

// NewHandler создаёт обработчик.
func NewHandler(svc Shortener, renderer *render.Renderer, logger *zap.Logger, version string) *Handler {
	return &Handler{
		Service:   svc,
		Renderer:  renderer,
		Logger:    logger,
		Version:   version,
		startedAt: time.Now(),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("Не удалось записать JSON-ответ", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.ErrorResponse{Error: message})
}

// CreateLink обрабатывает POST /api/links.
// 201 с записью, 400 при невалидном URL или коде, 409 при занятом коде.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	link, err := h.Service.CreateLink(r.Context(), req.URL, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL), errors.Is(err, service.ErrInvalidCode):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCodeConflict):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.Logger.Error("Ошибка создания ссылки", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, link)
}

// ListLinks обрабатывает GET /api/links: все живые записи, новые сверху.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.Service.ListLinks(r.Context())
	if err != nil {
		h.Logger.Error("Ошибка получения списка ссылок", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if links == nil {
		links = []*model.Link{}
	}
	h.writeJSON(w, http.StatusOK, links)
}

// GetLink обрабатывает GET /api/links/{code}.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	link, err := h.Service.GetLink(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.Logger.Error("Ошибка получения ссылки", zap.String("code", code), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, link)
}

// DeleteLink обрабатывает DELETE /api/links/{code}: мягкое удаление.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.Service.DeleteLink(r.Context(), code); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.Logger.Error("Ошибка удаления ссылки", zap.String("code", code), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Redirect обрабатывает GET /{code}: атомарно фиксирует переход и
// отправляет 302 на целевой URL. Коды вне формата 6–8 букв/цифр
// не могут существовать, поэтому до хранилища не доходят.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !util.ValidateCode(code) {
		h.Renderer.NotFoundPage(w, "Short link not found or has been deleted.")
		return
	}

	target, err := h.Service.ResolveAndRecord(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.Renderer.NotFoundPage(w, "Short link not found or has been deleted.")
			return
		}
		h.Logger.Error("Ошибка редиректа", zap.String("code", code), zap.Error(err))
		h.Renderer.ErrorPage(w, http.StatusInternalServerError, "Something went wrong while redirecting.")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// Dashboard обрабатывает GET /: HTML-список живых ссылок.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	links, err := h.Service.ListLinks(r.Context())
	if err != nil {
		h.Logger.Error("Ошибка дашборда", zap.Error(err))
		h.Renderer.ErrorPage(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}
	h.Renderer.Dashboard(w, links)
}

// StatsPage обрабатывает GET /code/{code}: HTML-страница статистики.
func (h *Handler) StatsPage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	link, err := h.Service.GetLink(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.Renderer.NotFoundPage(w, "Short link not found")
			return
		}
		h.Logger.Error("Ошибка страницы статистики", zap.String("code", code), zap.Error(err))
		h.Renderer.ErrorPage(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}
	h.Renderer.Stats(w, link)
}

// PingDB обрабатывает GET /ping: проверка соединения с хранилищем.
func (h *Handler) PingDB(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Ping(r.Context()); err != nil {
		h.Logger.Error("Хранилище недоступно", zap.Error(err))
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Healthz обрабатывает GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, model.HealthResponse{
		OK:        true,
		Version:   h.Version,
		Uptime:    time.Since(h.startedAt).Seconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
