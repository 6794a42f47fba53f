package render_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Totarae/LinkBoard/internal/model"
	"github.com/Totarae/LinkBoard/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.NewRenderer("http://localhost:8080", zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestDashboard(t *testing.T) {
	r := newRenderer(t)

	w := httptest.NewRecorder()
	r.Dashboard(w, []*model.Link{
		{Code: "Ab3dE9", TargetURL: "https://openai.com", TotalClicks: 3, CreatedAt: time.Now()},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http://localhost:8080/Ab3dE9")
	assert.Contains(t, w.Body.String(), "https://openai.com")
}

// Пустой дашборд рендерится с заглушкой вместо таблицы строк
func TestDashboard_Empty(t *testing.T) {
	r := newRenderer(t)

	w := httptest.NewRecorder()
	r.Dashboard(w, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No links yet")
}

func TestStats(t *testing.T) {
	r := newRenderer(t)

	clicked := time.Now()
	w := httptest.NewRecorder()
	r.Stats(w, &model.Link{
		Code:          "Ab3dE9",
		TargetURL:     "https://openai.com",
		TotalClicks:   42,
		LastClickedAt: &clicked,
		CreatedAt:     time.Now(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

// У ни разу не открытой ссылки вместо времени — "never"
func TestStats_NeverClicked(t *testing.T) {
	r := newRenderer(t)

	w := httptest.NewRecorder()
	r.Stats(w, &model.Link{Code: "Ab3dE9", TargetURL: "https://openai.com", CreatedAt: time.Now()})

	assert.Contains(t, w.Body.String(), "never")
}

func TestNotFoundPage(t *testing.T) {
	r := newRenderer(t)

	w := httptest.NewRecorder()
	r.NotFoundPage(w, "Short link not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Short link not found")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

// Статика вшита: main.js и style.css доступны
func TestAssets(t *testing.T) {
	fs := render.Assets()
	for _, name := range []string{"/main.js", "/style.css", "/favicon.ico"} {
		f, err := fs.Open(name)
		require.NoError(t, err, name)
		_ = f.Close()
	}
}
