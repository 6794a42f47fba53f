package repositories_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/Totarae/LinkBoard/internal/database"
	"github.com/Totarae/LinkBoard/internal/model"
	"github.com/Totarae/LinkBoard/internal/repositories"
	"github.com/Totarae/LinkBoard/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Интеграционные тесты против живого PostgreSQL.
// Запуск: TEST_DATABASE_DSN=postgres://... go test ./internal/repositories/...
// Схема должна быть накачена миграциями из internal/migrations.
func newRepo(t *testing.T) *repositories.LinkRepository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN не задан, пропускаем интеграционные тесты")
	}

	db, err := database.NewDB(context.Background(), dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Ping(context.Background()))
	return repositories.NewLinkRepository(db)
}

func mustCode(t *testing.T) string {
	t.Helper()
	code, err := util.GenerateCode(8)
	require.NoError(t, err)
	return code
}

func TestSaveAndGetLink(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	code := mustCode(t)

	link := &model.Link{Code: code, TargetURL: "https://openai.com"}
	require.NoError(t, repo.SaveLink(ctx, link))
	assert.NotZero(t, link.ID)
	assert.False(t, link.CreatedAt.IsZero())

	got, err := repo.GetLink(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "https://openai.com", got.TargetURL)
	assert.Zero(t, got.TotalClicks)
	assert.Nil(t, got.LastClickedAt)
}

// Уникальный индекс: вторая вставка того же живого кода даёт ErrCodeTaken
func TestSaveLink_DuplicateCode(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	code := mustCode(t)

	require.NoError(t, repo.SaveLink(ctx, &model.Link{Code: code, TargetURL: "https://a.com"}))

	err := repo.SaveLink(ctx, &model.Link{Code: code, TargetURL: "https://b.com"})
	assert.ErrorIs(t, err, repositories.ErrCodeTaken)

	// Первая запись не пострадала
	got, err := repo.GetLink(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "https://a.com", got.TargetURL)
}

// После мягкого удаления код снова свободен, а старая запись невидима
func TestSoftDelete_FreesCode(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	code := mustCode(t)

	require.NoError(t, repo.SaveLink(ctx, &model.Link{Code: code, TargetURL: "https://a.com"}))
	require.NoError(t, repo.SoftDeleteLink(ctx, code))

	_, err := repo.GetLink(ctx, code)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Повторное удаление неотличимо от несуществующего кода
	assert.ErrorIs(t, repo.SoftDeleteLink(ctx, code), repositories.ErrNotFound)

	// Код можно занять заново
	require.NoError(t, repo.SaveLink(ctx, &model.Link{Code: code, TargetURL: "https://b.com"}))
}

// N одновременных переходов дают ровно N инкрементов
func TestResolveAndRecord_Concurrent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	code := mustCode(t)

	require.NoError(t, repo.SaveLink(ctx, &model.Link{Code: code, TargetURL: "https://openai.com"}))

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			target, err := repo.ResolveAndRecord(ctx, code)
			assert.NoError(t, err)
			assert.Equal(t, "https://openai.com", target)
		}()
	}
	wg.Wait()

	got, err := repo.GetLink(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.TotalClicks)
	assert.NotNil(t, got.LastClickedAt)
}

func TestResolveAndRecord_NotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.ResolveAndRecord(context.Background(), mustCode(t))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCodeInUse(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	code := mustCode(t)

	inUse, err := repo.CodeInUse(ctx, code)
	require.NoError(t, err)
	assert.False(t, inUse)

	require.NoError(t, repo.SaveLink(ctx, &model.Link{Code: code, TargetURL: "https://a.com"}))

	inUse, err = repo.CodeInUse(ctx, code)
	require.NoError(t, err)
	assert.True(t, inUse)
}
