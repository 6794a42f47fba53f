package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Totarae/LinkBoard/internal/model"
	"github.com/Totarae/LinkBoard/internal/repositories"
	"github.com/Totarae/LinkBoard/internal/util"
	"go.uber.org/zap"
)

// Ошибки уровня сервиса. Обработчики переводят их в HTTP-статусы.
var (
	// ErrInvalidURL целевой адрес не является абсолютным http(s)-URL.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrInvalidCode пользовательский код не проходит правило 6–8 букв/цифр.
	ErrInvalidCode = errors.New("code must be 6-8 letters/numbers")
	// ErrCodeConflict код уже занят живой записью.
	ErrCodeConflict = errors.New("code already exists")
	// ErrNotFound нет живой записи с таким кодом.
	ErrNotFound = errors.New("link not found")
)

// maxGenerateAttempts ограничивает перебор случайных кодов.
// Пространство 62^6 велико, коллизии практически невозможны, но
// бесконечный цикл при почти заполненном пространстве недопустим.
const maxGenerateAttempts = 10

// Repository определяет зависимость сервиса от хранилища.
type Repository interface {
	SaveLink(ctx context.Context, link *model.Link) error
	GetLink(ctx context.Context, code string) (*model.Link, error)
	ListLinks(ctx context.Context) ([]*model.Link, error)
	SoftDeleteLink(ctx context.Context, code string) error
	ResolveAndRecord(ctx context.Context, code string) (string, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
	Ping(ctx context.Context) error
}

// LinkService владеет жизненным циклом записей коротких ссылок.
type LinkService struct {
	Repo    Repository
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewLinkService создаёт сервис. Таймаут ограничивает каждую операцию
// с хранилищем; при нуле используется 5 секунд.
func NewLinkService(repo Repository, logger *zap.Logger, timeout time.Duration) *LinkService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LinkService{Repo: repo, Logger: logger, Timeout: timeout}
}

func (s *LinkService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.Timeout)
}

// CreateLink создаёт живую запись для targetURL.
// Если requestedCode пуст, код генерируется; иначе проверяется формат.
// Проверка занятости кода перед вставкой — только быстрый путь для
// дружелюбного 409: решающее слово за уникальным индексом в хранилище.
func (s *LinkService) CreateLink(ctx context.Context, targetURL, requestedCode string) (*model.Link, error) {
	if !util.ValidateURL(targetURL) {
		return nil, ErrInvalidURL
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	code, err := s.allocateCode(ctx, requestedCode)
	if err != nil {
		return nil, err
	}

	link := &model.Link{
		Code:      code,
		TargetURL: targetURL,
	}
	if err := s.Repo.SaveLink(ctx, link); err != nil {
		if errors.Is(err, repositories.ErrCodeTaken) {
			// Гонка: кто-то занял код между проверкой и вставкой
			return nil, ErrCodeConflict
		}
		s.Logger.Error("Не удалось сохранить ссылку", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("save link: %w", err)
	}
	return link, nil
}

// allocateCode возвращает код для новой записи: либо проверенный
// пользовательский, либо сгенерированный и свободный на момент проверки.
func (s *LinkService) allocateCode(ctx context.Context, requestedCode string) (string, error) {
	if requestedCode != "" {
		if !util.ValidateCode(requestedCode) {
			return "", ErrInvalidCode
		}
		inUse, err := s.Repo.CodeInUse(ctx, requestedCode)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if inUse {
			return "", ErrCodeConflict
		}
		return requestedCode, nil
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := util.GenerateCode(util.DefaultCodeLength)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		inUse, err := s.Repo.CodeInUse(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if !inUse {
			return code, nil
		}
	}
	return "", fmt.Errorf("exhausted %d attempts to generate a unique code", maxGenerateAttempts)
}

// GetLink возвращает живую запись по коду.
func (s *LinkService) GetLink(ctx context.Context, code string) (*model.Link, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	link, err := s.Repo.GetLink(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return link, nil
}

// ListLinks возвращает все живые записи, новые сверху.
func (s *LinkService) ListLinks(ctx context.Context) ([]*model.Link, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	links, err := s.Repo.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// DeleteLink помечает живую запись удалённой. Повторный вызов даёт
// ErrNotFound — так же, как удаление никогда не существовавшего кода.
func (s *LinkService) DeleteLink(ctx context.Context, code string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.Repo.SoftDeleteLink(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

// ResolveAndRecord отдаёт целевой URL и атомарно фиксирует переход.
// Счётчик и отметка времени меняются одной операцией в хранилище,
// так что одновременные переходы не теряют инкременты.
func (s *LinkService) ResolveAndRecord(ctx context.Context, code string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	target, err := s.Repo.ResolveAndRecord(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("resolve link: %w", err)
	}
	return util.EnsureScheme(target), nil
}

// Ping проверяет доступность хранилища.
func (s *LinkService) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.Repo.Ping(ctx)
}
