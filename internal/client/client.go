// client — HTTP-клиент posts-бэкенда.
//
// Принципы:
//   - каждый метод принимает context и возвращает либо распарсенный
//     результат, либо *apierrors.APIError — «сырые» ошибки транспорта
//     и JSON-декодера наружу не выходят;
//   - не-2xx: из тела пытаемся извлечь поле message, иначе generic
//     сообщение с числовым кодом; статус и тело сохраняются в ошибке;
//   - 204 No Content — успех с пустым результатом, а не ошибка парсинга;
//   - пустые поля запроса строго опускаются (см. models.Query.Values).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-blog-admin/internal/apierrors"
	"github.com/pribylovaa/go-blog-admin/internal/config"
	"github.com/pribylovaa/go-blog-admin/internal/metrics"
	"github.com/pribylovaa/go-blog-admin/internal/models"
	logctx "github.com/pribylovaa/go-blog-admin/pkg/log"
)

// Предел чтения тела ошибки: хватает любому осмысленному message.
const maxErrorBody = 64 << 10

// Client — типизированный доступ к posts-бэкенду.
// Состояния не держит, кроме базовой конфигурации.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
}

// New создаёт клиент по конфигурации API.
// Метрики опциональны (nil допустим).
func New(cfg config.APIConfig, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: m,
	}
}

// ListPosts возвращает страницу статей по запросу.
func (c *Client) ListPosts(ctx context.Context, q models.Query) (*models.PostList, error) {
	const op = "client.ListPosts"

	var out models.PostList
	if err := c.do(ctx, op, http.MethodGet, "/posts", q.Values(), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// PostByID возвращает статью по идентификатору.
// Сервер попутно инкрементирует счётчик просмотров.
func (c *Client) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	const op = "client.PostByID"

	var out models.Post
	if err := c.do(ctx, op, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// CreatePost создаёт статью из черновика.
// Обязательность title/content проверяет вызывающая сторона.
func (c *Client) CreatePost(ctx context.Context, draft models.Draft) (*models.Post, error) {
	const op = "client.CreatePost"

	var out models.Post
	if err := c.do(ctx, op, http.MethodPost, "/posts", nil, draft, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdatePost частично обновляет статью: отсутствующие в патче поля
// сервер оставляет без изменений.
func (c *Client) UpdatePost(ctx context.Context, id int64, patch models.DraftPatch) (*models.Post, error) {
	const op = "client.UpdatePost"

	var out models.Post
	if err := c.do(ctx, op, http.MethodPatch, fmt.Sprintf("/posts/%d", id), nil, patch, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DeletePost удаляет статью; 204 — успех без тела.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	const op = "client.DeletePost"

	return c.do(ctx, op, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil, nil)
}

// Categories возвращает готовый список различных категорий.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	const op = "client.Categories"

	var out []string
	if err := c.do(ctx, op, http.MethodGet, "/posts/categories", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Authors возвращает готовый список различных авторов.
func (c *Client) Authors(ctx context.Context) ([]string, error) {
	const op = "client.Authors"

	var out []string
	if err := c.do(ctx, op, http.MethodGet, "/posts/authors", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// do выполняет один HTTP-вызов и нормализует все исходы.
// out == nil — тело успешного ответа не интересует.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	lg := logctx.From(ctx)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apierrors.New(fmt.Sprintf("%s: failed to encode request body", op))
		}

		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return apierrors.New(fmt.Sprintf("%s: failed to build request", op))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	resp, err := c.http.Do(req)
	dur := time.Since(start)

	if err != nil {
		c.metrics.Observe(op, 0, dur)
		lg.Warn("api_request_failed",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)

		return apierrors.New("network error: the server is unreachable")
	}
	defer resp.Body.Close()

	c.metrics.Observe(op, resp.StatusCode, dur)
	lg.Debug("api_request_done",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", dur),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apierrors.NewHTTP("malformed response from server", resp.StatusCode, nil)
	}

	return nil
}

// errorFromResponse строит APIError по не-2xx ответу.
// Из JSON-тела извлекается message; при неудаче — generic с кодом.
func errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := fmt.Sprintf("request failed with status %d", resp.StatusCode)

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}

	return apierrors.NewHTTP(msg, resp.StatusCode, raw)
}
