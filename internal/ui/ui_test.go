package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-blog-admin/internal/client"
	"github.com/pribylovaa/go-blog-admin/internal/config"
	"github.com/pribylovaa/go-blog-admin/internal/controller"
	"github.com/pribylovaa/go-blog-admin/internal/models"
)

// Интеграционные тесты рендера: скрипт команд против httptest-бэкенда.
//
// Покрытие:
//  - границы пейджера живут в ui (контроллер не ограничивает);
//  - edit по id из текущей страницы;
//  - завершение по quit.

func newTestUI(t *testing.T, h http.HandlerFunc, script string) (*UI, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := client.New(config.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)
	ctrl := controller.New(c, config.UIConfig{PageLimit: 10, Debounce: 10 * time.Millisecond})
	t.Cleanup(ctrl.Close)

	var out bytes.Buffer
	return New(ctrl, strings.NewReader(script), &out), &out
}

func listHandler(posts []models.Post, total int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.PostList{Posts: posts, Total: total, Page: 1, Limit: 10})
	}
}

func TestRun_QuitStopsLoop(t *testing.T) {
	t.Parallel()

	u, _ := newTestUI(t, listHandler(nil, 0), "quit\n")
	require.NoError(t, u.Run(context.Background()))
}

func TestPageCommand_OutOfRangeRejectedByRenderer(t *testing.T) {
	t.Parallel()

	posts := []models.Post{{ID: 1, Title: "a"}}
	u, out := newTestUI(t, listHandler(posts, 35), "reload\npage 99\npage prev\nquit\n")

	require.NoError(t, u.Run(context.Background()))

	require.Contains(t, out.String(), "page 99 is out of range (1..4)")
	require.Contains(t, out.String(), "page 0 is out of range (1..4)")
}

func TestEditCommand_UsesPostFromCurrentPage(t *testing.T) {
	t.Parallel()

	posts := []models.Post{{ID: 3, Title: "hello", Content: "world"}}
	u, out := newTestUI(t, listHandler(posts, 1), "reload\nedit 3\nquit\n")

	require.NoError(t, u.Run(context.Background()))

	require.Contains(t, out.String(), "-- edit post")
	require.Contains(t, out.String(), "title:    hello")
}

func TestEditCommand_UnknownIDReported(t *testing.T) {
	t.Parallel()

	u, out := newTestUI(t, listHandler(nil, 0), "reload\nedit 42\nquit\n")

	require.NoError(t, u.Run(context.Background()))
	require.Contains(t, out.String(), "post 42 is not on the current page")
}
