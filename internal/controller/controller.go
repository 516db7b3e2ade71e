// controller — экранная state-машина blog-admin и оркестрация вызовов
// к posts-бэкенду.
//
// Принципы:
//   - всё изменяемое состояние (список, пагинация, фильтры, черновик,
//     выбранная статья, флаги) лежит в одном State за мьютексом;
//     рендер получает только копию через Snapshot;
//   - каждая операция ловит ошибку на своей границе и складывает
//     отображаемую строку через apierrors.Message — наверх ошибки не
//     пробрасываются, кроме явных булевых исходов;
//   - экраны: list | create | view | edit; начальный — list; Selected
//     непустой только в view/edit;
//   - параллельные листинги допустимы: применяется «последняя запись
//     побеждает», устаревший ответ не перетирает более новый
//     (sequence-номера), флаг загрузки ведётся счётчиком in-flight.
package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pribylovaa/go-blog-admin/internal/apierrors"
	"github.com/pribylovaa/go-blog-admin/internal/config"
	"github.com/pribylovaa/go-blog-admin/internal/models"
	logctx "github.com/pribylovaa/go-blog-admin/pkg/log"
)

// Screen — активный экран UI.
type Screen string

const (
	ScreenList   Screen = "list"
	ScreenCreate Screen = "create"
	ScreenView   Screen = "view"
	ScreenEdit   Screen = "edit"
)

// Сообщение локальной валидации формы: до сети такой сабмит не доходит.
const validationMessage = "title and content are required"

// PostsAPI — контракт клиентского слоя, нужный контроллеру.
type PostsAPI interface {
	ListPosts(ctx context.Context, q models.Query) (*models.PostList, error)
	PostByID(ctx context.Context, id int64) (*models.Post, error)
	CreatePost(ctx context.Context, draft models.Draft) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, patch models.DraftPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
	Authors(ctx context.Context) ([]string, error)
}

// State — всё наблюдаемое рендером состояние.
type State struct {
	Screen     Screen
	Posts      []models.Post
	Pagination models.Pagination

	Search   string
	Category string

	Categories []string
	Authors    []string

	Selected *models.Post
	Draft    models.Draft

	Loading bool
	Err     string
}

// Controller владеет состоянием и дёргает PostsAPI.
type Controller struct {
	api      PostsAPI
	validate *validator.Validate

	mu       sync.Mutex
	st       State
	inflight int
	// Монотонный номер листинга и номер последнего применённого ответа.
	nextSeq    uint64
	appliedSeq uint64

	debounce         *time.Timer
	debounceInterval time.Duration
}

// New создаёт контроллер в начальном состоянии (экран list, пустой список).
func New(api PostsAPI, cfg config.UIConfig) *Controller {
	return &Controller{
		api:      api,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		st: State{
			Screen:     ScreenList,
			Pagination: models.Pagination{Page: 1, Limit: cfg.PageLimit},
		},
		debounceInterval: cfg.Debounce,
	}
}

// Snapshot возвращает копию состояния для рендера.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.st

	out.Posts = append([]models.Post(nil), c.st.Posts...)
	out.Categories = append([]string(nil), c.st.Categories...)
	out.Authors = append([]string(nil), c.st.Authors...)

	if c.st.Selected != nil {
		sel := *c.st.Selected
		out.Selected = &sel
	}

	return out
}

// Close останавливает отложенную перезагрузку списка, если она назначена.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
}

// begin отмечает старт сетевой операции: ошибка сбрасывается,
// флаг загрузки держится счётчиком in-flight.
func (c *Controller) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight++
	c.st.Loading = true
	c.st.Err = ""
}

// end снимает операцию со счётчика; флаг гаснет с последней из них.
func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight--
	c.st.Loading = c.inflight > 0
}

func (c *Controller) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.st.Err = apierrors.Message(err)
}

// LoadPosts загружает список: переопределения накладываются на
// запомненный базовый запрос (фильтры + пагинация), фильтры побеждают
// переопределениями. Успех заменяет коллекцию и {page, limit, total}
// дословно из ответа; неудача оставляет прежний список видимым.
func (c *Controller) LoadPosts(ctx context.Context, patch *models.QueryPatch) {
	const op = "controller.LoadPosts"

	c.mu.Lock()
	c.nextSeq++
	seq := c.nextSeq

	q := patch.Apply(models.Query{
		Search:   c.st.Search,
		Category: c.st.Category,
		Page:     c.st.Pagination.Page,
		Limit:    c.st.Pagination.Limit,
	})
	c.mu.Unlock()

	c.begin()
	list, err := c.api.ListPosts(ctx, q)
	c.end()

	if err != nil {
		logctx.From(ctx).Warn("load_posts_failed",
			slog.String("op", op),
			slog.Int("page", q.Page),
			slog.String("err", err.Error()),
		)

		c.setErr(err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Устаревший ответ: более новый листинг уже применён.
	if seq < c.appliedSeq {
		logctx.From(ctx).Debug("load_posts_stale_dropped",
			slog.String("op", op),
			slog.Uint64("seq", seq),
		)

		return
	}

	c.appliedSeq = seq
	c.st.Posts = list.Posts
	c.st.Pagination = models.Pagination{Page: list.Page, Limit: list.Limit, Total: list.Total}

	logctx.From(ctx).Debug("load_posts_ok",
		slog.String("op", op),
		slog.Int("items", len(list.Posts)),
		slog.Int("total", list.Total),
	)
}

// LoadFilters подтягивает списки категорий и авторов для фильтров.
// Неудача не трогает коллекцию статей.
func (c *Controller) LoadFilters(ctx context.Context) {
	const op = "controller.LoadFilters"

	cats, err := c.api.Categories(ctx)
	if err != nil {
		logctx.From(ctx).Warn("load_categories_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		c.setErr(err)
		return
	}

	authors, err := c.api.Authors(ctx)
	if err != nil {
		logctx.From(ctx).Warn("load_authors_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		c.setErr(err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.st.Categories = cats
	c.st.Authors = authors
}

// DeletePost удаляет статью. Успех вырезает её из списка на месте,
// без перезагрузки; если была открыта она же — возврат на list.
// Неудача возвращает false с выставленной ошибкой, паник/throw нет.
func (c *Controller) DeletePost(ctx context.Context, id int64) bool {
	const op = "controller.DeletePost"

	c.begin()
	err := c.api.DeletePost(ctx, id)
	c.end()

	if err != nil {
		logctx.From(ctx).Warn("delete_post_failed",
			slog.String("op", op),
			slog.Int64("id", id),
			slog.String("err", err.Error()),
		)

		c.setErr(err)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.st.Posts[:0]
	for _, p := range c.st.Posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.st.Posts = kept

	if c.st.Selected != nil && c.st.Selected.ID == id {
		c.st.Selected = nil
		c.st.Screen = ScreenList
	}

	logctx.From(ctx).Info("delete_post_ok",
		slog.String("op", op),
		slog.Int64("id", id),
	)

	return true
}

// OpenCreate — пустой черновик, экран create.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.st.Draft = models.Draft{}
	c.st.Selected = nil
	c.st.Screen = ScreenCreate
}

// OpenEdit — черновик из текстовых полей статьи, экран edit.
func (c *Controller) OpenEdit(post models.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.st.Draft.FromPost(post)
	sel := post
	c.st.Selected = &sel
	c.st.Screen = ScreenEdit
}

// OpenView перечитывает статью по id (сервер инкрементирует просмотры)
// и только при успехе переключает экран на view.
func (c *Controller) OpenView(ctx context.Context, id int64) bool {
	const op = "controller.OpenView"

	c.begin()
	post, err := c.api.PostByID(ctx, id)
	c.end()

	if err != nil {
		logctx.From(ctx).Warn("open_view_failed",
			slog.String("op", op),
			slog.Int64("id", id),
			slog.String("err", err.Error()),
		)

		c.setErr(err)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.st.Selected = post
	c.st.Screen = ScreenView

	return true
}

// Cancel — возврат на list со сбросом черновика и выбора.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.st.Draft = models.Draft{}
	c.st.Selected = nil
	c.st.Screen = ScreenList
}

// SetDraft заменяет рабочий черновик (привязка формы).
func (c *Controller) SetDraft(d models.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.st.Draft = d
}

// Submit отправляет черновик: edit с выбранной статьёй — PATCH, иначе —
// POST. Пустые title/content до сети не доходят (локальная валидация).
// Успех: черновик сброшен, экран list, свежий LoadPosts — список и есть
// источник истины после мутации. Неудача: экран и черновик сохранены.
func (c *Controller) Submit(ctx context.Context) bool {
	const op = "controller.Submit"

	c.mu.Lock()
	draft := c.st.Draft
	editing := c.st.Screen == ScreenEdit && c.st.Selected != nil
	var editID int64
	if editing {
		editID = c.st.Selected.ID
	}
	c.mu.Unlock()

	if err := c.validate.Struct(draft); err != nil {
		c.mu.Lock()
		c.st.Err = validationMessage
		c.mu.Unlock()

		return false
	}

	c.begin()
	var err error
	if editing {
		_, err = c.api.UpdatePost(ctx, editID, draft.Patch())
	} else {
		_, err = c.api.CreatePost(ctx, draft)
	}
	c.end()

	if err != nil {
		logctx.From(ctx).Warn("submit_failed",
			slog.String("op", op),
			slog.Bool("editing", editing),
			slog.String("err", err.Error()),
		)

		c.setErr(err)
		return false
	}

	c.mu.Lock()
	c.st.Draft = models.Draft{}
	c.st.Selected = nil
	c.st.Screen = ScreenList
	c.mu.Unlock()

	logctx.From(ctx).Info("submit_ok",
		slog.String("op", op),
		slog.Bool("editing", editing),
	)

	c.LoadPosts(ctx, nil)

	return true
}

// SetSearch меняет поисковый фильтр и назначает отложенную перезагрузку.
func (c *Controller) SetSearch(ctx context.Context, search string) {
	c.mu.Lock()
	c.st.Search = search
	c.mu.Unlock()

	c.scheduleReload(ctx)
}

// SetCategory меняет фильтр категории и назначает отложенную перезагрузку.
func (c *Controller) SetCategory(ctx context.Context, category string) {
	c.mu.Lock()
	c.st.Category = category
	c.mu.Unlock()

	c.scheduleReload(ctx)
}

// scheduleReload — классический debounce: каждое изменение фильтра
// снимает назначенный таймер и ставит новый; по срабатыванию страница
// сбрасывается на первую и уходит один LoadPosts с финальными фильтрами.
func (c *Controller) scheduleReload(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.debounce != nil {
		c.debounce.Stop()
	}

	c.debounce = time.AfterFunc(c.debounceInterval, func() {
		c.mu.Lock()
		c.st.Pagination.Page = 1
		c.mu.Unlock()

		page := 1
		c.LoadPosts(ctx, &models.QueryPatch{Page: &page})
	})
}

// ChangePage переходит на страницу без ограничения диапазона:
// за границы пейджера отвечает рендер, не контроллер.
func (c *Controller) ChangePage(ctx context.Context, page int) {
	c.mu.Lock()
	c.st.Pagination.Page = page
	c.mu.Unlock()

	c.LoadPosts(ctx, &models.QueryPatch{Page: &page})
}

// DismissError гасит текущий баннер ошибки.
// Очереди нет: новая ошибка перетирает старую.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.st.Err = ""
}
