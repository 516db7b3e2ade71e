// ui — минимальный строковый рендер поверх контроллера.
//
// Чистое представление: читает Snapshot и команды, бизнес-правил не
// содержит. Единственная его обязанность за пределами печати — границы
// пейджера: команды prev/next за диапазоном сюда не проходят, сам
// контроллер страницу не ограничивает.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pribylovaa/go-blog-admin/internal/controller"
	"github.com/pribylovaa/go-blog-admin/internal/models"
)

type UI struct {
	ctrl *controller.Controller
	in   *bufio.Scanner
	out  io.Writer
}

func New(ctrl *controller.Controller, in io.Reader, out io.Writer) *UI {
	return &UI{
		ctrl: ctrl,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// Run — цикл «отрисовать состояние, прочитать команду» до quit/EOF
// или отмены контекста.
func (u *UI) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		u.render()
		fmt.Fprint(u.out, "> ")

		if !u.in.Scan() {
			return u.in.Err()
		}

		line := strings.TrimSpace(u.in.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		if cmd == "quit" || cmd == "q" {
			return nil
		}

		u.dispatch(ctx, cmd, strings.TrimSpace(arg))
	}
}

func (u *UI) dispatch(ctx context.Context, cmd, arg string) {
	st := u.ctrl.Snapshot()

	switch cmd {
	case "help":
		u.printHelp()
	case "list", "cancel":
		u.ctrl.Cancel()
	case "reload":
		u.ctrl.LoadPosts(ctx, nil)
	case "search":
		u.ctrl.SetSearch(ctx, arg)
	case "category":
		u.ctrl.SetCategory(ctx, arg)
	case "filters":
		u.ctrl.LoadFilters(ctx)
	case "page":
		u.changePage(ctx, st, arg)
	case "view":
		if id, ok := parseID(arg); ok {
			u.ctrl.OpenView(ctx, id)
		} else {
			fmt.Fprintln(u.out, "usage: view <id>")
		}
	case "new":
		u.ctrl.OpenCreate()
	case "edit":
		u.openEdit(st, arg)
	case "delete":
		if id, ok := parseID(arg); ok {
			u.ctrl.DeletePost(ctx, id)
		} else {
			fmt.Fprintln(u.out, "usage: delete <id>")
		}
	case "title", "content", "author", "tags", "cat":
		u.setDraftField(st, cmd, arg)
	case "submit":
		u.ctrl.Submit(ctx)
	case "dismiss":
		u.ctrl.DismissError()
	default:
		fmt.Fprintf(u.out, "unknown command %q, try help\n", cmd)
	}
}

// changePage пускает только страницы в пределах [1, totalPages].
func (u *UI) changePage(ctx context.Context, st controller.State, arg string) {
	total := st.Pagination.TotalPages()

	var page int
	switch arg {
	case "next":
		page = st.Pagination.Page + 1
	case "prev":
		page = st.Pagination.Page - 1
	default:
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintln(u.out, "usage: page <n>|next|prev")
			return
		}
		page = n
	}

	if page < 1 || page > total {
		fmt.Fprintf(u.out, "page %d is out of range (1..%d)\n", page, total)
		return
	}

	u.ctrl.ChangePage(ctx, page)
}

// openEdit ищет статью в текущем списке: форма редактирования
// заполняется из уже загруженной копии, без похода на сервер.
func (u *UI) openEdit(st controller.State, arg string) {
	id, ok := parseID(arg)
	if !ok {
		fmt.Fprintln(u.out, "usage: edit <id>")
		return
	}

	if st.Selected != nil && st.Selected.ID == id {
		u.ctrl.OpenEdit(*st.Selected)
		return
	}

	for _, p := range st.Posts {
		if p.ID == id {
			u.ctrl.OpenEdit(p)
			return
		}
	}

	fmt.Fprintf(u.out, "post %d is not on the current page\n", id)
}

func (u *UI) setDraftField(st controller.State, field, value string) {
	if st.Screen != controller.ScreenCreate && st.Screen != controller.ScreenEdit {
		fmt.Fprintln(u.out, "open the form first: new | edit <id>")
		return
	}

	d := st.Draft
	switch field {
	case "title":
		d.Title = value
	case "content":
		d.Content = value
	case "author":
		d.Author = value
	case "tags":
		d.Tags = value
	case "cat":
		d.Category = value
	}

	u.ctrl.SetDraft(d)
}

func (u *UI) render() {
	st := u.ctrl.Snapshot()

	if st.Err != "" {
		fmt.Fprintf(u.out, "[error] %s (dismiss to clear)\n", st.Err)
	}

	if st.Loading {
		fmt.Fprintln(u.out, "loading...")
	}

	switch st.Screen {
	case controller.ScreenList:
		u.renderList(st)
	case controller.ScreenView:
		u.renderPost(st)
	case controller.ScreenCreate, controller.ScreenEdit:
		u.renderForm(st)
	}
}

func (u *UI) renderList(st controller.State) {
	if st.Search != "" || st.Category != "" {
		fmt.Fprintf(u.out, "filters: search=%q category=%q\n", st.Search, st.Category)
	}

	if len(st.Posts) == 0 && !st.Loading {
		fmt.Fprintln(u.out, "no posts found")
	}

	for _, p := range st.Posts {
		fmt.Fprintf(u.out, "#%-4d %-40s %-12s %-10s views:%d\n",
			p.ID, truncate(p.Title, 40), p.Author, p.Category, p.Views)
	}

	// Пейджер скрыт, пока страниц не больше одной.
	if st.Pagination.Paged() {
		fmt.Fprintf(u.out, "page %d of %d (%d posts) — page next|prev|<n>\n",
			st.Pagination.Page, st.Pagination.TotalPages(), st.Pagination.Total)
	}
}

func (u *UI) renderPost(st controller.State) {
	p := st.Selected
	if p == nil {
		return
	}

	fmt.Fprintf(u.out, "#%d %s\n", p.ID, p.Title)
	fmt.Fprintf(u.out, "by %s | %s | views %d | created %s\n", p.Author, p.Category, p.Views, p.CreatedAt)

	if tags := models.SplitTags(p.Tags); len(tags) > 0 {
		fmt.Fprintf(u.out, "tags: %s\n", strings.Join(tags, ", "))
	}

	fmt.Fprintln(u.out, p.Content)
}

func (u *UI) renderForm(st controller.State) {
	head := "new post"
	if st.Screen == controller.ScreenEdit {
		head = "edit post"
	}

	fmt.Fprintf(u.out, "-- %s (title/content are required; submit | cancel) --\n", head)
	fmt.Fprintf(u.out, "title:    %s\n", st.Draft.Title)
	fmt.Fprintf(u.out, "author:   %s\n", st.Draft.Author)
	fmt.Fprintf(u.out, "category: %s\n", st.Draft.Category)
	fmt.Fprintf(u.out, "tags:     %s\n", st.Draft.Tags)
	fmt.Fprintf(u.out, "content:  %s\n", truncate(st.Draft.Content, 120))
}

func (u *UI) printHelp() {
	fmt.Fprintln(u.out, `commands:
  list | reload | search <text> | category <name> | filters
  page <n>|next|prev | view <id> | new | edit <id> | delete <id>
  title/content/author/tags/cat <text> | submit | cancel
  dismiss | quit`)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
