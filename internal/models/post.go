// models содержит wire-модели posts-бэкенда и клиентские формы.
// Типы используются слоями клиента, контроллера и рендера.
package models

import (
	"net/url"
	"strconv"
	"strings"
)

// Post — статья в том виде, в котором её отдаёт сервер.
//
// Особенности:
//   - ID назначается сервером и неизменяем;
//   - Tags — одна строка со списком тегов через запятую (не массив);
//   - Views инкрементируется сервером при чтении детали;
//   - CreatedAt/UpdatedAt — ISO-8601 строки, клиент их не пишет.
type Post struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	Tags      string `json:"tags"`
	Views     int64  `json:"views"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// SplitTags — разбор строки тегов для отображения.
// Пустые элементы отбрасываются, пробелы по краям срезаются.
func SplitTags(tags string) []string {
	if tags == "" {
		return nil
	}

	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}

	return out
}

// Draft — несохранённая форма статьи (create/edit).
// Существует только на клиенте; тело POST содержит ровно эти поля.
type Draft struct {
	Title    string `json:"title"    validate:"required"`
	Content  string `json:"content"  validate:"required"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
}

// FromPost заполняет черновик текстовыми полями статьи.
func (d *Draft) FromPost(p Post) {
	d.Title = p.Title
	d.Content = p.Content
	d.Author = p.Author
	d.Category = p.Category
	d.Tags = p.Tags
}

// Patch собирает полный DraftPatch из черновика.
func (d Draft) Patch() DraftPatch {
	return DraftPatch{
		Title:    &d.Title,
		Content:  &d.Content,
		Author:   &d.Author,
		Category: &d.Category,
		Tags:     &d.Tags,
	}
}

// DraftPatch — частичное обновление: отсутствующие поля сервер не трогает.
type DraftPatch struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Author   *string `json:"author,omitempty"`
	Category *string `json:"category,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}

// Query — параметры выборки списка статей.
// Нулевые значения означают «фильтр не задан» и в запрос не попадают.
type Query struct {
	Search   string
	Category string
	Author   string
	Page     int
	Limit    int
}

// Values сериализует запрос в URL-параметры.
// Пустые строки и нулевые числа строго опускаются: field= не отправляется.
func (q Query) Values() url.Values {
	v := url.Values{}

	if q.Search != "" {
		v.Set("search", q.Search)
	}

	if q.Category != "" {
		v.Set("category", q.Category)
	}

	if q.Author != "" {
		v.Set("author", q.Author)
	}

	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	return v
}

// QueryPatch — переопределения поверх базового запроса (overrides win).
type QueryPatch struct {
	Search   *string
	Category *string
	Author   *string
	Page     *int
	Limit    *int
}

// Apply накладывает переопределения на базовый запрос.
func (p *QueryPatch) Apply(base Query) Query {
	if p == nil {
		return base
	}

	if p.Search != nil {
		base.Search = *p.Search
	}

	if p.Category != nil {
		base.Category = *p.Category
	}

	if p.Author != nil {
		base.Author = *p.Author
	}

	if p.Page != nil {
		base.Page = *p.Page
	}

	if p.Limit != nil {
		base.Limit = *p.Limit
	}

	return base
}

// PostList — ответ листинга: страница статей плюс фактические page/limit,
// которые применил сервер (не обязательно совпадают с запрошенными).
type PostList struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// Pagination — состояние пейджера из последнего успешного листинга.
type Pagination struct {
	Page  int
	Limit int
	Total int
}

// TotalPages — ceil(total/limit); 0 при неизвестном лимите.
func (p Pagination) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}

	return (p.Total + p.Limit - 1) / p.Limit
}

// Paged сообщает, нужен ли пейджер (скрывается при totalPages <= 1).
func (p Pagination) Paged() bool {
	return p.TotalPages() > 1
}
