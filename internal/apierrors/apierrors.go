// apierrors стандартизирует ошибки обращения к posts-бэкенду.
//
// Клиентский слой поднимает любой сбой (транспорт, не-2xx, битый JSON)
// как *APIError; наружу для показа уходит одна строка через Message.
// Таксономия:
//   - транспортный сбой — generic message, Status == 0;
//   - HTTP-ошибка — message из тела ответа либо generic по коду,
//     Status сохранён для программной обработки;
//   - всё прочее — фиксированный fallback, ничего «сырого» до рендера
//     не доходит.
package apierrors

import (
	"errors"
	"fmt"
)

// FallbackMessage — сообщение для сбоев, не несущих текста.
const FallbackMessage = "an unknown error occurred"

// APIError — единый вид сбоя клиентского слоя.
// Message безопасен для показа как есть; RawBody — тело ответа для
// диагностики (может быть nil).
type APIError struct {
	Message string
	Status  int
	RawBody []byte
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}

	return fmt.Sprintf("api error: %s", e.Message)
}

// New — транспортный/локальный сбой без HTTP-статуса.
func New(message string) *APIError {
	return &APIError{Message: message}
}

// NewHTTP — сбой с HTTP-статусом и сырым телом ответа.
func NewHTTP(message string, status int, rawBody []byte) *APIError {
	return &APIError{Message: message, Status: status, RawBody: rawBody}
}

// Message конвертирует любой сбой в строку для показа.
// Функция чистая и сама никогда не падает. Порядок правил:
//  1. *APIError — его Message как есть;
//  2. прочая непустая ошибка — err.Error();
//  3. nil/пустая — фиксированный fallback.
func Message(err error) string {
	if err == nil {
		return FallbackMessage
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}

		return FallbackMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return FallbackMessage
}

// Status возвращает HTTP-статус сбоя (0, если его нет).
func Status(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}

	return 0
}
