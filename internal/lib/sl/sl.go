// Package sl содержит вспомогательные функции для формирования
// структурированных полей slog: ошибки и идентификаторы пользователей
// логируются под одними и теми же ключами во всех слоях сервиса.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to verify payment", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// UID возвращает slog.Attr с ключом "user_uid". Используется везде,
// где в лог попадает идентификатор пользователя.
func UID(uid string) slog.Attr {
	return slog.Attr{
		Key:   "user_uid",
		Value: slog.StringValue(uid),
	}
}
