// Package models содержит доменные структуры сервиса Streaming Star:
// пользователей, профили, подписки и каталог фильмов.
package models

import "time"

// User описывает учётную запись. Username совпадает с email —
// регистрация принимает только email в качестве логина.
type User struct {
	UID          string
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile привязан к пользователю один-к-одному и создаётся вместе с ним.
// IsSubscribed — денормализованный флаг доступа; источником истины
// является запись Subscription, флаг лишь кэширует её состояние.
type Profile struct {
	UserUID      string
	Mobile       string
	IsSubscribed bool
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"omitempty,max=15"`
	Password string `json:"password" validate:"required,min=6"`
}
