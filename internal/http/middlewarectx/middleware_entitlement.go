package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamingstar/streaming-star/internal/http/response"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/services/entitlement"
)

// EntitlementChecker описывает контракт проверки права на просмотр.
type EntitlementChecker interface {
	Check(ctx context.Context, userUID string) (entitlement.Decision, error)
}

// EntitlementMiddleware пропускает запрос дальше только при действующей
// подписке. Отказ возвращается с HTTP 403 и причиной в теле ответа.
func EntitlementMiddleware(checker EntitlementChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.EntitlementMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			decision, err := checker.Check(r.Context(), userUID)
			if err != nil {
				log.Error("failed to check entitlement", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if !decision.Allowed {
				log.Info("playback denied",
					sl.UID(userUID),
					slog.String("reason", decision.Reason))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("active subscription required: "+decision.Reason))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
