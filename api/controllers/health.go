package controllers

import (
	"net/http"

	"github.com/casalink-ph/casalink-backend/api/responses"
	"github.com/casalink-ph/casalink-backend/pkg/config"
	"github.com/casalink-ph/casalink-backend/pkg/db"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/casalink-ph/casalink-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CasaLink-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, redis. A nil redis
// pinger means the change relay is disabled and readiness skips it.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CasaLink-Env", cfg.App.Env)

		checks := map[string]string{"db": "ok"}
		ready := true
		if err := dbP.Ping(r.Context()); err != nil {
			logg.Error(r.Context(), "readiness db ping failed", err)
			checks["db"] = "unreachable"
			ready = false
		}
		if redisP != nil {
			checks["redis"] = "ok"
			if err := redisP.Ping(r.Context()); err != nil {
				logg.Error(r.Context(), "readiness redis ping failed", err)
				checks["redis"] = "unreachable"
				ready = false
			}
		}

		if !ready {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "not ready"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
