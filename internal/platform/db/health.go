package db

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
)

const healthTimeout = 5 * time.Second

var errNoPool = errors.New("database pool not configured")

// PoolUsage is the connection-pool snapshot reported by /health/db.
type PoolUsage struct {
	Open     int32 `json:"open"`
	Idle     int32 `json:"idle"`
	InUse    int32 `json:"inUse"`
	Max      int32 `json:"max"`
	Acquired int64 `json:"acquired"`
}

// DBHealth is the body of /health/db.
type DBHealth struct {
	Success bool       `json:"success"`
	Status  string     `json:"status"`
	Message string     `json:"message,omitempty"`
	Latency string     `json:"latency"`
	Pool    *PoolUsage `json:"pool,omitempty"`
}

func usage(pool *pgxpool.Pool) *PoolUsage {
	s := pool.Stat()
	return &PoolUsage{
		Open:     s.TotalConns(),
		Idle:     s.IdleConns(),
		InUse:    s.AcquiredConns(),
		Max:      s.MaxConns(),
		Acquired: s.AcquireCount(),
	}
}

// checkHealth times one ping and maps the outcome to a status code.
func checkHealth(ctx context.Context, ping func(context.Context) error) (int, DBHealth) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	h := DBHealth{Latency: time.Since(start).Round(time.Microsecond).String()}
	if err != nil {
		h.Status = "unhealthy"
		h.Message = apperr.ConnectivityMessage
		return http.StatusServiceUnavailable, h
	}
	h.Success = true
	h.Status = "healthy"
	return http.StatusOK, h
}

// HealthHandler answers 200 when the database responds to a ping and 503
// with the connectivity message otherwise.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		if pool == nil {
			code, h := checkHealth(c.Request().Context(), func(context.Context) error { return errNoPool })
			return c.JSON(code, h)
		}
		code, h := checkHealth(c.Request().Context(), pool.Ping)
		h.Pool = usage(pool)
		return c.JSON(code, h)
	}
}
