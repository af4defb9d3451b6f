package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
)

const healthcheckPingTimeout = 2 * time.Second

// healthcheck reports the build and whether every backing store answers a
// ping. Any unreachable store turns the response into a 503.
func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.healthcheck"
	ctx, cancel := context.WithTimeout(r.Context(), healthcheckPingTimeout)
	defer cancel()

	stores := make(map[string]string, len(app.stores))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, store := range app.stores {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := "up"
			if err := store.Ping(ctx); err != nil {
				app.log.Warn("store ping failed", "op", op, "store", name, "errMsg", err.Error())
				state = "down"
			}
			mu.Lock()
			stores[name] = state
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := "available"
	for _, state := range stores {
		if state != "up" {
			status = "degraded"
			render.Status(r, http.StatusServiceUnavailable)
			break
		}
	}
	render.JSON(w, r, struct {
		Status  string            `json:"status"`
		Debug   bool              `json:"debug"`
		Version string            `json:"version"`
		Stores  map[string]string `json:"stores"`
	}{
		Status:  status,
		Debug:   app.cfg.Debug,
		Version: version,
		Stores:  stores,
	})
}
