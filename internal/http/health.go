package httpapi

import (
	"net/http"
	"sync"

	"github.com/rahul4902/blood-sub001/internal/clients"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "labcart",
		"loaded":  h.cart.Loaded(),
	})
}

func (h *Handler) Upstreams(w http.ResponseWriter, r *http.Request) {
	results := make([]clients.HealthResult, len(h.probes))

	var wg sync.WaitGroup
	wg.Add(len(h.probes))
	for i := range h.probes {
		go func() {
			defer wg.Done()
			results[i] = clients.CheckHealth(r.Context(), h.probes[i])
		}()
	}
	wg.Wait()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"service":  "labcart",
		"upstream": results,
	})
}
