package adapthttp

import (
	"net/http"

	"caltrack/internal/catalog"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	items := catalog.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"totals": catalog.MenuTotals(items),
	})
}

func (s *Server) handleCatalogRandom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	menu := catalog.RandomDayMenu(s.rng)
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  menu,
		"totals": catalog.MenuTotals(menu),
	})
}
