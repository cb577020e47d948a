package decisions

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MathiasVDS1/ProjectManagement/core/decisionlog"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// NewLogHandler returns the handler for GET /api/decisions, querying the
// decision log. Filters: site, service, since, until (RFC3339) and limit.
// Unparseable filter values are ignored.
func NewLogHandler(store decisionlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := decisionlog.Query{}
		if s := r.URL.Query().Get("since"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("until"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.Site = r.URL.Query().Get("site")
		q.Service = model.Service(r.URL.Query().Get("service"))
		if s := r.URL.Query().Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				q.Limit = n
			}
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, records)
	})
}
