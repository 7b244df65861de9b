// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/ManuGH/streamgate/internal/mapper"
)

// handleResolve runs the same decision as the play hook and returns the
// full result as JSON, always with 200. Useful for hosts that prefer to
// fetch the path and for operators debugging a ticket.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	m := s.mapper.Load()
	if m == nil {
		writeError(w, r, http.StatusServiceUnavailable, "not_ready", "mapper not initialised")
		return
	}
	q := r.URL.Query()
	client := q.Get("client")
	res := m.ResolveStreamFile(r.Context(), mapper.Request{
		Query:            q.Get("query"),
		ClientIdentity:   client,
		HasClient:        client != "",
		Name:             q.Get("name"),
		Ext:              q.Get("ext"),
		PresentationType: q.Get("type"),
	})
	writeJSON(w, r, http.StatusOK, res)
}
