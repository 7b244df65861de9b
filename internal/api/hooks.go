// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"path"
	"strings"

	"github.com/ManuGH/streamgate/internal/mapper"
)

// maxFormBytes caps callback bodies; hosts send a handful of short fields.
const maxFormBytes = 16 << 10

// callRelay marks host-internal relay pulls, which have no remote client.
const callRelay = "relay"

// handleOnPlay answers the streaming host's play callback. Real content
// gets 200; any rejection gets a 302 whose Location is the name the host
// should rebind the stream to, so the client plays the fallback video.
func (s *Server) handleOnPlay(w http.ResponseWriter, r *http.Request) {
	m := s.mapper.Load()
	if m == nil {
		writeError(w, r, http.StatusServiceUnavailable, "not_ready", "mapper not initialised")
		return
	}
	req, ok := parseHookForm(w, r)
	if !ok {
		return
	}

	res := m.ResolveStreamFile(r.Context(), req)
	if res.Rebind {
		w.Header().Set("Location", res.RebindName)
		writeJSON(w, r, http.StatusFound, res)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// publishResponse tells the host where to write a published stream.
type publishResponse struct {
	Path string `json:"path"`
}

// handleOnPublish maps publish and record requests. They are not ticket gated.
func (s *Server) handleOnPublish(w http.ResponseWriter, r *http.Request) {
	m := s.mapper.Load()
	if m == nil {
		writeError(w, r, http.StatusServiceUnavailable, "not_ready", "mapper not initialised")
		return
	}
	req, ok := parseHookForm(w, r)
	if !ok {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	writeJSON(w, r, http.StatusOK, publishResponse{Path: m.ResolveWriteFile(r.Context(), req.Name, req.Ext)})
}

// parseHookForm reads the host's callback form. The ticket query comes
// from args, or from the query part of tcurl when args is empty.
func parseHookForm(w http.ResponseWriter, r *http.Request) (mapper.Request, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "cannot parse callback form")
		return mapper.Request{}, false
	}

	addr := strings.TrimSpace(r.PostForm.Get("addr"))
	call := r.PostForm.Get("call")
	query := r.PostForm.Get("args")
	if query == "" {
		query = r.PostForm.Get("tcurl")
	}
	name := r.PostForm.Get("name")
	ext := r.PostForm.Get("ext")
	if ext == "" {
		ext = strings.TrimPrefix(path.Ext(name), ".")
	}

	return mapper.Request{
		Query:            query,
		ClientIdentity:   addr,
		HasClient:        addr != "" && call != callRelay,
		Name:             name,
		Ext:              ext,
		PresentationType: r.PostForm.Get("type"),
	}, true
}
