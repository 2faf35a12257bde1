package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"langworker/internal/logging"
	"langworker/internal/registry"
)

// headerFallback marks responses whose resource was found by subtag
// stripping rather than an exact canonical/alias hit. Its value is the
// registry tag that actually matched.
const headerFallback = "X-Language-Fallback"

// LanguageInfo is one registry entry as exposed by GET /languages.
type LanguageInfo struct {
	Tag         string   `json:"tag"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	ContentType string   `json:"content_type"`
}

// LanguagesResponse is the GET /languages payload.
type LanguagesResponse struct {
	Languages []LanguageInfo `json:"languages"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.landing)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	languages := make([]LanguageInfo, 0, s.registry.Len())
	for _, entry := range s.registry.Entries() {
		info := LanguageInfo{
			Tag:     entry.Tag,
			Name:    entry.Name,
			Aliases: entry.Aliases,
		}
		if res, ok := s.catalog.Lookup(entry); ok {
			info.ContentType = res.ContentType
		}
		languages = append(languages, info)
	}
	sort.Slice(languages, func(i, j int) bool { return languages[i].Tag < languages[j].Tag })

	s.writeJSON(w, http.StatusOK, LanguagesResponse{Languages: languages})
}

// handleResource serves GET /resources/{tag}: the dispatcher path from raw
// request to exactly one outcome.
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/resources/")
	if raw == "" || strings.Contains(raw, "/") {
		s.writeError(w, http.StatusBadRequest, "missing language tag")
		return
	}
	tag, err := registry.NormalizeTag(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed language tag")
		return
	}

	s.respondResolved(w, r, s.resolver.Resolve(tag))
}

// handleNegotiated serves GET /resources: no tag in the path, so the tag
// query parameter or the Accept-Language header picks one. Header
// preferences are tried in order and the first that resolves wins.
func (s *Server) handleNegotiated(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if raw := r.URL.Query().Get("tag"); raw != "" {
		tag, err := registry.NormalizeTag(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "malformed language tag")
			return
		}
		s.respondResolved(w, r, s.resolver.Resolve(tag))
		return
	}

	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		s.writeError(w, http.StatusBadRequest, "missing language tag: supply /resources/{tag} or an Accept-Language header")
		return
	}
	candidates := acceptCandidates(header)
	if len(candidates) == 0 {
		s.writeError(w, http.StatusBadRequest, "malformed Accept-Language header")
		return
	}

	for _, candidate := range candidates {
		match := s.resolver.Resolve(candidate)
		if match.Outcome != registry.OutcomeNone {
			s.respondResolved(w, r, match)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "no registered language satisfies Accept-Language")
}

func (s *Server) respondResolved(w http.ResponseWriter, r *http.Request, match registry.Match) {
	if match.Outcome == registry.OutcomeNone {
		s.writeError(w, http.StatusNotFound, "unsupported language: "+match.Input)
		return
	}

	res, ok := s.catalog.Lookup(match.Entry)
	if !ok {
		// Loader validation makes this unreachable for any resolvable entry.
		s.log().Error("resolved entry missing from catalog",
			logging.String(logging.FieldTag, match.Input),
			logging.String(logging.FieldMatched, match.Entry.Tag))
		s.writeError(w, http.StatusInternalServerError, "resource unavailable")
		return
	}

	requestLog(r).Debug("resolved",
		logging.String(logging.FieldTag, match.Input),
		logging.String(logging.FieldMatched, match.Matched),
		logging.String("outcome", match.Outcome.String()))

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Language", match.Matched)
	if match.Outcome == registry.OutcomeFallback {
		w.Header().Set(headerFallback, match.Matched)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
