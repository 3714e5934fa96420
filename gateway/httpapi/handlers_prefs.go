package httpapi

import (
	"net/http"

	"github.com/motamman/signalk-units-preference-sub000/types"
)

// handleGetPreferences returns the full preference document.
func (s *Server) handleGetPreferences(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Preferences())
}

// handlePutCategory stores a category preference.
func (s *Server) handlePutCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	var pref types.CategoryPreference
	if !s.decodeBody(w, r, &pref) {
		return
	}
	if err := s.store.SetCategoryPreference(category, pref); err != nil {
		s.writeTypedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"category": category})
}

// handleDeleteCategory removes a category preference.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCategoryPreference(r.PathValue("category")); err != nil {
		s.writeTypedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// overrideRequest is the body of PUT /api/overrides.
type overrideRequest struct {
	Path string `json:"path"`
	types.CategoryPreference
}

// handlePutOverride stores an exact-path preference override.
func (s *Server) handlePutOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if err := s.store.SetPathOverride(req.Path, req.CategoryPreference); err != nil {
		s.writeTypedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"path": req.Path})
}

// handleDeleteOverride removes an exact-path override (?path=).
func (s *Server) handleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	path, ok := s.requireQuery(w, r, "path")
	if !ok {
		return
	}
	if err := s.store.DeletePathOverride(path); err != nil {
		s.writeTypedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePutPattern upserts a wildcard pattern rule.
func (s *Server) handlePutPattern(w http.ResponseWriter, r *http.Request) {
	var rule types.PathPatternRule
	if !s.decodeBody(w, r, &rule) {
		return
	}
	if err := s.store.UpsertPatternRule(rule); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, rule)
}

// handleDeletePattern removes the rule with the given pattern (?pattern=).
func (s *Server) handleDeletePattern(w http.ResponseWriter, r *http.Request) {
	pattern, ok := s.requireQuery(w, r, "pattern")
	if !ok {
		return
	}
	if err := s.store.DeletePatternRule(pattern); err != nil {
		s.writeTypedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// metadataRequest is the body of PUT /api/metadata.
type metadataRequest struct {
	Path string `json:"path"`
	types.UnitMetadata
}

// handlePutMetadata stores explicit per-path unit metadata.
func (s *Server) handlePutMetadata(w http.ResponseWriter, r *http.Request) {
	var req metadataRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if err := s.store.SetPathMetadata(req.Path, req.UnitMetadata); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"path": req.Path})
}

// handleDeleteMetadata removes explicit metadata for a path (?path=).
func (s *Server) handleDeleteMetadata(w http.ResponseWriter, r *http.Request) {
	path, ok := s.requireQuery(w, r, "path")
	if !ok {
		return
	}
	if err := s.store.DeletePathMetadata(path); err != nil {
		s.writeTypedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetCustomUnits returns all custom conversion tables.
func (s *Server) handleGetCustomUnits(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.CustomUnits())
}

// handlePutCustomUnit stores one custom conversion definition. Unsafe or
// unparseable formulas are rejected here, before they can reach the stream.
func (s *Server) handlePutCustomUnit(w http.ResponseWriter, r *http.Request) {
	baseUnit := r.PathValue("baseUnit")
	target := r.PathValue("target")
	var def types.ConversionDefinition
	if !s.decodeBody(w, r, &def) {
		return
	}
	if err := s.store.SetCustomConversion(baseUnit, target, def); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"baseUnit": baseUnit, "target": target})
}

// handleDeleteCustomUnit removes one custom conversion definition.
func (s *Server) handleDeleteCustomUnit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCustomConversion(r.PathValue("baseUnit"), r.PathValue("target")); err != nil {
		s.writeTypedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
