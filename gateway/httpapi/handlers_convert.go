package httpapi

import (
	"net/http"

	"github.com/motamman/signalk-units-preference-sub000/convert"
)

// convertPathRequest is the body of POST /api/paths/convert.
type convertPathRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// convertUnitRequest is the body of POST /api/units/convert.
type convertUnitRequest struct {
	BaseUnit      string `json:"baseUnit"`
	TargetUnit    string `json:"targetUnit"`
	Value         any    `json:"value"`
	DisplayFormat string `json:"displayFormat,omitempty"`
}

// handleGetConversion reports the conversion that would apply to a path,
// without converting a value. Unresolvable paths answer with the pass-through
// response, not an error.
func (s *Server) handleGetConversion(w http.ResponseWriter, r *http.Request) {
	path, ok := s.requireQuery(w, r, "path")
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.GetConversion(path))
}

// handleConvertPath converts one value for a path through the request entry
// point; typed conversion errors surface as 4xx.
func (s *Server) handleConvertPath(w http.ResponseWriter, r *http.Request) {
	var req convertPathRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	result, err := s.engine.ConvertPathValue(req.Path, req.Value)
	if err != nil {
		s.writeTypedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleConvertUnitValue runs an ad-hoc base->target conversion with no path
// involved. A missing target definition is a 404.
func (s *Server) handleConvertUnitValue(w http.ResponseWriter, r *http.Request) {
	var req convertUnitRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.BaseUnit == "" || req.TargetUnit == "" {
		s.writeError(w, http.StatusBadRequest, "baseUnit and targetUnit are required")
		return
	}

	result, err := s.engine.ConvertUnitValue(req.BaseUnit, req.TargetUnit, req.Value,
		convert.UnitValueOptions{DisplayFormat: req.DisplayFormat})
	if err != nil {
		s.writeTypedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}
