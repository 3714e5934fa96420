package httpapi

import (
	"net/http"

	"github.com/motamman/signalk-units-preference-sub000/pkg/timestamp"
	"github.com/motamman/signalk-units-preference-sub000/store"
)

// presetSummary is one entry of GET /api/presets.
type presetSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Categories  int    `json:"categories"`
}

// handleListPresets lists the built-in presets.
func (s *Server) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	names := s.store.PresetNames()
	out := make([]presetSummary, 0, len(names))
	for _, name := range names {
		preset, ok := s.store.Preset(name)
		if !ok {
			continue
		}
		out = append(out, presetSummary{
			Name:        preset.Name,
			Description: preset.Description,
			Categories:  len(preset.Categories),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleApplyPreset applies a named preset to the category preferences.
func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.store.ApplyPreset(name); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"applied": name})
}

// handleBackup exports all preference documents as one bundle.
func (s *Server) handleBackup(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="units-preferences-backup.json"`)
	s.writeJSON(w, http.StatusOK, s.store.Backup())
}

// handleRestore replaces all preference state from a bundle.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var bundle store.Bundle
	if !s.decodeBody(w, r, &bundle) {
		return
	}
	if err := s.store.Restore(&bundle); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status     string `json:"status"`
	Time       string `json:"time"`
	Categories int    `json:"categories"`
	Overrides  int    `json:"overrides"`
	Patterns   int    `json:"patterns"`
}

// handleHealth reports liveness plus a small snapshot of preference state.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	prefs := s.store.Preferences()
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Time:       timestamp.Format(timestamp.Now()),
		Categories: len(prefs.Categories),
		Overrides:  len(prefs.PathOverrides),
		Patterns:   len(prefs.PathPatterns),
	})
}
