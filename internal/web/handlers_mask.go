package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/mask"
)

// maxFields bounds POST /api/mask/fields.
const maxFields = 100

type maskRequest struct {
	Value string `json:"value"`
	Kind  string `json:"kind"`
}

type fieldsRequest struct {
	Fields []core.FieldInput `json:"fields"`
}

type fieldsResponse struct {
	Fields []core.FieldResult `json:"fields"`
}

type kindInfo struct {
	Kind       mask.Kind `json:"kind"`
	MaxDigits  int       `json:"max_digits"`
	Template   string    `json:"template"`
	Groups     []int     `json:"groups"`
	Separators []string  `json:"separators"`
}

// handleMask formats one value: {value, kind} -> {value, kind, formatted, complete}.
func (s *Server) handleMask(w http.ResponseWriter, r *http.Request) {
	var req maskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := s.service.FormatDocument(req.Value, req.Kind)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.metrics.formatted(result.Kind.String())

	writeJSON(w, http.StatusOK, result)
}

// handleMaskFields detects document fields and formats their values.
func (s *Server) handleMaskFields(w http.ResponseWriter, r *http.Request) {
	var req fieldsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(req.Fields) > maxFields {
		err := fmt.Errorf("%w: %d fields, at most %d", errBadRequest, len(req.Fields), maxFields)
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	results := s.service.FormatFields(req.Fields)
	for _, res := range results {
		if res.Masked {
			s.metrics.formatted(res.Kind.String())
		}
	}

	writeJSON(w, http.StatusOK, fieldsResponse{Fields: results})
}

// handleMaskKinds lists the registered layouts.
func (s *Server) handleMaskKinds(w http.ResponseWriter, r *http.Request) {
	layouts := mask.Layouts()
	kinds := make([]kindInfo, len(layouts))
	for i, l := range layouts {
		kinds[i] = kindInfo{
			Kind:       l.Kind,
			MaxDigits:  l.MaxDigits(),
			Template:   l.Template(),
			Groups:     l.Groups,
			Separators: l.Separators,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"kinds": kinds})
}
