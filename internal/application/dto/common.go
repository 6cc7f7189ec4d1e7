package dto

import "strings"

// Límites de paginación.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	Query  string `query:"q"`
}

// Normalize acota Limit a 1..MaxLimit (DefaultLimit si no viene) y Offset a >= 0.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	p.Query = strings.TrimSpace(p.Query)
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse confirmación sin cuerpo de recurso.
type MessageResponse struct {
	Message string `json:"message"`
}
