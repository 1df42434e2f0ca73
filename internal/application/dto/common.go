package dto

import "time"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Fields  []FieldErrorDTO `json:"fields,omitempty"`
	Saga    *SagaFailureDTO `json:"saga,omitempty"`
}

// FieldErrorDTO campo inválido en una petición.
type FieldErrorDTO struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// SagaFailureDTO detalle de una operación interrumpida a mitad de camino.
type SagaFailureDTO struct {
	Saga           string   `json:"saga"`
	FailedStep     string   `json:"failed_step"`
	CompletedSteps []string `json:"completed_steps"`
	IntegrityDrift bool     `json:"integrity_drift"`
}

// SnapshotMeta indica de cuándo es la vista y si el refresco falló.
type SnapshotMeta struct {
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale"`
	Warning   string    `json:"warning,omitempty"`
}

// ListResponse envoltorio de las vistas de listado.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Meta  SnapshotMeta `json:"meta"`
}
