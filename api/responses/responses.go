package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
	"github.com/mussa52/madalali-tz/pkg/logger"
)

// Envelope is the uniform response shape: success flag, optional message,
// optional payload, and an error detail string kept out of production.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Writer renders envelopes and owns the error-to-status mapping.
type Writer struct {
	logg *logger.Logger
	prod bool
}

// NewWriter builds a response writer. In prod mode internal error detail is
// suppressed from the envelope.
func NewWriter(logg *logger.Logger, prod bool) *Writer {
	return &Writer{logg: logg, prod: prod}
}

// Success writes a 200 envelope around data.
func (wr *Writer) Success(w http.ResponseWriter, data any) {
	wr.SuccessStatus(w, http.StatusOK, data)
}

// SuccessStatus writes an envelope around data with the given status.
func (wr *Writer) SuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// SuccessMessage writes an envelope with a human-readable message.
func (wr *Writer) SuccessMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Error classifies err, logs its full chain, and writes the mapped envelope.
func (wr *Writer) Error(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeDomainRule,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := Envelope{Success: false, Message: msg}

	// Internal detail never leaves a production deployment.
	if !wr.prod {
		switch typed.Code() {
		case pkgerrors.CodeInternal, pkgerrors.CodeDependency:
			payload.Error = err.Error()
		}
	}

	if wr.logg != nil {
		dump := pkgerrors.Dump(err)
		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}
		ctx = wr.logg.WithFields(ctx, fields)
		wr.logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
