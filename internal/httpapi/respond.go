package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Simplici0/referral-roi/internal/apperr"
)

type errorBody struct {
	Detail string      `json:"detail"`
	Code   apperr.Code `json:"code"`
}

func (s *server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	blob, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode response", zap.Error(err), zap.String("request_id", RequestIDFrom(r.Context())))
		status = http.StatusInternalServerError
		blob, _ = json.Marshal(errorBody{Detail: apperr.GenericMessage, Code: apperr.CodeInternal})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(blob, '\n'))
}

// writeError sends err as {"detail", "code"}. Internal causes are logged and
// never shown to the caller.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.From(err)

	fields := []zap.Field{
		zap.String("code", string(ae.Code)),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r.Context())),
	}
	if ae.Status >= http.StatusInternalServerError {
		s.log.Error("request failed", append(fields, zap.Error(ae.Err))...)
	} else {
		s.log.Info("request rejected", append(fields, zap.String("detail", ae.Message))...)
	}

	s.writeJSON(w, r, ae.Status, errorBody{Detail: ae.Message, Code: ae.Code})
}
