package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/moogar0880/problems"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

const problemContentType = "application/problem+json"

// writeError maps err onto a problem document by its error code.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	switch {
	case code == errors.ErrCodeInvalidNodeType:
		writeProblem(w, r, http.StatusUnprocessableEntity, "invalid_node_type", errors.UserMessage(err))
	case errors.IsInvalid(err):
		writeProblem(w, r, http.StatusBadRequest, "validation_error", errors.UserMessage(err))
	case code == errors.ErrCodeNotFound || code == errors.ErrCodeFileNotFound:
		writeProblem(w, r, http.StatusNotFound, "not_found", errors.UserMessage(err))
	case code == errors.ErrCodeTimeout:
		writeProblem(w, r, http.StatusGatewayTimeout, "timeout", errors.UserMessage(err))
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "node", errors.NodeID(err), "err", err)
		writeProblem(w, r, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, typ, detail string) {
	p := problems.NewStatusProblem(status).
		WithInstance(r.URL.Path).
		WithType(typ).
		WithDetail(detail)
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}
