package router

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"

	efiapp "github.com/tbeaudouin05/efi-proxy/api/services/efi/app"
)

// maxBodyBytes bounds inbound action requests.
const maxBodyBytes = 1 << 20

var errUnparsableBody = errors.New("body could not be parsed")

type proxy struct {
	apiKey string
	svc    efiapp.Service
	logger *zap.Logger
}

// actionRequest is the inbound {action, data} body.
type actionRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type errorBody struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	Action  string `json:"action,omitempty"`
}

func (p *proxy) handle(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if !p.authorized(r.Header.Get("Authorization")) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body", Details: err.Error()})
		return
	}
	req, err := parseActionRequest(raw)
	if err != nil {
		p.logger.Warn("invalid body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body", Details: err.Error()})
		return
	}
	if req.Action == "" || missing(req.Data) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "action and data are required"})
		return
	}

	out, err := p.svc.Dispatch(r.Context(), req.Action, req.Data)
	if err != nil {
		p.writeError(w, req.Action, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// authorized compares the bearer key against the configured one in constant time.
func (p *proxy) authorized(header string) bool {
	if p.apiKey == "" {
		return false
	}
	key, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(p.apiKey)) == 1
}

// parseActionRequest accepts a JSON object, or a JSON string holding one.
func parseActionRequest(raw []byte) (actionRequest, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return actionRequest{}, errUnparsableBody
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return actionRequest{}, err
		}
		raw = bytes.TrimSpace([]byte(inner))
	}
	if len(raw) == 0 || raw[0] != '{' {
		return actionRequest{}, errUnparsableBody
	}
	var req actionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return actionRequest{}, err
	}
	return req, nil
}

// missing reports whether data is absent or a falsy JSON literal.
func missing(data json.RawMessage) bool {
	switch strings.TrimSpace(string(data)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

func classify(err error) codes.Code {
	switch {
	case errors.Is(err, efiapp.ErrInvalidAction), errors.Is(err, efiapp.ErrInvalidData):
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

func (p *proxy) writeError(w http.ResponseWriter, action string, err error) {
	status := runtime.HTTPStatusFromCode(classify(err))

	var gErr *efiapp.GatewayError
	switch {
	case errors.Is(err, efiapp.ErrInvalidAction):
		writeJSON(w, status, errorBody{Error: "invalid action", Action: action})
	case errors.Is(err, efiapp.ErrInvalidData):
		writeJSON(w, status, errorBody{Error: "invalid data", Details: err.Error()})
	case errors.As(err, &gErr):
		p.logger.Error("gateway rejected action",
			zap.String("action", action),
			zap.Int("gateway_status", gErr.API.Status),
			zap.Error(err))
		failed := false
		writeJSON(w, status, errorBody{Success: &failed, Error: gErr.Message, Details: gErr.API.Details()})
	default:
		p.logger.Error("action failed", zap.String("action", action), zap.Error(err))
		writeJSON(w, status, errorBody{Error: "internal error", Details: err.Error()})
	}
}

// internalErrorJSON is written when a reply cannot be encoded.
var internalErrorJSON = []byte(`{"error":"internal error","details":"response could not be encoded"}` + "\n")

// writeJSON encodes v before committing the status so an encoding failure
// still yields a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status, body = http.StatusInternalServerError, internalErrorJSON
	} else {
		body = append(body, '\n')
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
