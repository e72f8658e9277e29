package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-userform/pkg/apidoc"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/store"
	"github.com/goliatone/go-userform/pkg/store/httpstore"
)

type apiHandler struct {
	server *Server
}

func (h *apiHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.server.store.List(r.Context())
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *apiHandler) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	user, err := h.server.store.Create(r.Context(), payload)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *apiHandler) update(w http.ResponseWriter, r *http.Request) {
	id := model.ID(strings.TrimSpace(r.PathValue("id")))
	if id.IsZero() {
		writeError(w, http.StatusBadRequest, "missing user id", nil)
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	user, err := h.server.store.Update(r.Context(), id, payload)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *apiHandler) remove(w http.ResponseWriter, r *http.Request) {
	id := model.ID(strings.TrimSpace(r.PathValue("id")))
	if id.IsZero() {
		writeError(w, http.StatusBadRequest, "missing user id", nil)
		return
	}
	if _, err := h.server.store.Delete(r.Context(), id); err != nil {
		h.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// decode reads the JSON body and runs it through the validation engine and
// then the OpenAPI schema. It writes the error response itself and returns
// false when the request must stop.
func (h *apiHandler) decode(w http.ResponseWriter, r *http.Request) (model.Payload, bool) {
	body, err := readObject(w, r, h.server.opts.MaxBodyBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}

	values, dateErrs := h.values(body)
	errs, _, valid := h.server.engine.ValidateAll(values)
	if !valid || len(dateErrs) > 0 {
		fields := make(map[string][]string, len(errs)+len(dateErrs))
		for name, msg := range errs {
			fields[name] = []string{msg}
		}
		for name, msg := range dateErrs {
			fields[name] = []string{msg}
		}
		writeError(w, http.StatusUnprocessableEntity, "validation failed", fields)
		return nil, false
	}

	if err := h.server.validator.ValidatePayload(body); err != nil {
		var payloadErr *apidoc.PayloadError
		if errors.As(err, &payloadErr) {
			writeError(w, http.StatusBadRequest, "payload does not match schema", payloadErr.FieldMessages())
			return nil, false
		}
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}

	return model.Normalize(h.server.registry, values), true
}

// values picks the registry fields out of body. Date strings are decoded;
// unparseable ones are reported separately so the engine sees them as blank.
func (h *apiHandler) values(body map[string]any) (model.Values, map[string]string) {
	values := h.server.registry.BlankValues()
	dateErrs := map[string]string{}
	for _, field := range h.server.registry.Fields() {
		raw, present := body[field.Name]
		if !present || raw == nil {
			continue
		}
		if field.Kind != model.KindDate {
			values[field.Name] = raw
			continue
		}
		text, _ := raw.(string)
		parsed, err := model.ParseDate(text)
		if err != nil {
			dateErrs[field.Name] = field.Label + " must be a date (YYYY-MM-DD)"
			continue
		}
		if !parsed.IsZero() {
			values[field.Name] = parsed
		}
	}
	return values, dateErrs
}

func (h *apiHandler) storeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found", nil)
		return
	}
	var status *httpstore.StatusError
	if errors.As(err, &status) && status.Code == http.StatusUnprocessableEntity {
		writeError(w, http.StatusUnprocessableEntity, "backend rejected the user", status.Fields)
		return
	}
	h.server.logger.ErrorContext(r.Context(), "store call failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusBadGateway, "persistence backend unavailable", nil)
}

func readObject(w http.ResponseWriter, r *http.Request, limit int64) (map[string]any, error) {
	reader := http.MaxBytesReader(w, r.Body, limit)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.New("request body could not be read")
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return body, nil
}
