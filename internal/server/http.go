package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/groblegark/fieldgrid/internal/model"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/records/query", s.handleQueryRecords)
	mux.HandleFunc("POST /v1/menus/{menu}/values", s.handleSubmitValues)
	mux.HandleFunc("DELETE /v1/menus/{menu}/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("GET /v1/templates/{menu}/fields", s.handleListFields)
	mux.HandleFunc("POST /v1/templates/{menu}/fields", s.handleAddFields)
	mux.HandleFunc("DELETE /v1/fields", s.handleRemoveFields)
	mux.HandleFunc("GET /v1/fields/{key}", s.handleGetField)
	mux.HandleFunc("POST /v1/companies/{id}/provision", s.handleProvisionTemplates)
	mux.HandleFunc("GET /v1/config", s.handleGetConfig)
	mux.HandleFunc("POST /v1/query", s.handleQueryEntities)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleQueryRecords handles POST /v1/records/query.
func (s *Server) handleQueryRecords(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var q model.RecordQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	page, err := s.planner.Query(r.Context(), caller, q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// handleQueryEntities handles POST /v1/query.
func (s *Server) handleQueryEntities(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var q model.GenericQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	page, err := s.engine.Query(r.Context(), caller, q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

type submitValuesInput struct {
	RecordID int64              `json:"record_id"`
	Entries  []model.ValueEntry `json:"entries"`
}

// handleSubmitValues handles POST /v1/menus/{menu}/values.
func (s *Server) handleSubmitValues(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	menu, ok := menuFromPath(w, r)
	if !ok {
		return
	}

	var in submitValuesInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	recordID, created, err := s.SubmitValues(r.Context(), caller, menu, in.RecordID, in.Entries)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"record_id": recordID, "created": created})
}

// handleDeleteRecord handles DELETE /v1/menus/{menu}/records/{id}.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	menu, ok := menuFromPath(w, r)
	if !ok {
		return
	}

	recordID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := s.DeleteRecord(r.Context(), caller, menu, recordID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListFields handles GET /v1/templates/{menu}/fields.
func (s *Server) handleListFields(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	menu, ok := menuFromPath(w, r)
	if !ok {
		return
	}
	companyID, ok := companyIDFromQuery(w, r)
	if !ok {
		return
	}

	fields, err := s.ListFields(r.Context(), caller, menu, companyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Ensure fields is never null in JSON output.
	if fields == nil {
		fields = []*model.Field{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"fields": fields})
}

type addFieldsInput struct {
	Fields []*model.Field `json:"fields"`
}

// handleAddFields handles POST /v1/templates/{menu}/fields.
func (s *Server) handleAddFields(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	menu, ok := menuFromPath(w, r)
	if !ok {
		return
	}
	companyID, ok := companyIDFromQuery(w, r)
	if !ok {
		return
	}

	var in addFieldsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fields, err := s.AddFields(r.Context(), caller, menu, companyID, in.Fields)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"fields": fields})
}

type removeFieldsInput struct {
	Keys []string `json:"keys"`
}

// handleRemoveFields handles DELETE /v1/fields.
func (s *Server) handleRemoveFields(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var in removeFieldsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.RemoveFields(r.Context(), caller, in.Keys); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetField handles GET /v1/fields/{key}.
func (s *Server) handleGetField(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerIdentity(w, r); !ok {
		return
	}

	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	field, err := s.GetField(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, field)
}

// handleProvisionTemplates handles POST /v1/companies/{id}/provision.
func (s *Server) handleProvisionTemplates(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	companyID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	templates, err := s.ProvisionTemplates(r.Context(), caller, companyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"templates": templates})
}

// handleGetConfig handles GET /v1/config.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	companyID, ok := companyIDFromQuery(w, r)
	if !ok {
		return
	}

	cfg, err := s.GetSearchConfig(r.Context(), caller, companyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// callerIdentity decodes the caller identity from the trusted gateway headers
// and writes a 401 when it is absent.
func callerIdentity(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	username := r.Header.Get("X-User-Name")
	if username == "" {
		writeError(w, http.StatusUnauthorized, "missing identity headers")
		return model.Identity{}, false
	}

	id := model.Identity{Username: username, Role: model.RoleUser}
	if v := r.Header.Get("X-User-Id"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			id.ID = n
		}
	}
	if v := r.Header.Get("X-User-Role"); v != "" {
		if role := model.Role(strings.ToLower(v)); role.IsValid() {
			id.Role = role
		}
	}
	if v := r.Header.Get("X-Company-Ids"); v != "" {
		for _, part := range strings.Split(v, ",") {
			if n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
				id.CompanyIDs = append(id.CompanyIDs, n)
			}
		}
	}

	return id, true
}

// menuFromPath parses the {menu} path segment.
func menuFromPath(w http.ResponseWriter, r *http.Request) (model.Menu, bool) {
	n, err := strconv.ParseInt(r.PathValue("menu"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu id")
		return 0, false
	}
	return model.Menu(n), true
}

// companyIDFromQuery parses the required company_id query parameter.
func companyIDFromQuery(w http.ResponseWriter, r *http.Request) (int64, bool) {
	v := r.URL.Query().Get("company_id")
	if v == "" {
		writeError(w, http.StatusBadRequest, "company_id is required")
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company_id")
		return 0, false
	}
	return n, true
}

// writeDomainError maps typed service errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var nf model.NotFoundError
	var ua model.UnauthorizedError
	var ve model.ValidationError
	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ua):
		writeError(w, http.StatusForbidden, ua.Error())
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
