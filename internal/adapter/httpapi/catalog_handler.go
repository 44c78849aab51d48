package httpapi

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.tags.CreateTag(r.Context(), req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTagResponse(t))
}

func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	t, err := h.tags.GetTag(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newTagResponse(t))
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListTags(r.Context(), domain.TagFilter{PropertyID: r.URL.Query().Get("property_id")})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	resp := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, newTagResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.tags.UpdateTag(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newTagResponse(t))
}

func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.tags.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreatePropertyType(w http.ResponseWriter, r *http.Request) {
	var req propertyTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.types.CreatePropertyType(r.Context(), req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPropertyTypeResponse(t))
}

func (h *Handler) GetPropertyType(w http.ResponseWriter, r *http.Request) {
	t, err := h.types.GetPropertyType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPropertyTypeResponse(t))
}

func (h *Handler) ListPropertyTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.types.ListPropertyTypes(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	resp := make([]propertyTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, newPropertyTypeResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdatePropertyType(w http.ResponseWriter, r *http.Request) {
	var req propertyTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.types.UpdatePropertyType(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPropertyTypeResponse(t))
}

func (h *Handler) DeletePropertyType(w http.ResponseWriter, r *http.Request) {
	if err := h.types.DeletePropertyType(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
