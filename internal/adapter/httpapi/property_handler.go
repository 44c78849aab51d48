package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxPhotoSize bounds a single uploaded photo.
const maxPhotoSize = 10 << 20

func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	actorID, _ := UserIDFromContext(r.Context())
	var req propertyRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	p, err := h.properties.CreateProperty(r.Context(), actorID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPropertyResponse(p))
}

func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPropertyResponse(p))
}

// parsePropertyFilter reads state, type_id, salesman_id, min_price,
// max_price, page and limit from the query string.
func parsePropertyFilter(r *http.Request) (domain.PropertyFilter, error) {
	q := r.URL.Query()
	filter := domain.PropertyFilter{
		PropertyTypeID: q.Get("type_id"),
		SalesmanID:     q.Get("salesman_id"),
	}
	if s := q.Get("state"); s != "" {
		state := domain.PropertyState(s)
		filter.State = &state
	}

	var err error
	if s := q.Get("min_price"); s != "" {
		if filter.MinPrice, err = strconv.ParseFloat(s, 64); err != nil {
			return filter, badQuery("min_price", s)
		}
	}
	if s := q.Get("max_price"); s != "" {
		if filter.MaxPrice, err = strconv.ParseFloat(s, 64); err != nil {
			return filter, badQuery("max_price", s)
		}
	}
	if s := q.Get("page"); s != "" {
		page, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return filter, badQuery("page", s)
		}
		filter.Page = int32(page)
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return filter, badQuery("limit", s)
		}
		filter.Limit = int32(limit)
	}
	return filter, nil
}

func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePropertyFilter(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	props, total, err := h.properties.ListProperties(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	resp := propertyListResponse{
		Properties: make([]propertyResponse, 0, len(props)),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, p := range props {
		resp.Properties = append(resp.Properties, newPropertyResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	p, err := h.properties.UpdateProperty(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPropertyResponse(p))
}

func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.properties.DeleteProperty(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CancelProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.CancelProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPropertyResponse(p))
}

func (h *Handler) SellProperty(w http.ResponseWriter, r *http.Request) {
	p, inv, err := h.properties.SellProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	resp := sellResponse{Property: newPropertyResponse(p)}
	if inv != nil {
		ir := newInvoiceResponse(inv)
		resp.Invoice = &ir
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.properties.ListInvoices(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	resp := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, newInvoiceResponse(inv))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UploadPhoto accepts a multipart form with the image in the "photo" field.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "missing 'photo' file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "failed to read photo")
		return
	}
	if len(data) > maxPhotoSize {
		writeErrorMessage(w, http.StatusRequestEntityTooLarge, "photo is too large")
		return
	}

	url, err := h.properties.UploadPhoto(r.Context(), id, header.Filename, data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("Photo uploaded", zap.String("property_id", id), zap.String("url", url))
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
