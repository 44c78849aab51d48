package httpapi

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/usecase"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	views, err := h.offers.ListOffers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	resp := make([]offerResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, newOfferViewResponse(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, err := req.toInput(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	o, err := h.offers.CreateOffer(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newOfferResponse(o))
}

// CreateOffers places every offer of the batch or none of them.
func (h *Handler) CreateOffers(w http.ResponseWriter, r *http.Request) {
	var req offerBatchRequest
	if !h.decode(w, r, &req) {
		return
	}
	propertyID := chi.URLParam(r, "id")
	inputs := make([]usecase.OfferInput, 0, len(req.Offers))
	for _, o := range req.Offers {
		in, err := o.toInput(propertyID)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		inputs = append(inputs, in)
	}
	offers, err := h.offers.CreateOffers(r.Context(), inputs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	resp := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		resp = append(resp, newOfferResponse(o))
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	v, err := h.offers.GetOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newOfferViewResponse(v))
}

func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	var req offerUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	o, err := h.offers.UpdateOffer(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newOfferResponse(o))
}

func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.offers.DeleteOffer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	o, p, err := h.offers.AcceptOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, acceptOfferResponse{Offer: newOfferResponse(o), Property: newPropertyResponse(p)})
}

func (h *Handler) RefuseOffer(w http.ResponseWriter, r *http.Request) {
	o, err := h.offers.RefuseOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newOfferResponse(o))
}
