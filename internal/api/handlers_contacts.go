package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/campaign-console/internal/pkg/httputil"
	"github.com/ignite/campaign-console/internal/service/contact"
)

func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.contacts.List(r.Context(), currentUserID(r), contact.ListFilter{
		ListID: q.Get("list_id"),
		Status: q.Get("status"),
		Search: q.Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"contacts": items, "total": total})
}

func (h *Handlers) GetContact(w http.ResponseWriter, r *http.Request) {
	c, err := h.contacts.Get(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.contactError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	var input contact.CreateInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	c, err := h.contacts.Create(r.Context(), currentUserID(r), input)
	if err != nil {
		h.contactError(w, err)
		return
	}
	httputil.Created(w, c)
}

func (h *Handlers) ImportContacts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListID   string                `json:"list_id"`
		Contacts []contact.CreateInput `json:"contacts"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}
	if len(req.Contacts) == 0 {
		httputil.BadRequest(w, "no contacts supplied")
		return
	}

	res, err := h.contacts.Import(r.Context(), currentUserID(r), req.ListID, req.Contacts)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, res)
}

type updateContactRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	ListID    *string `json:"list_id"`
}

func (h *Handlers) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req updateContactRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	err := h.contacts.Update(r.Context(), currentUserID(r), chi.URLParam(r, "id"), contact.UpdateFields{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ListID:    req.ListID,
	})
	if err != nil {
		h.contactError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.Delete(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		h.contactError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) UnsubscribeContact(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.Unsubscribe(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		h.contactError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) ResubscribeContact(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.Resubscribe(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		h.contactError(w, err)
		return
	}
	httputil.NoContent(w)
}

// contactError maps service errors to HTTP responses.
func (h *Handlers) contactError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contact.ErrNotFound):
		httputil.NotFound(w, "contact not found")
	case errors.Is(err, contact.ErrInvalidEmail):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, contact.ErrDuplicateEmail):
		httputil.Error(w, http.StatusConflict, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
