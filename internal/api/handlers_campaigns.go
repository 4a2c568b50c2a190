package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/campaign-console/internal/pkg/httputil"
	"github.com/ignite/campaign-console/internal/service/campaign"
)

func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.campaigns.List(r.Context(), currentUserID(r), campaign.ListFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"campaigns": items, "total": total})
}

func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.campaigns.Get(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.campaignError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var input campaign.CreateInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	c, err := h.campaigns.Create(r.Context(), currentUserID(r), input)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.Created(w, c)
}

// updateCampaignRequest mirrors campaign.UpdateFields with JSON names.
type updateCampaignRequest struct {
	Name        *string `json:"name"`
	Subject     *string `json:"subject"`
	FromName    *string `json:"from_name"`
	FromEmail   *string `json:"from_email"`
	ReplyTo     *string `json:"reply_to"`
	HTMLContent *string `json:"html_content"`
	PreviewText *string `json:"preview_text"`
	ListID      *string `json:"list_id"`
}

func (h *Handlers) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var req updateCampaignRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	err := h.campaigns.Update(r.Context(), currentUserID(r), chi.URLParam(r, "id"), campaign.UpdateFields{
		Name:        req.Name,
		Subject:     req.Subject,
		FromName:    req.FromName,
		FromEmail:   req.FromEmail,
		ReplyTo:     req.ReplyTo,
		HTMLContent: req.HTMLContent,
		PreviewText: req.PreviewText,
		ListID:      req.ListID,
	})
	if err != nil {
		h.campaignError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.Delete(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		h.campaignError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) ScheduleCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := h.campaigns.Schedule(r.Context(), currentUserID(r), chi.URLParam(r, "id"), req.ScheduledAt); err != nil {
		h.campaignError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) SendCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.Send(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		h.campaignError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "sending"})
}

func (h *Handlers) CancelCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.Cancel(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		h.campaignError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) TestSendCampaign(w http.ResponseWriter, r *http.Request) {
	if h.sender == nil {
		httputil.Error(w, http.StatusNotImplemented, "test sends are not configured")
		return
	}
	var req struct {
		Recipient string `json:"recipient"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}

	c, err := h.campaigns.Get(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.campaignError(w, err)
		return
	}

	messageID, err := h.sender.SendTest(r.Context(), c, req.Recipient)
	if err != nil {
		httputil.BadGateway(w, err)
		return
	}
	httputil.OK(w, map[string]string{"message_id": messageID})
}

// campaignError maps service errors to HTTP responses.
func (h *Handlers) campaignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaign.ErrNotFound):
		httputil.NotFound(w, "campaign not found")
	case errors.Is(err, campaign.ErrNotEditable),
		errors.Is(err, campaign.ErrInvalidTransition),
		errors.Is(err, campaign.ErrAlreadySending),
		errors.Is(err, campaign.ErrScheduleInPast):
		httputil.Error(w, http.StatusConflict, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
