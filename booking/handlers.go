package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"docportal/middleware"
	"docportal/models"
	"docportal/mq"
	"docportal/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Ledger *Ledger
	Events *mq.Emitter
	Hub    *Hub
	// ReceiptSecret signs the QR payload on PDF receipts.
	ReceiptSecret []byte
}

// POST /booking (public, rate-limited). Returns {success:false, booking}
// for a duplicate (treatment, date, patient) triple instead of an error.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req models.Booking
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Treatment == "" || req.Date == "" || req.Patient == "" || req.Slot == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	result, err := h.Ledger.Create(r.Context(), req)
	if errors.Is(err, ErrUnknownService) || errors.Is(err, ErrUnknownSlot) {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	if !result.Accepted {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success": false,
			"booking": result.Booking,
		})
		return
	}

	h.Events.Emit(r.Context(), mq.BookingCreated, result.Booking)
	h.Hub.NotifyDate(req.Date)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"booking": result.Booking,
	})
}

// GET /booking?patient=X (authenticated). The caller may only read their
// own bookings; a mismatch is rejected outright, never filtered.
func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	patient := r.URL.Query().Get("patient")
	email, _ := middleware.Email(r.Context())
	if patient == "" || patient != email {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden Access")
		return
	}

	bookings, err := h.Ledger.ByPatient(r.Context(), patient)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// GET /booking/:id (authenticated).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.Ledger.Get(r.Context(), ps.ByName("id"))
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}

// PATCH /booking/:id (authenticated). Records the payment and marks the
// booking paid in one transactional step.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if payment.TransactionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "transactionId is required")
		return
	}
	payment.ID = uuid.NewString()
	payment.CreatedAt = time.Now()

	b, err := h.Ledger.Confirm(r.Context(), ps.ByName("id"), payment)
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	h.Events.Emit(r.Context(), mq.PaymentConfirmed, b)
	utils.RespondWithJSON(w, http.StatusOK, b)
}

// GET /available?date=D (public).
func (h *Handler) Available(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "date is required")
		return
	}

	services, err := h.Ledger.Available(r.Context(), date)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute availability")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, services)
}
