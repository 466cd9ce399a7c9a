package booking

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"docportal/middleware"
	"docportal/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// receiptPayload returns bookingID|patient|date|signature for front-desk
// check-in scanners.
func (h *Handler) receiptPayload(id, patient, date string) string {
	data := fmt.Sprintf("%s|%s|%s", id, patient, date)
	mac := hmac.New(sha256.New, h.ReceiptSecret)
	mac.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// GET /booking/:id/receipt (authenticated, owner only).
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.Ledger.Get(r.Context(), ps.ByName("id"))
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}

	email, _ := middleware.Email(r.Context())
	if b.Patient != email {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden Access")
		return
	}

	id := b.ID.Hex()
	qrPNG, err := qrcode.Encode(h.receiptPayload(id, b.Patient, b.Date), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Appointment Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Treatment: %s", b.Treatment))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s   Slot: %s", b.Date, b.Slot))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Patient: %s", b.Patient))
	pdf.Ln(8)
	status := "unpaid"
	if b.Paid {
		status = fmt.Sprintf("paid (txn %s)", b.TransactionID)
	}
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", status))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=booking-"+id+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
