package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/projecthelena/greetpay/internal/clock"
	"github.com/projecthelena/greetpay/internal/logging"
)

// PaymentHandler serves the payment echo endpoint.
type PaymentHandler struct {
	clock        clock.Clock
	maxBodyBytes int64
	logger       zerolog.Logger
}

// NewPaymentHandler returns a PaymentHandler that rejects bodies over
// maxBodyBytes.
func NewPaymentHandler(clk clock.Clock, maxBodyBytes int64) *PaymentHandler {
	return &PaymentHandler{
		clock:        clk,
		maxBodyBytes: maxBodyBytes,
		logger:       logging.New("payment"),
	}
}

// PostPayment echoes the posted JSON object back with a timestamp member.
// @Summary      Stamp a payment payload
// @Description  Any JSON object is accepted. The response is the same object with "timestamp" added or overwritten.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        payload  body     object  true  "arbitrary JSON object"
// @Success      200      {object} object
// @Failure      400      {object} ErrorResponse
// @Failure      413      {object} ErrorResponse
// @Router       /payment [post]
func (h *PaymentHandler) PostPayment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	stamped, err := stampObject(body, clock.Stamp(h.clock))
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyBody), errors.Is(err, ErrMalformedBody), errors.Is(err, ErrNotObject):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to stamp payment")
			writeError(w, http.StatusInternalServerError, "failed to stamp payment")
		}
		return
	}

	h.logger.Debug().Int("bytes", len(stamped)).Msg("payment stamped")
	writeRawJSON(w, http.StatusOK, stamped)
}
