package api

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/projecthelena/greetpay/internal/clock"
	"github.com/projecthelena/greetpay/internal/logging"
)

// GreetingResponse is the body of a successful GET /api/user.
type GreetingResponse struct {
	Message   string `json:"message" example:"Hello, Alice!"`
	Timestamp string `json:"timestamp" example:"2024-01-01 12:00:00.000"`
}

// UserHandler serves the greeting endpoint.
type UserHandler struct {
	clock  clock.Clock
	logger zerolog.Logger
}

// NewUserHandler returns a UserHandler that stamps greetings with clk.
func NewUserHandler(clk clock.Clock) *UserHandler {
	return &UserHandler{clock: clk, logger: logging.New("user")}
}

// GetUser greets the caller by name.
// @Summary      Greet a user
// @Tags         user
// @Produce      json
// @Param        name  query    string  true  "name to greet"
// @Success      200   {object} GreetingResponse
// @Failure      400   {object} ErrorResponse
// @Router       /user [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	// An empty value is still a supplied parameter.
	if !query.Has("name") {
		writeError(w, http.StatusBadRequest, "missing required query parameter: name")
		return
	}
	name := query.Get("name")

	resp := GreetingResponse{
		Message:   fmt.Sprintf("Hello, %s!", name),
		Timestamp: clock.Stamp(h.clock),
	}
	h.logger.Debug().Str("name", sanitizeLog(name)).Str("timestamp", resp.Timestamp).Msg("greeted")

	writeJSON(w, http.StatusOK, resp)
}
