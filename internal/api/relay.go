package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"resource_hub/internal/domain"
	"resource_hub/internal/notify/onesignal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type relayRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
	URL     string `json:"url"`
}

const (
	msgMethodNotAllowed = "Method not allowed"
	msgFieldsRequired   = "Title and message are required"
	msgInvalidBody      = "invalid request body"
	msgSent             = "Notification sent successfully!"
	msgSendFailed       = "Failed to send notification"
	msgInternal         = "Internal server error"
	msgDisabled         = "Notifications are disabled"
)

// relayHandler forwards a notification to every subscriber. Notifications
// without a URL open the relay's default URL.
func (s *Server) relayHandler(relay Relay) echo.HandlerFunc {
	origin := domain.OriginRelayPrefix + relay.Name

	return func(c echo.Context) error {
		if c.Request().Method != http.MethodPost {
			return c.JSON(http.StatusMethodNotAllowed, echo.Map{"error": msgMethodNotAllowed})
		}

		req, err := decodeRelayRequest(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
		}

		if err := validate.Struct(req); err != nil {
			var vErrs validator.ValidationErrors
			if errors.As(err, &vErrs) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": msgFieldsRequired})
			}
			return err
		}

		if s.opts.Sender == nil || !s.opts.Sender.Enabled() {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"success": false, "error": msgDisabled})
		}

		target := req.URL
		if target == "" {
			target = relay.DefaultURL
		}

		result, err := s.opts.Sender.Send(c.Request().Context(), origin, domain.Notification{
			Title:   req.Title,
			Message: req.Message,
			URL:     target,
		})
		if err != nil {
			var upstream *onesignal.UpstreamError
			if errors.As(err, &upstream) {
				return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": upstreamErrors(upstream)})
			}
			s.logger.Error("relay failed", "relay", relay.Name, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": msgInternal})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success":    true,
			"recipients": result.Recipients,
			"message":    msgSent,
		})
	}
}

// decodeRelayRequest reads a JSON body. An empty body decodes to an empty
// request so that it fails validation instead of parsing.
func decodeRelayRequest(body io.Reader) (*relayRequest, error) {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return nil, err
	}

	req := &relayRequest{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(raw, req); err != nil {
		return nil, err
	}
	return req, nil
}

// upstreamErrors passes the provider's errors through unchanged.
func upstreamErrors(err *onesignal.UpstreamError) any {
	trimmed := bytes.TrimSpace(err.Errors)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return msgSendFailed
	}
	return json.RawMessage(trimmed)
}
