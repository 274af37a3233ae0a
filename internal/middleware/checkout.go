package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http" // HTTP status codes for responses
	"strconv"  // parse the booking id path parameter
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/railway-seat-reservation/internal/utils"
)

// CheckoutHeader carries the checkout token when the Authorization header is
// not used.
const CheckoutHeader = "X-Checkout-Token"

const checkoutClaimsKey = "checkout_claims"

// maxCheckoutBody caps how much of a JSON body is read looking for the
// checkout_token field.
const maxCheckoutBody = 64 << 10

// CheckoutAuth returns an Echo middleware that validates the checkout token
// handed out with a booking.  The token may be sent as "Authorization:
// Bearer <token>", in the X-Checkout-Token header or as the checkout_token
// field of a JSON body.  It must be valid,
// unexpired and issued for the booking named by the :id path parameter.
// On success the claims are stored in the context for the handler.
func CheckoutAuth(signer *utils.CheckoutSigner) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(CheckoutHeader))
			if auth := c.Request().Header.Get("Authorization"); raw == "" && strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			}
			if raw == "" {
				raw = tokenFromBody(c)
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing checkout token"})
			}

			claims, err := signer.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired checkout token"})
			}
			// The token must belong to the booking being paid for.
			tokenBooking, _ := claims.BookingID()
			pathBooking, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil || pathBooking != tokenBooking {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "checkout token does not match booking"})
			}

			c.Set(checkoutClaimsKey, claims)
			return next(c)
		}
	}
}

// CheckoutClaimsFrom returns the claims stored by CheckoutAuth.
func CheckoutClaimsFrom(c echo.Context) (*utils.CheckoutClaims, bool) {
	claims, ok := c.Get(checkoutClaimsKey).(*utils.CheckoutClaims)
	return claims, ok && claims != nil
}

// tokenFromBody reads checkout_token from a JSON body and restores the body
// so the handler can still bind it.
func tokenFromBody(c echo.Context) string {
	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, maxCheckoutBody))
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var payload struct {
		CheckoutToken string `json:"checkout_token"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return strings.TrimSpace(payload.CheckoutToken)
}
