package utils // package utils provides fare, reference code and token helpers

import (
	"errors"  // sentinel errors for token verification
	"strconv" // booking id <-> subject conversion
	"time"    // expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidCheckoutToken is returned for malformed, tampered or expired
// checkout tokens.
var ErrInvalidCheckoutToken = errors.New("invalid checkout token")

// CheckoutToken is a signed token handed out with a new booking.  The
// payment endpoint only settles a booking when presented with its token.
type CheckoutToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// CheckoutClaims are the claims carried by a checkout token.  The subject
// is the booking id in decimal; PNR pins the token to the issued ticket.
type CheckoutClaims struct {
	PNR string `json:"pnr"`
	jwt.RegisteredClaims
}

// BookingID parses the subject back into a booking id.
func (c CheckoutClaims) BookingID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// CheckoutSigner issues and verifies HS256 checkout tokens.
type CheckoutSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCheckoutSigner returns a signer using the given secret and token TTL.
func NewCheckoutSigner(secret string, ttl time.Duration) *CheckoutSigner {
	return &CheckoutSigner{secret: []byte(secret), ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

// Issue signs a token binding bookingID and pnr.
func (s *CheckoutSigner) Issue(bookingID uint64, pnr string) (CheckoutToken, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := CheckoutClaims{
		PNR: pnr,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(bookingID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return CheckoutToken{}, err
	}
	return CheckoutToken{Token: signed, Exp: exp}, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
func (s *CheckoutSigner) Verify(raw string) (*CheckoutClaims, error) {
	claims := &CheckoutClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidCheckoutToken
	}
	if _, err := claims.BookingID(); err != nil || claims.PNR == "" {
		return nil, ErrInvalidCheckoutToken
	}
	return claims, nil
}
