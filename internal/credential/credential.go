// Package credential mints, verifies, and renders the opaque admission token
// embedded in a vendor's QR pass. A token binds a vendor, an event, and a
// vehicle, carries a mint timestamp, and ends in an HMAC-SHA256 signature so
// the gate can reject forged-but-well-formed strings before touching the
// database. The registration store's exact-match lookup remains the final
// authority on whether a token admits anyone.
package credential

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrMalformedToken is returned by Decode when the token does not have the
// expected segment layout or its fields do not parse.
var ErrMalformedToken = errors.New("malformed credential token")

// ErrBadSignature is returned by Decode when the token parses but its
// signature segment does not match, i.e. the token was not minted with this
// codec's secret.
var ErrBadSignature = errors.New("credential signature mismatch")

// Token is the decoded form of a credential string.
type Token struct {
	UserID    uuid.UUID
	EventID   uuid.UUID
	VehicleID uuid.UUID
	IssuedAt  time.Time
}

// Codec mints and decodes credential tokens with a fixed HMAC secret.
// Minting is a pure function of its inputs; nothing is persisted here.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec signing with the given secret.
// Rotating the secret invalidates every previously issued pass.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Mint composes a token from the vendor, event, and vehicle identifiers and
// the mint timestamp, and appends the signature segment:
//
//	<userID>|<eventID>|<vehicleID>|<unix-nanos>|<base64url signature>
//
// The timestamp segment keeps tokens distinct if the same vendor registers
// the same vehicle for the same event twice in quick succession, so the
// store's credential uniqueness constraint never trips by accident.
func (c *Codec) Mint(userID, eventID, vehicleID uuid.UUID, ts time.Time) string {
	payload := fmt.Sprintf("%s|%s|%s|%d", userID, eventID, vehicleID, ts.UnixNano())
	return payload + "|" + c.sign(payload)
}

// Decode parses a scanned token string back into its constituent parts,
// verifying the signature segment. Scanning devices decode the QR image
// client-side; this only ever sees the resulting string.
//
// Returns ErrMalformedToken for layout/parse failures and ErrBadSignature
// when the signature does not match.
func (c *Codec) Decode(token string) (Token, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 5 {
		return Token{}, ErrMalformedToken
	}

	payload := strings.Join(parts[:4], "|")
	if !hmac.Equal([]byte(c.sign(payload)), []byte(parts[4])) {
		return Token{}, ErrBadSignature
	}

	userID, err := uuid.Parse(parts[0])
	if err != nil {
		return Token{}, ErrMalformedToken
	}
	eventID, err := uuid.Parse(parts[1])
	if err != nil {
		return Token{}, ErrMalformedToken
	}
	vehicleID, err := uuid.Parse(parts[2])
	if err != nil {
		return Token{}, ErrMalformedToken
	}
	nanos, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Token{}, ErrMalformedToken
	}

	return Token{
		UserID:    userID,
		EventID:   eventID,
		VehicleID: vehicleID,
		IssuedAt:  time.Unix(0, nanos).UTC(),
	}, nil
}

// Render encodes the token into a QR code PNG at the given edge size in
// pixels. Over-length or otherwise unencodable input surfaces as an error.
func (c *Codec) Render(token string, size int) ([]byte, error) {
	png, err := qrcode.Encode(token, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("credential.Codec.Render: %w", err)
	}
	return png, nil
}

// DataURL renders the token as a QR code and wraps the PNG in a data URL
// suitable for direct use in an <img> src attribute.
func (c *Codec) DataURL(token string, size int) (string, error) {
	png, err := c.Render(token, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// sign returns the base64url-encoded HMAC-SHA256 of payload.
func (c *Codec) sign(payload string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
