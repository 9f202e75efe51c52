package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
)

// Codec signs payloads into tokens and opens tokens back into payloads.
// Open checks the signature and payload shape only; expiry is the Manager's
// job. Implementations must produce byte-identical tokens for the same
// payload and secret.
type Codec interface {
	Sign(ctx context.Context, p Payload) (string, error)
	Open(ctx context.Context, token string) (Payload, error)
}

// HMACCodec signs with an in-process HMAC-SHA256.
type HMACCodec struct {
	secret []byte
}

func NewHMACCodec(secret string) (*HMACCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &HMACCodec{secret: []byte(secret)}, nil
}

func (c *HMACCodec) mac(data []byte) []byte {
	h := hmac.New(sha256.New, c.secret)
	h.Write(data)
	return h.Sum(nil)
}

func (c *HMACCodec) Sign(_ context.Context, p Payload) (string, error) {
	data, err := marshalPayload(p)
	if err != nil {
		return "", err
	}
	return joinToken(data, encodeSegment(c.mac(data))), nil
}

func (c *HMACCodec) Open(_ context.Context, token string) (Payload, error) {
	encData, encSig, err := splitToken(token)
	if err != nil {
		return Payload{}, err
	}
	data, err := decodeSegment(encData)
	if err != nil {
		return Payload{}, fmt.Errorf("session: bad payload segment, %w", err)
	}
	sig, err := decodeSegment(encSig)
	if err != nil {
		return Payload{}, fmt.Errorf("session: bad signature segment, %w", err)
	}
	expected := c.mac(data)
	if len(sig) != len(expected) || subtle.ConstantTimeCompare(sig, expected) != 1 {
		return Payload{}, fmt.Errorf("session: signature mismatch")
	}
	return unmarshalPayload(data)
}

// Signer is a key handle that produces a MAC over data. Unlike a raw secret
// it may live elsewhere and fail, hence the context and error.
type Signer interface {
	Sign(ctx context.Context, data []byte) ([]byte, error)
}

type hmacKey struct {
	secret []byte
}

// NewHMACKey returns a Signer computing HMAC-SHA256 with secret.
func NewHMACKey(secret string) (Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &hmacKey{secret: []byte(secret)}, nil
}

func (k *hmacKey) Sign(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := hmac.New(sha256.New, k.secret)
	h.Write(data)
	return h.Sum(nil), nil
}

// KeyCodec signs through a Signer and compares encoded signatures.
type KeyCodec struct {
	key Signer
}

func NewKeyCodec(key Signer) *KeyCodec {
	return &KeyCodec{key: key}
}

func (c *KeyCodec) sign(ctx context.Context, data []byte) (string, error) {
	sig, err := c.key.Sign(ctx, data)
	if err != nil {
		return "", fmt.Errorf("session: signer failed, %w", err)
	}
	return encodeSegment(sig), nil
}

func (c *KeyCodec) Sign(ctx context.Context, p Payload) (string, error) {
	data, err := marshalPayload(p)
	if err != nil {
		return "", err
	}
	sig, err := c.sign(ctx, data)
	if err != nil {
		return "", err
	}
	return joinToken(data, sig), nil
}

func (c *KeyCodec) Open(ctx context.Context, token string) (Payload, error) {
	encData, encSig, err := splitToken(token)
	if err != nil {
		return Payload{}, err
	}
	data, err := decodeSegment(encData)
	if err != nil {
		return Payload{}, fmt.Errorf("session: bad payload segment, %w", err)
	}
	expected, err := c.sign(ctx, data)
	if err != nil {
		return Payload{}, err
	}
	if !equalText(expected, encSig) {
		return Payload{}, fmt.Errorf("session: signature mismatch")
	}
	return unmarshalPayload(data)
}

// equalText compares a and b without stopping at the first difference.
func equalText(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := 0; i < len(a); i++ {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
