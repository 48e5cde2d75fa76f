package webhook

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"
)

const testSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func testVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret, 5*time.Minute)
	if err != nil {
		t.Fatalf("NewVerifier err: %v", err)
	}
	return v
}

func nowTS(v *Verifier) string {
	return strconv.FormatInt(v.now().Unix(), 10)
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	if _, err := NewVerifier("", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewVerifier("   ", time.Minute); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}

func TestNewVerifier_BadBase64(t *testing.T) {
	if _, err := NewVerifier("whsec_!!!not-base64!!!", time.Minute); err == nil {
		t.Fatalf("expected error for non-base64 secret")
	}
}

func TestNewVerifier_PrefixOptional(t *testing.T) {
	withPrefix := testVerifier(t)

	raw := testSecret[len("whsec_"):]
	withoutPrefix, err := NewVerifier(raw, 5*time.Minute)
	if err != nil {
		t.Fatalf("NewVerifier err: %v", err)
	}

	body := []byte(`{"type":"user.created"}`)
	ts := nowTS(withPrefix)
	sig := withPrefix.Sign("msg_1", ts, body)

	if err := withoutPrefix.Verify(body, "msg_1", ts, sig); err != nil {
		t.Fatalf("same key with/without prefix should verify: %v", err)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	v := testVerifier(t)
	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	ts := nowTS(v)
	sig := v.Sign("msg_abc", ts, body)

	if err := v.Verify(body, "msg_abc", ts, sig); err != nil {
		t.Fatalf("Verify err: %v", err)
	}
}

func TestVerify_MissingHeaders(t *testing.T) {
	v := testVerifier(t)
	body := []byte(`{}`)
	ts := nowTS(v)
	sig := v.Sign("msg_1", ts, body)

	cases := []struct{ id, ts, sig string }{
		{"", ts, sig},
		{"msg_1", "", sig},
		{"msg_1", ts, ""},
	}
	for _, c := range cases {
		if err := v.Verify(body, c.id, c.ts, c.sig); err != ErrMissingHeaders {
			t.Fatalf("expected ErrMissingHeaders, got %v", err)
		}
	}
}

func TestVerify_WrongSignature(t *testing.T) {
	v := testVerifier(t)
	body := []byte(`{"type":"user.created"}`)
	ts := nowTS(v)

	bogus := "v1," + base64.StdEncoding.EncodeToString([]byte("definitely not a mac"))
	if err := v.Verify(body, "msg_1", ts, bogus); err != ErrNoMatchingSignature {
		t.Fatalf("expected ErrNoMatchingSignature, got %v", err)
	}
}

func TestVerify_TamperedBody(t *testing.T) {
	v := testVerifier(t)
	ts := nowTS(v)
	sig := v.Sign("msg_1", ts, []byte(`{"a":1}`))

	if err := v.Verify([]byte(`{"a":2}`), "msg_1", ts, sig); err != ErrNoMatchingSignature {
		t.Fatalf("expected ErrNoMatchingSignature, got %v", err)
	}
}

func TestVerify_MultipleSignatures_AnyMatch(t *testing.T) {
	v := testVerifier(t)
	body := []byte(`{"type":"session.created"}`)
	ts := nowTS(v)
	good := v.Sign("msg_1", ts, body)
	bad := "v1," + base64.StdEncoding.EncodeToString([]byte("garbage garbage!"))

	// El header puede traer varias versiones separadas por espacio.
	if err := v.Verify(body, "msg_1", ts, bad+" "+good); err != nil {
		t.Fatalf("any matching token should pass: %v", err)
	}
}

func TestVerify_UnknownSchemeIgnored(t *testing.T) {
	v := testVerifier(t)
	body := []byte(`{}`)
	ts := nowTS(v)
	good := v.Sign("msg_1", ts, body)
	// v2 no se soporta: se ignora, pero el v1 válido alcanza.
	if err := v.Verify(body, "msg_1", ts, "v2,"+good[len("v1,"):]+" "+good); err != nil {
		t.Fatalf("unknown scheme should be skipped: %v", err)
	}
}

func TestVerify_ToleranceWindow(t *testing.T) {
	v := testVerifier(t)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return fixed }

	body := []byte(`{}`)

	old := strconv.FormatInt(fixed.Add(-6*time.Minute).Unix(), 10)
	if err := v.Verify(body, "msg_1", old, v.Sign("msg_1", old, body)); err != ErrTimestampTooOld {
		t.Fatalf("expected ErrTimestampTooOld, got %v", err)
	}

	future := strconv.FormatInt(fixed.Add(6*time.Minute).Unix(), 10)
	if err := v.Verify(body, "msg_1", future, v.Sign("msg_1", future, body)); err != ErrTimestampTooNew {
		t.Fatalf("expected ErrTimestampTooNew, got %v", err)
	}

	edge := strconv.FormatInt(fixed.Add(-4*time.Minute).Unix(), 10)
	if err := v.Verify(body, "msg_1", edge, v.Sign("msg_1", edge, body)); err != nil {
		t.Fatalf("inside window should pass: %v", err)
	}
}

func TestVerify_NonNumericTimestamp(t *testing.T) {
	v := testVerifier(t)
	if err := v.Verify([]byte(`{}`), "msg_1", "not-a-number", "v1,AAAA"); err != ErrInvalidTimestamp {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
}
