package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squash-courts/backend/internal/authctx"
	"squash-courts/backend/internal/config"
)

type fakeSigner struct {
	object string
	opts   *storage.SignedURLOptions
	err    error
}

func (f *fakeSigner) SignedURL(object string, opts *storage.SignedURLOptions) (string, error) {
	f.object, f.opts = object, opts
	if f.err != nil {
		return "", f.err
	}
	sig, err := opts.SignBytes([]byte("payload"))
	if err != nil {
		return "", err
	}
	return "https://signed.example/" + object + "?sig=" + string(sig), nil
}

func uploadsConfig() config.Config {
	var cfg config.Config
	cfg.Firebase.StorageBucket = "club.appspot.com"
	cfg.Firebase.SignedURLServiceAccountEmail = "signer@club.iam.gserviceaccount.com"
	return cfg
}

func signOK(context.Context, []byte) ([]byte, error) { return []byte("abc"), nil }

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func TestCreateSignedUploadURL(t *testing.T) {
	signer := &fakeSigner{}
	h := NewUploads(uploadsConfig(), signer, signOK)
	h.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	w := postJSON(h.CreateSignedUploadURL, `{"kind":"products","fileName":"Grip Tape.PNG","contentType":"image/png"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out signedURLResp
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))

	assert.True(t, strings.HasPrefix(out.ObjectPath, "catalog/products/"))
	assert.True(t, strings.HasSuffix(out.ObjectPath, "-grip-tape.png"))
	assert.Equal(t, "PUT", out.Method)
	assert.Equal(t, int64(1_700_000_000+900), out.ExpiresAt)
	assert.Equal(t, "https://storage.googleapis.com/club.appspot.com/"+out.ObjectPath, out.PublicURL)
	assert.True(t, strings.HasSuffix(out.URL, "?sig=abc"))
	assert.Equal(t, "image/png", signer.opts.ContentType)
	assert.Equal(t, storage.SigningSchemeV4, signer.opts.Scheme)
}

func TestCreateSignedUploadURL_Rejects(t *testing.T) {
	h := NewUploads(uploadsConfig(), &fakeSigner{}, signOK)

	assert.Equal(t, http.StatusBadRequest, postJSON(h.CreateSignedUploadURL, `{"kind":"coaches","fileName":"a.png","contentType":"image/png"}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(h.CreateSignedUploadURL, `{"kind":"products","fileName":"a.svg","contentType":"image/svg+xml"}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(h.CreateSignedUploadURL, `{"kind":"products"}`).Code)
}

func TestCreateSignedUploadURL_Unconfigured(t *testing.T) {
	h := NewUploads(config.Config{}, nil, nil)

	w := postJSON(h.CreateSignedUploadURL, `{"kind":"products","fileName":"a.png","contentType":"image/png"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreateSignedUploadURL_SignFailure(t *testing.T) {
	h := NewUploads(uploadsConfig(), &fakeSigner{err: errors.New("permission denied")}, signOK)

	w := postJSON(h.CreateSignedUploadURL, `{"kind":"advertisements","fileName":"a.jpg","contentType":"image/jpeg"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestObjectPath(t *testing.T) {
	p := objectPath("championships", "!!!.png", ".png")
	assert.True(t, strings.HasPrefix(p, "catalog/championships/"))
	assert.True(t, strings.HasSuffix(p, "-image.png"))
}

type fakeClaims struct {
	uid    string
	claims map[string]interface{}
}

func (f *fakeClaims) SetCustomUserClaims(_ context.Context, uid string, c map[string]interface{}) error {
	f.uid, f.claims = uid, c
	return nil
}

func TestSetAdmin(t *testing.T) {
	fc := &fakeClaims{}
	h := NewClaims(fc)

	call := func(caller, body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		r = r.WithContext(authctx.WithUser(r.Context(), &authctx.User{UID: caller, Claims: map[string]any{"admin": true}}))
		w := httptest.NewRecorder()
		h.SetAdmin(w, r)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, call("a1", `{"uid":"u2"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call("a1", `{"uid":"a1","admin":false}`).Code)

	w := call("a1", `{"uid":"u2","admin":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2", fc.uid)
	assert.Equal(t, true, fc.claims["admin"])
}

func TestMe(t *testing.T) {
	h := NewClaims(&fakeClaims{})

	w := httptest.NewRecorder()
	h.Me(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(authctx.WithUser(r.Context(), &authctx.User{UID: "u1", Claims: map[string]any{"role": "admin"}}))
	w = httptest.NewRecorder()
	h.Me(w, r)
	assert.JSONEq(t, `{"uid":"u1","email":"","phoneNumber":"","admin":true}`, w.Body.String())
}
