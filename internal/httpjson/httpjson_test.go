package httpjson_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squash-courts/backend/internal/httpjson"
)

type payload struct {
	Name  string `json:"name" validate:"required"`
	Court int    `json:"court" validate:"oneof=1 2"`
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "ok", body: `{"name":"x","court":2}`},
		{name: "malformed", body: `{"name":`, wantErr: "invalid json"},
		{name: "unknown field", body: `{"name":"x","court":1,"admin":true}`, wantErr: "invalid json"},
		{name: "fails validation", body: `{"court":1}`, wantErr: "invalid input: name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var p payload
			err := httpjson.Read(r, &p)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			assert.True(t, httpjson.IsBadInput(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadMap(t *testing.T) {
	m, err := httpjson.ReadMap(httptest.NewRequest("PATCH", "/", strings.NewReader(`{"title":"x"}`)))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "x"}, m)

	_, err = httpjson.ReadMap(httptest.NewRequest("PATCH", "/", strings.NewReader(`null`)))
	assert.True(t, httpjson.IsBadInput(err))
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	httpjson.Error(w, 404, "booking not found")

	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"booking not found"}`, w.Body.String())
}
