package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type signupBody struct {
	Name    string `json:"name" validate:"required,max=5"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Confirm string `json:"confirm"`
}

func (b signupBody) ValidateForm() map[string]string {
	errs := map[string]string{}
	if b.Email == "" && b.Phone == "" {
		errs["non_field_errors"] = "email or phone required"
	}
	if b.Confirm != "" && b.Confirm != "ok" {
		errs["confirm"] = "mismatch"
	}
	if b.Name == "" {
		errs["name"] = "form level name error"
	}
	return errs
}

func decode(t *testing.T, body string, dest any) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return DecodeJSONBody(req, dest)
}

func TestDecodeJSONBodyMergesFormErrors(t *testing.T) {
	var body signupBody
	err := decode(t, `{"name":"","confirm":"nope"}`, &body)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{
		"name":             "is required",
		"non_field_errors": "email or phone required",
		"confirm":          "mismatch",
	}, typed.Details())
}

func TestDecodeJSONBodyValid(t *testing.T) {
	var body signupBody
	require.NoError(t, decode(t, `{"name":"ann","phone":"+1"}`, &body))
	assert.Equal(t, "ann", body.Name)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var body signupBody
	err := decode(t, `{"name":"ann","phone":"+1","extra":true}`, &body)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONRejectsMalformedBodies(t *testing.T) {
	cases := map[string]string{
		"":                              "request body is required",
		`{"name":`:                      "request body is not valid JSON",
		`{"name":7}`:                    `field "name" has the wrong type`,
		`{"name":"ann"} {"name":"bob"}`: "request body must contain a single JSON object",
		`{"nickname":"ann"}`:            `unknown field "nickname"`,
	}
	for raw, want := range cases {
		var body signupBody
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		err := DecodeJSON(req, &body)
		require.Error(t, err, raw)
		typed := pkgerrors.As(err)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code(), raw)
		assert.Equal(t, want, typed.Message(), raw)
	}
}

func TestDecodeJSONBodyTagMessages(t *testing.T) {
	var body signupBody
	err := decode(t, `{"name":"toolong","email":"bad"}`, &body)
	details := pkgerrors.As(err).Details().(map[string]string)
	assert.Equal(t, "must be at most 5", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
}

func TestParsePageNumber(t *testing.T) {
	cases := map[string]int{"": 1, "3": 3, "abc": 1, "-2": 1, "0": 1}
	for raw, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/?page="+raw, nil)
		assert.Equal(t, want, ParsePageNumber(req), raw)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?size=20", nil)
	v, err := ParseQueryInt(req, "size", 12, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	req = httptest.NewRequest(http.MethodGet, "/?size=500", nil)
	_, err = ParseQueryInt(req, "size", 12, 1, 100)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestParseUUIDParam(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "not-a-uuid")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	_, err := ParseUUIDParam(req, "id")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abcdef", SanitizeString("abcdef", 0))
	assert.Equal(t, "blue mug", SanitizeString(" blue \t\n  mug ", 0))
	assert.Equal(t, "tasse", SanitizeString("tas\x00se", 0))
	assert.Equal(t, "café", SanitizeString("café crème", 4), "truncation counts runes")
	assert.Equal(t, "ab", SanitizeString("ab   cd", 3), "no dangling space at the limit")
}
