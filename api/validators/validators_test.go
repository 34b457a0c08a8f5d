package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Count int    `json:"count" validate:"omitempty,min=1,max=5"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Maria","email":"maria@email.com","count":3}`))
	var payload samplePayload
	if err := DecodeJSONBody(r, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "Maria" || payload.Count != 3 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Maria","email":"maria@email.com","bogus":true}`))
	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONTag(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"","email":"not-an-email","count":9}`))
	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected name message %q", details["name"])
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["count"] != "must be at most 5" {
		t.Fatalf("unexpected count message %q", details["count"])
	}
}

func TestParseQueryInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		url     string
		want    int
		wantErr bool
	}{
		{"missing uses default", "/?other=1", 50, false},
		{"valid", "/?limit=10", 10, false},
		{"not numeric", "/?limit=ten", 0, true},
		{"below min", "/?limit=0", 0, true},
		{"above max", "/?limit=500", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			got, err := ParseQueryInt(r, "limit", 50, 1, 200)
			if tc.wantErr {
				if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}
