package validation

import (
	"errors"
	"testing"
)

type testPayload struct {
	Email   string `validate:"required,email"`
	Name    string `validate:"required,max=10"`
	Message string `validate:"max=50"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		payload testPayload
		wantErr bool
	}{
		{
			name:    "valid",
			payload: testPayload{Email: "a@example.com", Name: "Pat"},
			wantErr: false,
		},
		{
			name:    "missing email",
			payload: testPayload{Name: "Pat"},
			wantErr: true,
		},
		{
			name:    "bad email",
			payload: testPayload{Email: "not-an-email", Name: "Pat"},
			wantErr: true,
		},
		{
			name:    "name too long",
			payload: testPayload{Email: "a@example.com", Name: "a very long name"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStructErrorType(t *testing.T) {
	err := Struct(testPayload{Name: "Pat"})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Struct() error type = %T, want ValidationError", err)
	}
	if ve.Field != "email" {
		t.Errorf("field = %q, want email", ve.Field)
	}
	if ve.Message != "is required" {
		t.Errorf("message = %q, want 'is required'", ve.Message)
	}
}

func TestVar(t *testing.T) {
	if err := Var("email", "a@example.com", "required,email"); err != nil {
		t.Errorf("Var(valid email) error = %v", err)
	}
	if err := Var("email", "nope", "required,email"); err == nil {
		t.Error("Var(bad email) succeeded, want error")
	}
	if err := Var("password", "short", "min=8"); err == nil {
		t.Error("Var(short password) succeeded, want error")
	}
}
