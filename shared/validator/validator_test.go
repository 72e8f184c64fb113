package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"taskboard/shared/failure"
	"taskboard/shared/validator"
)

type createPayload struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Completed   bool    `json:"completed"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid payload",
			body: `{"title": "Buy milk", "description": "two liters"}`,
		},
		{
			name: "valid payload without optional fields",
			body: `{"title": "Buy milk"}`,
		},
		{
			name:    "missing title",
			body:    `{"description": "no title"}`,
			wantErr: true,
		},
		{
			name:    "blank title",
			body:    `{"title": "   "}`,
			wantErr: true,
		},
		{
			name:    "title too long",
			body:    `{"title": "` + strings.Repeat("x", 256) + `"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"title": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload createPayload
			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}

				if failure.GetCode(err) != http.StatusBadRequest {
					t.Errorf("expected code 400, got %d", failure.GetCode(err))
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		payload := createPayload{Title: "Buy milk"}

		if err := validator.ValidateStruct(&payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		payload := createPayload{Title: "\t\n "}

		if err := validator.ValidateStruct(&payload); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestValidateVar(t *testing.T) {
	if err := validator.ValidateVar("value", "required"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := validator.ValidateVar("", "required"); err == nil {
		t.Fatal("expected an error")
	}
}
