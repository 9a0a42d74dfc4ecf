package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestUser_IsOppositeBinaryGender(t *testing.T) {
	tests := []struct {
		name string
		a, b Gender
		want bool
	}{
		{"male-female", GenderMale, GenderFemale, true},
		{"female-male", GenderFemale, GenderMale, true},
		{"male-male", GenderMale, GenderMale, false},
		{"unset", "", GenderFemale, false},
		{"non-binary", "nonbinary", GenderMale, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &User{Gender: tt.a}
			b := &User{Gender: tt.b}
			if got := a.IsOppositeBinaryGender(b); got != tt.want {
				t.Errorf("IsOppositeBinaryGender() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIError_UnwrapsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("discover users: %w", NewUserNotFoundError())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected errors.As to find *APIError")
	}
	if apiErr.Code != ErrCodeUserNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeUserNotFound)
	}
	if apiErr.Error() == "" {
		t.Error("expected non-empty Error()")
	}
}
