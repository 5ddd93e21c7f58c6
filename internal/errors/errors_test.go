package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsCarryStatus(t *testing.T) {
	testCases := []struct {
		name string
		err  *ServerError
		want int
	}{
		{name: "Auth", err: Auth("Missing Authorization header"), want: http.StatusUnauthorized},
		{name: "Validation", err: Validation("Missing required fields"), want: http.StatusBadRequest},
		{name: "Synthesis", err: Synthesis(fmt.Errorf("all encoders failed")), want: http.StatusInternalServerError},
		{name: "NotFound", err: NotFound("Video not found"), want: http.StatusNotFound},
		{name: "Empty", err: Empty("Video file is empty"), want: http.StatusInternalServerError},
		{name: "Internal", err: Internal(fmt.Errorf("disk full")), want: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.StatusCode != tc.want {
				t.Errorf("Expected status %d, got %d", tc.want, tc.err.StatusCode)
			}
			if StatusCode(tc.err) != tc.want {
				t.Errorf("StatusCode helper disagrees: %d", StatusCode(tc.err))
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	if !IsAuthError(Auth("nope")) || IsAuthError(NotFound("x")) {
		t.Error("IsAuthError misclassifies")
	}
	if !IsNotFound(NotFound("x")) || IsNotFound(Validation("x")) {
		t.Error("IsNotFound misclassifies")
	}
	if !IsValidationError(Validation("x")) || IsValidationError(Auth("x")) {
		t.Error("IsValidationError misclassifies")
	}
}

func TestUnknownErrorsStayGeneric(t *testing.T) {
	plain := fmt.Errorf("secret internal detail")

	if StatusCode(plain) != http.StatusInternalServerError {
		t.Errorf("Expected 500 for unknown error, got %d", StatusCode(plain))
	}
	if ClientMessage(plain) != "Internal server error" {
		t.Errorf("Unknown error message leaked: %q", ClientMessage(plain))
	}
}

func TestSynthesisWrapsCause(t *testing.T) {
	cause := fmt.Errorf("encoder mjpeg produced no output")
	serr := Synthesis(cause)

	if !stderrors.Is(serr, cause) {
		t.Error("Expected cause to be unwrappable")
	}
	if ClientMessage(serr) != "Internal server error" {
		t.Errorf("Synthesis cause leaked to client: %q", ClientMessage(serr))
	}
}
