package bundler

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorFormatsSpecifierAndCause(t *testing.T) {
	cause := errors.New("no such file")
	err := errModuleNotFound("./missing.js", cause)

	if !strings.Contains(err.Error(), "./missing.js") {
		t.Fatalf("Error() = %q, missing specifier", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("Unwrap should expose the underlying cause via errors.Is")
	}
}

func TestErrorWithoutCause(t *testing.T) {
	err := errTranspileFailed("broken.ts", nil)
	if !strings.Contains(err.Error(), "transpile failed") {
		t.Fatalf("Error() = %q", err.Error())
	}
}
