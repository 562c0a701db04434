package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := NewConfigError("gateway.routes", "prefix must start with /")
		if !strings.Contains(err.Error(), "gateway.routes") {
			t.Errorf("Error() = %q, want field name included", err.Error())
		}
		if !strings.Contains(err.Error(), "prefix must start with /") {
			t.Errorf("Error() = %q, want message included", err.Error())
		}
	})

	t.Run("without field", func(t *testing.T) {
		err := NewConfigError("", "file not found")
		if strings.Contains(err.Error(), " in ") {
			t.Errorf("Error() = %q, want no field segment", err.Error())
		}
		if !strings.Contains(err.Error(), "file not found") {
			t.Errorf("Error() = %q, want message included", err.Error())
		}
	})
}

func TestCommandError(t *testing.T) {
	cause := errors.New("storage unavailable")
	err := NewCommandError("sessions", cause)

	if !strings.Contains(err.Error(), "sessions") {
		t.Errorf("Error() = %q, want command name included", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("CommandError does not unwrap to its cause")
	}
}
