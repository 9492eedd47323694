package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/artisha/internal/appstate"
	"github.com/roach88/artisha/internal/model"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	notes := []model.Notification{{ID: "n-1", Type: model.NotifySuccess, Message: "Saved."}}
	err := formatter.Success(map[string]string{"result": "success"}, notes, "ignored in json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "Saved.", resp.Notifications[0].Message)
	assert.NotContains(t, buf.String(), "ignored in json")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Error("EMPTY_CART", "Your cart is empty.", map[string]int{"lines": 0})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_CART", resp.Error.Code)
	assert.Equal(t, "Your cart is empty.", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	notes := []model.Notification{{Type: model.NotifyInfo, Message: "Item removed from cart."}}
	require.NoError(t, formatter.Success(nil, notes, "line one", "line two"))
	assert.Equal(t, "line one\nline two\n[info] Item removed from cart.\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("FORBIDDEN", "You do not have permission to do that.", map[string]string{"op": "x"}))
	assert.Equal(t, "Error [FORBIDDEN]: You do not have permission to do that.\n", buf.String())

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error("FORBIDDEN", "nope", map[string]string{"op": "x"}))
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_Rejected(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Rejected("place order", &appstate.Error{Code: appstate.ErrCodeEmptyCart, Message: "Your cart is empty."})
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, appstate.IsCode(err, appstate.ErrCodeEmptyCart))
	assert.Contains(t, buf.String(), "Error [EMPTY_CART]: Your cart is empty.")

	buf.Reset()
	err = formatter.Rejected("place order", errors.New("disk full"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "disk full")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diag := &bytes.Buffer{}, &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: tt.verbose}

			formatter.VerboseLog("Processing %s", "order")

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Contains(t, diag.String(), "Processing order")
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := WrapExitError(ExitCommandError, "open", errors.New("no such file"))
	assert.Equal(t, "open: no such file", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "no such file")
}
