package host

import (
	"errors"
	"fmt"

	"github.com/dohr-michael/mcphost/internal/terminal"
)

var (
	// ErrNoModelsAvailable is returned by setup when no model is configured.
	ErrNoModelsAvailable = errors.New("no models available")
	// ErrInvalidSelection is returned when a menu answer is not a valid choice.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrSystemPrompt is returned by setup when the system prompt's MCP
	// lookups fail.
	ErrSystemPrompt = errors.New("system prompt could not be set")
	// ErrResolverUnavailable is returned when input needs the resolver but
	// none was initialized.
	ErrResolverUnavailable = errors.New("MCP has not been initialized, cannot process ->mcp")
	// ErrInterrupted is returned by readers on Ctrl+C.
	ErrInterrupted = terminal.ErrInterrupted

	// errBackToMenu sends mode setup back to the mode menu.
	errBackToMenu = errors.New("back to mode selection")
)

// ProcessingError reports a failure while resolving one input line. The
// line is discarded.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing input (%s): %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
