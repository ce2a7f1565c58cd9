package views

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/application"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err in the status line. Validation errors show only
// their message, without the field name.
func (s *ViewState) SetError(err error) {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		s.SetMessage(verr.Message, true)
		return
	}
	s.SetMessage(err.Error(), true)
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Navigation messages handled by the app
type (
	SwitchToBuilderMsg  struct{}
	SwitchToCountersMsg struct{}
	SwitchToRecordsMsg  struct{}
	SwitchToHelpMsg     struct{}
	OpenCounterFormMsg  struct{}
)

// StatusMsg carries a message for the builder status line after a view closes
type StatusMsg struct {
	Text string
	Err  bool
}

func switchTo(msg tea.Msg) func() tea.Msg {
	return func() tea.Msg { return msg }
}
