package commands

import (
	"context"
	"fmt"

	"picqer/internal/application"
	"picqer/internal/domain"
)

// PatternResult describes the pattern after an edit
type PatternResult struct {
	Elements []domain.Element
	Template string
	Preview  string
	Message  string
}

func patternResult(s *application.Session, message string) *PatternResult {
	return &PatternResult{
		Elements: s.Elements(),
		Template: s.Template(),
		Preview:  s.PreviewFilename(),
		Message:  message,
	}
}

// persistIf writes the document when the caller asked for write-through
// edits. A failed write rolls the session back to cp.
func persistIf(s *application.Session, persist bool, cp application.Checkpoint) error {
	if !persist {
		return nil
	}
	if err := s.Persist(); err != nil {
		s.Restore(cp)
		return err
	}
	return nil
}

// AddElementCommand appends a token, counter, literal or space to the pattern
type AddElementCommand struct {
	session *application.Session
	Kind    string
	Value   string
	Persist bool
}

// NewAddElementCommand creates a new AddElementCommand
func NewAddElementCommand(session *application.Session, kind, value string) *AddElementCommand {
	return &AddElementCommand{
		session: session,
		Kind:    kind,
		Value:   value,
	}
}

// Validate checks the element can be built. Counter elements must name an
// existing counter; plain tokens are checked at render time.
func (c *AddElementCommand) Validate() error {
	if _, err := application.ParseElement(c.Kind, c.Value); err != nil {
		return err
	}
	if c.Kind == application.KindCounter && c.session != nil && !c.session.CounterExists(c.Value) {
		return &domain.UnknownCounterError{Name: c.Value}
	}
	return nil
}

// Execute runs the add element command
func (c *AddElementCommand) Execute(ctx context.Context) (*PatternResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	e, _ := application.ParseElement(c.Kind, c.Value)
	cp := c.session.Checkpoint()
	c.session.AppendElement(e)
	if err := persistIf(c.session, c.Persist, cp); err != nil {
		return nil, err
	}

	return patternResult(c.session, fmt.Sprintf("Added %s %s", c.Kind, e.String())), nil
}

// UndoElementCommand removes the last pattern element
type UndoElementCommand struct {
	session *application.Session
	Persist bool
}

// NewUndoElementCommand creates a new UndoElementCommand
func NewUndoElementCommand(session *application.Session) *UndoElementCommand {
	return &UndoElementCommand{session: session}
}

// Execute runs the undo command. An empty pattern is not an error.
func (c *UndoElementCommand) Execute(ctx context.Context) (*PatternResult, error) {
	cp := c.session.Checkpoint()
	e, ok := c.session.PopElement()
	if !ok {
		return patternResult(c.session, "Pattern is already empty"), nil
	}
	if err := persistIf(c.session, c.Persist, cp); err != nil {
		return nil, err
	}
	return patternResult(c.session, fmt.Sprintf("Removed %s", e.String())), nil
}

// ClearPatternCommand removes every pattern element
type ClearPatternCommand struct {
	session *application.Session
	Persist bool
}

// NewClearPatternCommand creates a new ClearPatternCommand
func NewClearPatternCommand(session *application.Session) *ClearPatternCommand {
	return &ClearPatternCommand{session: session}
}

// Execute runs the clear command
func (c *ClearPatternCommand) Execute(ctx context.Context) (*PatternResult, error) {
	cp := c.session.Checkpoint()
	c.session.ClearPattern()
	if err := persistIf(c.session, c.Persist, cp); err != nil {
		return nil, err
	}
	return patternResult(c.session, "Pattern cleared"), nil
}

// ResetPatternCommand restores the default pattern
type ResetPatternCommand struct {
	session *application.Session
	Persist bool
}

// NewResetPatternCommand creates a new ResetPatternCommand
func NewResetPatternCommand(session *application.Session) *ResetPatternCommand {
	return &ResetPatternCommand{session: session}
}

// Execute runs the reset command
func (c *ResetPatternCommand) Execute(ctx context.Context) (*PatternResult, error) {
	cp := c.session.Checkpoint()
	c.session.ResetPattern()
	if err := persistIf(c.session, c.Persist, cp); err != nil {
		return nil, err
	}
	return patternResult(c.session, "Pattern reset to default"), nil
}

// SetTemplateCommand replaces the pattern with a hand-written template
type SetTemplateCommand struct {
	session  *application.Session
	Template string
	Persist  bool
}

// NewSetTemplateCommand creates a new SetTemplateCommand
func NewSetTemplateCommand(session *application.Session, template string) *SetTemplateCommand {
	return &SetTemplateCommand{session: session, Template: template}
}

// Validate checks the template parses
func (c *SetTemplateCommand) Validate() error {
	_, err := domain.ParseTemplate(c.Template)
	return err
}

// Execute runs the set template command
func (c *SetTemplateCommand) Execute(ctx context.Context) (*PatternResult, error) {
	cp := c.session.Checkpoint()
	if err := c.session.SetTemplate(c.Template); err != nil {
		return nil, err
	}
	if err := persistIf(c.session, c.Persist, cp); err != nil {
		return nil, err
	}
	return patternResult(c.session, fmt.Sprintf("Pattern set to %s", c.session.Template())), nil
}
