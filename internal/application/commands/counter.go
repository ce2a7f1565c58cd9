package commands

import (
	"context"
	"fmt"
	"slices"

	"picqer/internal/application"
	"picqer/internal/domain"
)

// CounterResult contains the result of a counter operation
type CounterResult struct {
	Counter domain.Counter
	Message string
}

// CreateCounterCommand defines a named counter
type CreateCounterCommand struct {
	session   *application.Session
	Name      string
	Start     int
	Increment int
	Overwrite bool
	Persist   bool
}

// NewCreateCounterCommand creates a new CreateCounterCommand
func NewCreateCounterCommand(session *application.Session, name string, start, increment int) *CreateCounterCommand {
	return &CreateCounterCommand{
		session:   session,
		Name:      name,
		Start:     start,
		Increment: increment,
	}
}

// Validate checks the counter definition without touching the session
func (c *CreateCounterCommand) Validate() error {
	if err := application.ValidateRequired("counterName", c.Name); err != nil {
		return err
	}
	if err := domain.ValidateCounterName(c.Name); err != nil {
		return err
	}
	if c.Increment < 1 {
		return &application.ValidationError{
			Field:   "increment",
			Message: fmt.Sprintf("increment must be at least 1, got: %d", c.Increment),
		}
	}
	if c.Start < 0 {
		return &application.ValidationError{
			Field:   "start",
			Message: fmt.Sprintf("start must not be negative, got: %d", c.Start),
		}
	}
	return nil
}

// Execute runs the create counter command. An existing counter yields a
// DuplicateNameError unless Overwrite is set.
func (c *CreateCounterCommand) Execute(ctx context.Context) (*CounterResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	replaced := c.session.CounterExists(c.Name)
	cp := c.session.Checkpoint()
	if err := c.session.CreateCounter(c.Name, c.Start, c.Increment, c.Overwrite); err != nil {
		return nil, err
	}
	if err := persistIf(c.session, c.Persist, cp); err != nil {
		return nil, err
	}

	counter, _ := c.session.Counter(c.Name)
	verb := "Created"
	if replaced {
		verb = "Replaced"
	}
	return &CounterResult{
		Counter: counter,
		Message: fmt.Sprintf("%s counter %s (start %d, step %d)", verb, c.Name, c.Start, c.Increment),
	}, nil
}

// ResetCounterCommand restores a counter to its original start
type ResetCounterCommand struct {
	session *application.Session
	Name    string
	Persist bool
}

// NewResetCounterCommand creates a new ResetCounterCommand
func NewResetCounterCommand(session *application.Session, name string) *ResetCounterCommand {
	return &ResetCounterCommand{session: session, Name: name}
}

// Validate checks if the reset operation is valid
func (c *ResetCounterCommand) Validate() error {
	return application.ValidateRequired("counterName", c.Name)
}

// Execute runs the reset counter command
func (c *ResetCounterCommand) Execute(ctx context.Context) (*CounterResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cp := c.session.Checkpoint()
	if err := c.session.ResetCounter(c.Name); err != nil {
		return nil, err
	}
	if err := persistIf(c.session, c.Persist, cp); err != nil {
		return nil, err
	}

	counter, _ := c.session.Counter(c.Name)
	return &CounterResult{
		Counter: counter,
		Message: fmt.Sprintf("Reset counter %s to %d", c.Name, counter.Value),
	}, nil
}

// DeleteCounterResult contains the result of deleting a counter
type DeleteCounterResult struct {
	Name string
	// StillReferenced is set when the pattern still uses the deleted counter,
	// so the next save will fail until the pattern is edited.
	StillReferenced bool
	Message         string
}

// DeleteCounterCommand removes a counter. The default counter cannot be deleted.
type DeleteCounterCommand struct {
	session *application.Session
	Name    string
	Persist bool
}

// NewDeleteCounterCommand creates a new DeleteCounterCommand
func NewDeleteCounterCommand(session *application.Session, name string) *DeleteCounterCommand {
	return &DeleteCounterCommand{session: session, Name: name}
}

// Validate checks if the delete operation is valid
func (c *DeleteCounterCommand) Validate() error {
	if err := application.ValidateRequired("counterName", c.Name); err != nil {
		return err
	}
	if c.Name == domain.DefaultCounterName {
		return &domain.ProtectedCounterError{Name: c.Name}
	}
	return nil
}

// Execute runs the delete counter command
func (c *DeleteCounterCommand) Execute(ctx context.Context) (*DeleteCounterResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	referenced := slices.Contains(c.session.ReferencedCounters(), c.Name)
	cp := c.session.Checkpoint()
	if err := c.session.DeleteCounter(c.Name); err != nil {
		return nil, err
	}
	if err := persistIf(c.session, c.Persist, cp); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Deleted counter %s", c.Name)
	if referenced {
		msg += " (still used by the pattern)"
	}
	return &DeleteCounterResult{
		Name:            c.Name,
		StillReferenced: referenced,
		Message:         msg,
	}, nil
}
