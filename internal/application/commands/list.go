package commands

import (
	"context"
	"fmt"
	"slices"

	"picqer/internal/application"
	"picqer/internal/domain"
)

// ListRecordsResult contains the records of the current directory
type ListRecordsResult struct {
	Records []domain.Record
	Total   int
	Message string
}

// ListRecordsCommand lists saved records of the current directory
type ListRecordsCommand struct {
	session *application.Session
	// Limit keeps only the most recent records; zero lists all
	Limit int
	// NewestFirst reverses the log order
	NewestFirst bool
}

// NewListRecordsCommand creates a new ListRecordsCommand
func NewListRecordsCommand(session *application.Session, limit int) *ListRecordsCommand {
	return &ListRecordsCommand{
		session: session,
		Limit:   limit,
	}
}

// Validate checks if the list operation is valid
func (c *ListRecordsCommand) Validate() error {
	if c.Limit < 0 {
		return &application.ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must not be negative, got: %d", c.Limit),
		}
	}
	return nil
}

// Execute runs the list records command
func (c *ListRecordsCommand) Execute(ctx context.Context) (*ListRecordsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	records := c.session.Records()
	total := len(records)
	if c.Limit > 0 && total > c.Limit {
		records = records[total-c.Limit:]
	}
	if c.NewestFirst {
		slices.Reverse(records)
	}

	return &ListRecordsResult{
		Records: records,
		Total:   total,
		Message: fmt.Sprintf("%d of %d records in %s", len(records), total, c.session.Directory()),
	}, nil
}
