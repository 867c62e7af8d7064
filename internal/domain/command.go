package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/currilab/curricula-backend/internal/pkg/jsonx"
)

// EditCommand is one structured plan edit produced by the model from a
// free-text instruction. The raw JSON is parsed exactly once, here; the
// rest of the backend only sees the typed variants.
type EditCommand interface {
	editCommand()
}

// UpdateCommand sets one field on every row matching a discipline name.
type UpdateCommand struct {
	Discipline string
	Field      string
	Value      any
}

// DeleteCommand removes every row matching a discipline name.
type DeleteCommand struct {
	Discipline string
}

// AddCommand appends one row; columns absent from Row stay zero-valued.
type AddCommand struct {
	Row map[string]any
}

// ErrorCommand reports that the instruction could not be interpreted.
type ErrorCommand struct {
	Reason string
}

func (UpdateCommand) editCommand() {}
func (DeleteCommand) editCommand() {}
func (AddCommand) editCommand()    {}
func (ErrorCommand) editCommand()  {}

type rawCommand struct {
	Action     string          `json:"action"`
	Discipline string          `json:"discipline"`
	Field      string          `json:"field"`
	Value      json.RawMessage `json:"value"`
}

// ParseEditCommand extracts the single command object from a model reply.
func ParseEditCommand(raw string) (EditCommand, error) {
	var rc rawCommand
	if err := jsonx.ExtractObject(raw, &rc); err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(rc.Action)) {
	case "update":
		var v any
		if len(rc.Value) > 0 {
			if err := json.Unmarshal(rc.Value, &v); err != nil {
				return nil, fmt.Errorf("update value: %w", err)
			}
		}
		return UpdateCommand{
			Discipline: strings.TrimSpace(rc.Discipline),
			Field:      strings.TrimSpace(rc.Field),
			Value:      v,
		}, nil
	case "delete":
		return DeleteCommand{Discipline: strings.TrimSpace(rc.Discipline)}, nil
	case "add":
		var row map[string]any
		if len(rc.Value) > 0 {
			if err := json.Unmarshal(rc.Value, &row); err != nil {
				return nil, fmt.Errorf("add value: %w", err)
			}
		}
		return AddCommand{Row: row}, nil
	case "error":
		var reason string
		if len(rc.Value) > 0 {
			if err := json.Unmarshal(rc.Value, &reason); err != nil {
				reason = string(rc.Value)
			}
		}
		return ErrorCommand{Reason: reason}, nil
	default:
		return nil, fmt.Errorf("unknown edit action %q", rc.Action)
	}
}
