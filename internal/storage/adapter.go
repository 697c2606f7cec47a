package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"cute-todo/internal/logging"
	"cute-todo/internal/tasks"
)

// FormatVersion is the envelope version written by Save.
const FormatVersion = 1

var (
	// ErrCorrupt wraps every reason a stored value could not be used.
	ErrCorrupt = errors.New("stored tasks unreadable")
	// ErrInvalid is returned by Save for a collection Load would refuse.
	ErrInvalid = errors.New("tasks do not match the stored format")
)

type envelope struct {
	Version int          `json:"version"`
	Tasks   []tasks.Task `json:"tasks"`
}

const schemaURL = "https://cute-todo.local/tasks.schema.json"

const envelopeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "tasks"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "text", "dueDate", "completed", "createdAt"],
        "properties": {
          "id": {"type": "integer"},
          "text": {"type": "string"},
          "dueDate": {"type": "string", "format": "date"},
          "completed": {"type": "boolean"},
          "createdAt": {"type": "string", "format": "date-time"}
        }
      }
    }
  }
}`

// Adapter saves and loads the whole collection under one key.
type Adapter struct {
	kv     KV
	key    string
	schema *jsonschema.Schema
	log    *log.Logger
}

func NewAdapter(kv KV, key string, logger *log.Logger) (*Adapter, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(envelopeSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Adapter{kv: kv, key: key, schema: schema, log: logger.WithPrefix("storage")}, nil
}

// Save writes list as a versioned envelope.
func (a *Adapter) Save(list []tasks.Task) error {
	if list == nil {
		list = []tasks.Task{}
	}
	b, err := json.Marshal(envelope{Version: FormatVersion, Tasks: list})
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := a.validate(b); err != nil {
		a.log.Error("refusing to write", "key", a.key, "err", err)
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := a.kv.Put(a.key, b); err != nil {
		return fmt.Errorf("write %s: %w", a.key, err)
	}
	a.log.Debug("saved", "key", a.key, "tasks", len(list), "bytes", len(b))
	return nil
}

// Load returns the saved collection. It never fails the caller: a missing
// slot is an empty collection, and an unreadable one is an empty collection
// plus the error explaining why.
func (a *Adapter) Load() ([]tasks.Task, error) {
	raw, err := a.kv.Get(a.key)
	if errors.Is(err, ErrNotFound) {
		return []tasks.Task{}, nil
	}
	if err != nil {
		a.log.Error("read failed", "key", a.key, "err", err)
		return []tasks.Task{}, fmt.Errorf("read %s: %w", a.key, err)
	}
	list, err := a.decode(raw)
	if err != nil {
		a.log.Error("discarding stored tasks", "key", a.key, "err", err)
		return []tasks.Task{}, err
	}
	a.log.Debug("loaded", "key", a.key, "tasks", len(list))
	return list, nil
}

func (a *Adapter) decode(raw []byte) ([]tasks.Task, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []tasks.Task{}, nil
	}
	// Version 0: a bare array without an envelope.
	if trimmed[0] == '[' {
		var list []tasks.Task
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: legacy array: %v", ErrCorrupt, err)
		}
		list = nonNil(list)
		b, err := json.Marshal(envelope{Version: FormatVersion, Tasks: list})
		if err != nil {
			return nil, fmt.Errorf("%w: legacy array: %v", ErrCorrupt, err)
		}
		if err := a.validate(b); err != nil {
			return nil, fmt.Errorf("%w: legacy array: %v", ErrCorrupt, err)
		}
		return list, nil
	}

	if err := a.validate(trimmed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version > FormatVersion {
		return nil, fmt.Errorf("%w: version %d is newer than supported %d", ErrCorrupt, env.Version, FormatVersion)
	}
	return nonNil(env.Tasks), nil
}

// validate checks an encoded envelope against the schema.
func (a *Adapter) validate(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return a.schema.Validate(doc)
}

func nonNil(list []tasks.Task) []tasks.Task {
	if list == nil {
		return []tasks.Task{}
	}
	return list
}
