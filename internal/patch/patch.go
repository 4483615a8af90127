// Package patch applies JSON Patch (RFC 6902) documents to Go values.
//
// The target is marshalled to JSON, each operation is applied with evanphx/json-patch and the
// result is decoded back into the target. A document either applies completely or leaves the
// target untouched.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/segmentio/encoding/json"
)

const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpMove    = "move"
	OpCopy    = "copy"
	OpTest    = "test"
)

var (
	ErrNilTarget    = errors.New("patch target must be a non-nil pointer")
	ErrMissingValue = errors.New("operation requires a value")
	ErrMissingFrom  = errors.New("operation requires a from pointer")
	ErrUnknownOp    = errors.New("unknown operation")
)

type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Document is an ordered list of operations.
type Document []Operation

// Error reports which operation failed. Index is -1 when the patched document could not be
// decoded back into the target.
type Error struct {
	Index int
	Op    string
	Path  string
	Err   error
}

func (e *Error) Error() string {
	if e.Index < 0 {
		return "patched document does not fit the target: " + e.Err.Error()
	}
	return fmt.Sprintf("operation %d (%s %s): %s", e.Index, e.Op, e.Path, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Apply runs every operation of doc against target, which must be a non-nil pointer.
func Apply(doc Document, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNilTarget
	}

	bs, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("projecting patch target: %w", err)
	}

	for ix, op := range doc {
		bs, err = applyOne(bs, op)
		if err != nil {
			return &Error{Index: ix, Op: op.Op, Path: op.Path, Err: err}
		}
	}

	out := reflect.New(rv.Elem().Type())
	dec := json.NewDecoder(bytes.NewReader(bs))
	dec.DisallowUnknownFields()
	if err = dec.Decode(out.Interface()); err != nil {
		return &Error{Index: -1, Err: err}
	}

	rv.Elem().Set(out.Elem())
	return nil
}

// applyOne resolves the pointers of op against doc and returns the patched copy of doc.
func applyOne(doc []byte, op Operation) ([]byte, error) {
	switch op.Op {
	case OpAdd, OpReplace, OpTest:
		if len(op.Value) == 0 {
			return nil, ErrMissingValue
		}
	case OpMove, OpCopy:
		if op.From == "" {
			return nil, ErrMissingFrom
		}
	case OpRemove:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, op.Op)
	}

	var tree any
	if err := json.Unmarshal(doc, &tree); err != nil {
		return nil, err
	}

	var err error
	if op.Path, err = resolvePointer(tree, op.Path); err != nil {
		return nil, err
	}
	if op.From != "" {
		if op.From, err = resolvePointer(tree, op.From); err != nil {
			return nil, err
		}
	}

	raw, err := json.Marshal(Document{op})
	if err != nil {
		return nil, err
	}

	p, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, err
	}

	return p.Apply(doc)
}
