package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation ids of the embedded document.
const (
	OpCreateOrder        = "createOrder"
	OpGetHighestSpenders = "getHighestSpenders"
	OpGetBestSellers     = "getBestSellers"
)

var (
	// ErrUnknownOperation is returned for operation ids the document lacks.
	ErrUnknownOperation = errors.New("contract: unknown operation")
	// ErrUndocumented is returned when a status code or body is not described.
	ErrUndocumented = errors.New("contract: undocumented payload")
)

//go:embed openapi.yaml
var document []byte

// Document returns the embedded OpenAPI document.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Operation is one documented endpoint.
type Operation struct {
	ID     string
	Method string
	Path   string

	op *openapi3.Operation
}

// Contract is a validated OpenAPI document indexed by operation id.
type Contract struct {
	operations map[string]Operation
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*Contract, error) {
	return LoadFrom(ctx, document)
}

// LoadFrom parses and validates an OpenAPI document.
func LoadFrom(ctx context.Context, raw []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}

	c := &Contract{operations: make(map[string]Operation)}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID == "" {
				continue
			}
			c.operations[op.OperationID] = Operation{
				ID:     op.OperationID,
				Method: strings.ToUpper(method),
				Path:   path,
				op:     op,
			}
		}
	}
	return c, nil
}

// Operation returns the operation with the given id.
func (c *Contract) Operation(id string) (Operation, bool) {
	op, ok := c.operations[id]
	return op, ok
}

// Operations returns the sorted operation ids.
func (c *Contract) Operations() []string {
	ids := make([]string, 0, len(c.operations))
	for id := range c.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ValidateRequest checks a JSON request body against the operation's request
// schema.
func (c *Contract) ValidateRequest(opID string, body []byte) error {
	op, err := c.lookup(opID)
	if err != nil {
		return err
	}
	if op.op.RequestBody == nil || op.op.RequestBody.Value == nil {
		if len(body) == 0 {
			return nil
		}
		return fmt.Errorf("%w: %s takes no request body", ErrUndocumented, opID)
	}
	schema := jsonSchema(op.op.RequestBody.Value.Content)
	if schema == nil {
		return fmt.Errorf("%w: %s has no JSON request schema", ErrUndocumented, opID)
	}
	if err := visit(schema, body); err != nil {
		return fmt.Errorf("contract: %s request: %w", opID, err)
	}
	return nil
}

// ValidateResponse checks a JSON response body against the schema documented
// for status.
func (c *Contract) ValidateResponse(opID string, status int, body []byte) error {
	op, err := c.lookup(opID)
	if err != nil {
		return err
	}
	if op.op.Responses == nil {
		return fmt.Errorf("%w: %s documents no responses", ErrUndocumented, opID)
	}
	ref := op.op.Responses.Status(status)
	if ref == nil {
		ref = op.op.Responses.Default()
	}
	if ref == nil || ref.Value == nil {
		return fmt.Errorf("%w: %s status %d", ErrUndocumented, opID, status)
	}
	schema := jsonSchema(ref.Value.Content)
	if schema == nil {
		return nil
	}
	if err := visit(schema, body); err != nil {
		return fmt.Errorf("contract: %s %d response: %w", opID, status, err)
	}
	return nil
}

func (c *Contract) lookup(opID string) (Operation, error) {
	op, ok := c.operations[opID]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, opID)
	}
	return op, nil
}

func jsonSchema(content openapi3.Content) *openapi3.Schema {
	mt := content.Get("application/json")
	if mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

func visit(schema *openapi3.Schema, body []byte) error {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return schema.VisitJSON(value)
}
