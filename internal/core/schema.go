package core

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// DocumentSchema describes the persisted ledger document as a JSON Schema.
// Money fields accept decimal strings as well as plain JSON numbers.
func DocumentSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{
					OneOf: []*jsonschema.Schema{
						{Type: "string", Pattern: `^-?[0-9]+(\.[0-9]+)?$`},
						{Type: "number"},
					},
				}
			}
			return nil
		},
	}
	schema := reflector.Reflect(&Document{})
	schema.Title = "Warehouse ledger document"
	return schema
}
