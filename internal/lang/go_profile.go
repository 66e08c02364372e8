package lang

import "github.com/coderlm/coderlm/internal/model"

const goSymbolQuery = `
(function_declaration name: (identifier) @function.name) @function.def

(method_declaration name: (field_identifier) @method.name) @method.def

(type_declaration (type_spec
  name: (type_identifier) @struct.name
  type: (struct_type))) @struct.def

(type_declaration (type_spec
  name: (type_identifier) @interface.name
  type: (interface_type))) @interface.def

(type_declaration (type_spec
  name: (type_identifier) @type.name
  type: [(type_identifier) (pointer_type) (array_type) (slice_type) (map_type) (function_type) (channel_type) (qualified_type)])) @type.def

(const_declaration (const_spec name: (identifier) @const.name)) @const.def

(var_declaration (var_spec name: (identifier) @const.name)) @const.def
`

const goCallersQuery = `
(call_expression function: (identifier) @callee)
(call_expression function: (selector_expression field: (field_identifier) @callee))
`

const goVariablesQuery = `
(short_var_declaration left: (expression_list (identifier) @var.name))
(var_spec name: (identifier) @var.name)
(parameter_declaration name: (identifier) @var.name)
`

const goSkipQuery = `
(comment) @skip
(interpreted_string_literal) @skip
(raw_string_literal) @skip
`

func goProfile() *Profile {
	return &Profile{
		Language:       model.LangGo,
		Handle:         goHandle(),
		SymbolQuery:    goSymbolQuery,
		CallersQuery:   goCallersQuery,
		VariablesQuery: goVariablesQuery,
		SkipQuery:      goSkipQuery,
		IsTest: func(name, path string) bool {
			return hasPrefix(name, "Test") || hasSuffix(path, "_test.go")
		},
		DefinitionLine: func(line, name string) bool {
			return contains(line, "func "+name)
		},
	}
}
