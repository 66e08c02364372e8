package lang

import "github.com/coderlm/coderlm/internal/model"

const rustSymbolQuery = `
(function_item name: (identifier) @function.name) @function.def

(impl_item
  type: (_) @impl.type
  body: (declaration_list (function_item name: (identifier) @method.name) @method.def))

(struct_item name: (type_identifier) @struct.name) @struct.def

(enum_item name: (type_identifier) @enum.name) @enum.def

(trait_item name: (type_identifier) @trait.name) @trait.def

(type_item name: (type_identifier) @type.name) @type.def

(const_item name: (identifier) @const.name) @const.def

(static_item name: (identifier) @static.name) @static.def

(mod_item name: (identifier) @mod.name) @mod.def
`

const rustCallersQuery = `
(call_expression function: (identifier) @callee)
(call_expression function: (field_expression field: (field_identifier) @callee))
`

const rustVariablesQuery = `
(let_declaration pattern: (identifier) @var.name)
(parameter pattern: (identifier) @var.name)
`

const rustSkipQuery = `
(line_comment) @skip
(block_comment) @skip
(string_literal) @skip
`

func rustProfile() *Profile {
	return &Profile{
		Language:       model.LangRust,
		Handle:         rustHandle(),
		SymbolQuery:    rustSymbolQuery,
		CallersQuery:   rustCallersQuery,
		VariablesQuery: rustVariablesQuery,
		SkipQuery:      rustSkipQuery,
		IsTest: func(name, path string) bool {
			return hasPrefix(name, "test") || contains(path, "/tests/")
		},
		DefinitionLine: func(line, name string) bool {
			return contains(line, "fn "+name)
		},
	}
}
