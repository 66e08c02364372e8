package lang

import "github.com/coderlm/coderlm/internal/model"

const typescriptSymbolQuery = `
(function_declaration name: (identifier) @function.name) @function.def

(class_declaration
  name: (type_identifier) @class.name) @class.def

(method_definition
  name: (property_identifier) @method.name) @method.def

(lexical_declaration (variable_declarator
  name: (identifier) @const.name
  value: (arrow_function))) @const.def

(interface_declaration name: (type_identifier) @interface.name) @interface.def

(type_alias_declaration name: (type_identifier) @type.name) @type.def

(enum_declaration name: (identifier) @enum.name) @enum.def
`

const typescriptCallersQuery = `
(call_expression function: (identifier) @callee)
(call_expression function: (member_expression property: (property_identifier) @callee))
`

const typescriptVariablesQuery = `
(variable_declarator name: (identifier) @var.name)
(required_parameter pattern: (identifier) @var.name)
`

const typescriptSkipQuery = `
(comment) @skip
(string) @skip
(template_string) @skip
`

func typeScriptProfile() *Profile {
	return &Profile{
		Language:       model.LangTypeScript,
		Handle:         typeScriptHandle(),
		SymbolQuery:    typescriptSymbolQuery,
		CallersQuery:   typescriptCallersQuery,
		VariablesQuery: typescriptVariablesQuery,
		SkipQuery:      typescriptSkipQuery,
		IsTest: func(name, path string) bool {
			return contains(path, ".test.") || contains(path, ".spec.") || contains(path, "__tests__")
		},
		DefinitionLine: func(line, name string) bool {
			return contains(line, "function "+name) || contains(line, name+" =")
		},
	}
}
