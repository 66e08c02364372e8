package lang

import "github.com/coderlm/coderlm/internal/model"

const javascriptSymbolQuery = `
(function_declaration name: (identifier) @function.name) @function.def

(class_declaration
  name: (identifier) @class.name) @class.def

(method_definition
  name: (property_identifier) @method.name) @method.def

(lexical_declaration (variable_declarator
  name: (identifier) @const.name
  value: (arrow_function))) @const.def
`

const javascriptCallersQuery = `
(call_expression function: (identifier) @callee)
(call_expression function: (member_expression property: (property_identifier) @callee))
`

const javascriptVariablesQuery = `
(variable_declarator name: (identifier) @var.name)
`

const javascriptSkipQuery = `
(comment) @skip
(string) @skip
(template_string) @skip
`

func javaScriptProfile() *Profile {
	return &Profile{
		Language:       model.LangJavaScript,
		Handle:         javaScriptHandle(),
		SymbolQuery:    javascriptSymbolQuery,
		CallersQuery:   javascriptCallersQuery,
		VariablesQuery: javascriptVariablesQuery,
		SkipQuery:      javascriptSkipQuery,
		IsTest: func(name, path string) bool {
			return contains(path, ".test.") || contains(path, ".spec.") || contains(path, "__tests__")
		},
		DefinitionLine: func(line, name string) bool {
			return contains(line, "function "+name) || contains(line, name+" =")
		},
	}
}
