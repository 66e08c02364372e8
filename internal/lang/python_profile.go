package lang

import "github.com/coderlm/coderlm/internal/model"

const pythonSymbolQuery = `
(function_definition name: (identifier) @function.name) @function.def

(class_definition
  name: (identifier) @class.name
  body: (block (function_definition name: (identifier) @method.name) @method.def)?) @class.def
`

const pythonCallersQuery = `
(call function: (identifier) @callee)
(call function: (attribute attribute: (identifier) @callee))
`

const pythonVariablesQuery = `
(assignment left: (identifier) @var.name)
(parameters (identifier) @var.name)
`

const pythonSkipQuery = `
(comment) @skip
(string) @skip
`

func pythonProfile() *Profile {
	return &Profile{
		Language:       model.LangPython,
		Handle:         pythonHandle(),
		SymbolQuery:    pythonSymbolQuery,
		CallersQuery:   pythonCallersQuery,
		VariablesQuery: pythonVariablesQuery,
		SkipQuery:      pythonSkipQuery,
		IsTest: func(name, path string) bool {
			return hasPrefix(name, "test_") || contains(path, "test_") || contains(path, "_test.")
		},
		DefinitionLine: func(line, name string) bool {
			return contains(line, "def "+name)
		},
	}
}
