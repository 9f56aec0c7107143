// Package templates implements prompt-template variable extraction and
// substitution. Placeholders are mustache-style {{name}} identifiers; this
// is plain substitution, not a templating language — no conditionals, no
// loops, and unknown placeholders are left intact.
package templates

import (
	"fmt"
	"regexp"

	"contexthub/internal/models"
)

// variablePattern matches {{name}} where the name is an identifier starting
// with a letter or underscore.
var variablePattern = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// MissingVariableError reports a required variable absent at render time.
// Callers surface it as a client error, never a server fault.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing required variable: %s", e.Name)
}

// ExtractVariables scans content for distinct {{name}} placeholders in
// first-seen order. Extracted variables are optional with no default; this
// is the fallback used when the caller declares no explicit variable list.
func ExtractVariables(content string) []models.PromptVariable {
	seen := make(map[string]bool)
	vars := []models.PromptVariable{}
	for _, m := range variablePattern.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		vars = append(vars, models.PromptVariable{Name: name, Required: false})
	}
	return vars
}

// Render substitutes values into content. Declared defaults fill absent
// variables first; a required variable still absent afterwards aborts with
// a *MissingVariableError naming it.
func Render(content string, declared []models.PromptVariable, supplied map[string]string) (string, error) {
	ctx := make(map[string]string, len(supplied))
	for k, v := range supplied {
		ctx[k] = v
	}

	for _, v := range declared {
		if _, ok := ctx[v.Name]; !ok && v.DefaultValue != nil {
			ctx[v.Name] = *v.DefaultValue
		}
	}
	for _, v := range declared {
		if _, ok := ctx[v.Name]; !ok && v.Required {
			return "", &MissingVariableError{Name: v.Name}
		}
	}

	rendered := variablePattern.ReplaceAllStringFunc(content, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		if val, ok := ctx[name]; ok {
			return val
		}
		return match
	})
	return rendered, nil
}
