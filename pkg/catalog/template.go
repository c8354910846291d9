package catalog

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/styled"
)

// noValue is what text/template prints for a missing map key.
const noValue = "<no value>"

// compile parses a dynamic declaration template. A template that references
// a prop the element does not have resolves to no declaration.
func compile(component string, index int, text string) (styled.Interpolation, error) {
	name := fmt.Sprintf("%s.dynamic[%d]", component, index)
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "unable to parse template field %s", name)
	}

	return func(props styled.Props) (string, error) {
		if props == nil {
			props = styled.Props{}
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, map[string]any(props)); err != nil {
			return "", err
		}
		out := strings.TrimSpace(buf.String())
		if strings.Contains(out, noValue) {
			return "", nil
		}
		if strings.ContainsAny(out, "{}") {
			return "", errors.New(errors.ErrCodeInvalidInput, "%s resolved to %q, which is not a declaration list", name, out)
		}
		return out, nil
	}, nil
}
