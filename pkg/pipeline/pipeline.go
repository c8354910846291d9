// Package pipeline renders catalog components into complete HTML pages.
//
// This package implements the lookup → render → extract → cache pipeline
// shared by the CLI and the HTTP server, so both entry points produce the
// same markup and write the same cache entries.
//
// # Usage
//
//	runner := pipeline.NewRunner(cat, c, keyer, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Component: "PrimaryButton",
//	    Props:     map[string]string{"tone": "dark"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Page)
//
// Every execution uses its own [ssr.Context], so concurrent executions never
// share a stylesheet.
package pipeline

import (
	"bytes"
	"html/template"
	"time"

	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/extract"
	"github.com/matzehuels/styletower/pkg/styled"
	"github.com/matzehuels/styletower/pkg/tag"
)

// DefaultTTL is how long pages and blocks stay cached unless configured.
const DefaultTTL = 24 * time.Hour

// =============================================================================
// Options
// =============================================================================

// Options selects what to render.
type Options struct {
	// Component is the catalog name of the component to render.
	Component string `json:"component"`

	// Props are passed to the component's dynamic declarations.
	Props map[string]string `json:"props,omitempty"`

	// Refresh skips the page cache lookup. The result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// TTL is the cache lifetime of the page and its blocks.
	// Zero means DefaultTTL.
	TTL time.Duration `json:"-"`

	// Tag configures the rule store of the render's sheet.
	Tag tag.Options `json:"-"`
}

// Validate checks the options and fills in defaults.
func (o *Options) Validate() error {
	if err := errors.ValidateDefinitionKey(o.Component); err != nil {
		return err
	}
	for name := range o.Props {
		if err := errors.ValidatePropName(name); err != nil {
			return err
		}
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	return nil
}

func (o Options) styledProps() styled.Props {
	props := make(styled.Props, len(o.Props))
	for k, v := range o.Props {
		props[k] = v
	}
	return props
}

// =============================================================================
// Result
// =============================================================================

// Result is a rendered page.
type Result struct {
	// Page is the complete HTML document.
	Page []byte

	// Blocks are the style blocks emitted into the page head. Nil when the
	// page came from the cache.
	Blocks []extract.Block

	// ClassName is the class attribute of the rendered element.
	ClassName string

	// Cached reports whether Page came from the cache.
	Cached bool

	// RenderTime is the time spent rendering and extracting.
	RenderTime time.Duration
}

// =============================================================================
// Page Markup
// =============================================================================

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Component}}</title>
{{.Styles}}
</head>
<body>
<div class="{{.ClassName}}" data-st-component="{{.Component}}"></div>
</body>
</html>
`))

type pageData struct {
	Component string
	ClassName string
	Styles    template.HTML
}

// page writes the HTML document for one rendered element. The style markup
// is already escaped for HTML by the extraction session.
func page(component, className, styles string) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Component: component,
		ClassName: className,
		Styles:    template.HTML(styles),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write page for %s", component)
	}
	return buf.Bytes(), nil
}
