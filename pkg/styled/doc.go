// Package styled is the definition layer that feeds the stylesheet.
//
// A [Definition] is a named set of declarations. Static declarations are the
// same for every element; dynamic ones are [Interpolation] functions resolved
// against the element's [Props]. A definition created with
// [Registry.Extend] inherits its base's declarations: its chain lists the
// base first and ends with the definition itself, and it is fixed when the
// definition is created.
//
// [Render] writes a definition's rules into a [sheet.StyleSheet] and returns
// an [Element] carrying the class names to put on markup and the group-id
// chain the extract package walks.
//
//	reg := styled.NewRegistry()
//	button, _ := reg.Define("Button", "display:inline-flex;")
//	primary, _ := reg.Extend(button, "PrimaryButton", "color:white;")
//	primary.WithDynamic(func(p styled.Props) (string, error) {
//	    return fmt.Sprintf("background:%v;", p["tone"]), nil
//	})
//
//	el, err := styled.Render(s, primary, styled.Props{"tone": "navy"})
//	// el.ClassName() == "<button class> <primary class> <navy class>"
package styled
