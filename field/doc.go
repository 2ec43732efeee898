// Package field renders form inputs for the form engine and maps browser
// events back onto it.
//
// A Field declares an attribute together with its input type, label,
// rules and overrides. Mount registers fields with a form.Form; a Handle
// then carries the form id, the snapshot being rendered and the endpoint
// inputs post to. ActiveField draws one field with its label, hint and
// first error, and ErrorSummary lists every error.
//
// Each input type has a Renderer, looked up in a Registry. Renderers emit
// markup with datastar bindings, decode the posted signals and decide which
// events validate: free-text inputs follow ValidateOnType while typing,
// list inputs only react to change and blur.
//
//	reg := field.Builtins()
//	fields := []field.Field{
//		{Attribute: "email", Type: field.TypeText, Label: "Email",
//			Rules: []form.Rule{{Validator: "email"}}},
//	}
//	if err := field.Mount(f, reg, fields...); err != nil {
//		return err
//	}
//	h := field.NewHandle(f, reg, "/forms/"+f.ID())
//	_ = field.ActiveField(h, fields[0]).Render(ctx, w)
package field
