// Package rules provides the catalogue of validators applied to form
// attribute values.
//
// A validator is a Func: it receives the current attribute value together with
// the Options it was bound with and returns the ordered Messages describing
// every violation. An empty result means the value is valid. The error return
// is reserved for faults that prevent a decision (an unreadable upload, a
// malformed pattern); rule violations are never errors.
//
// # Architecture
//
// Each source file holds one family of validators (`string.go`, `number.go`,
// `file.go`, ...). A Registry maps validator names to functions. Builtins
// returns a fresh registry on every call with the standard set:
//
//	required, boolean, string, number, range, regularExpression, email, url,
//	captcha, compare, ip, file, image
//
// Custom validators are added with Register and may replace builtins.
//
// # Messages
//
// Message templates come from options (`message`, `tooShort`, ...) and fall
// back to package defaults. The `{value}` placeholder is replaced with the
// validated value; file validators also replace `{file}` with the file name.
//
// # Usage
//
//	reg := rules.Builtins()
//	fn, err := reg.Lookup("string")
//	if err != nil {
//	    // configuration error: unknown validator
//	}
//	msgs, err := fn(ctx, "ab", rules.Options{"min": 3})
//	// msgs == rules.Messages{"ab is too short."}
//
// # Asynchronous validators
//
// The image validator has to open and decode every uploaded file. It does so
// concurrently and honors ctx cancellation. All other validators are pure and
// return immediately.
package rules
