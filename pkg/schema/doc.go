// Package schema loads declarative form definitions from YAML and builds
// forms from them.
//
// A document lists form configuration overrides and fields:
//
//	id: signup
//	form:
//	  enableAjaxValidation: true
//	  validationDelay: 300ms
//	fields:
//	  - attribute: email
//	    type: text
//	    label: Email
//	    rules:
//	      - validator: required
//	      - validator: email
//	        options: {enableIDN: true}
//
// Parse rejects unknown keys. Build resolves field types and validator
// names and fails on the first unknown one.
package schema
