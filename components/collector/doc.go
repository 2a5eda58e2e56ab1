// Package collector is a small form-collection endpoint for lead
// submissions. It accepts urlencoded POSTs identified by a form-name field,
// strips the variant field prefix, sanitises the values, validates them
// against the LeadSubmission schema of the embedded OpenAPI document and
// stores the result.
//
// Unknown form names answer 404, methods other than POST answer 405 and
// schema failures answer 422 with a JSON body keyed by the submitted field
// names.
package collector
