// Package leadform serves the lead form over net/http. Each browser session
// gets its own controller, keyed by a cookie and expired after an idle TTL.
//
// Routes, relative to the mount path:
//
//	GET  /          current step, HTML by default, JSON or text by Accept
//	POST /details   submit floor area and solar value
//	POST /field     validate one field, JSON {field, error}
//	POST /lead      submit the email address
//	POST /restart   start over from the confirmation step
//	GET  /estimate  stateless estimate for the area and solar query params
//	GET  /assets/   embedded stylesheet and script
package leadform
