// Package transport delivers lead submissions to a form-collection endpoint
// as application/x-www-form-urlencoded POST requests.
package transport
