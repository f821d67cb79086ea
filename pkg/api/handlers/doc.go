// Package handlers implements the jobscan HTTP endpoints.
//
//	GET  /health        storage connectivity, 200 or 503
//	POST /analyze-job   score a job posting and persist the result
//	GET  /analyses      paginated audit listing of stored analyses
//
// Handlers answer wrong methods with 405 and every error with a JSON body
// of the form {"error": "..."}.
package handlers
