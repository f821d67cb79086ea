// Jobscan scores job postings for scam risk with a fixed catalog of weighted
// text rules and keeps an audit trail of every analysis.
//
// Usage:
//
//	# Start the HTTP API with default configuration
//	jobscan serve
//
//	# Start with a configuration file
//	jobscan serve --config /etc/jobscan/config.yaml
//
//	# Score a posting from the command line
//	jobscan analyze "Pay the registration fee and start immediately"
//
//	# Show which rules fire for a text
//	jobscan rules --explain "Contact on WhatsApp only"
//
//	# Browse and export the audit trail
//	jobscan analyses list --risk-level HIGH
//	jobscan analyses export --format csv --output analyses.csv
//
//	# Show version information
//	jobscan version
package main

func main() {
	Execute()
}
