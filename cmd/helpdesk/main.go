// Helpdesk is a customer-support chat relay.
//
// It answers chat turns from a browser with OpenAI and falls back to Gemini
// when OpenAI fails. The conversation transcript travels in a cookie, so the
// relay keeps no per-user state.
//
// Usage:
//
//	# Start with defaults and OPENAI_API_KEY / GEMINI_API_KEY from the environment
//	helpdesk run
//
//	# Start with a configuration file and reload it on change
//	helpdesk run --config /etc/helpdesk/config.yaml --watch
//
//	# Check a configuration file
//	helpdesk validate --config config.yaml
//
//	# Show version information
//	helpdesk version
package main

func main() {
	Execute()
}
