// Package errors provides coded, actionable errors for the todoview command
// line and its configuration.
//
// Each error has a unique code (e.g., "T101") that maps to a category, a
// short message, a longer explanation and an optional hint:
//
//	err := errors.New("T102").
//	    WithDetail("remote.baseURL must be an absolute http(s) URL").
//	    WithSuggestion(`Set "remote": {"baseURL": "https://icp-test.fly.dev"}`)
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// ERROR T102: Invalid configuration value
//	//
//	//   remote.baseURL must be an absolute http(s) URL
//	//
//	//   Hint: Set "remote": {"baseURL": "https://icp-test.fly.dev"}
//
// Codes are grouped by range:
//   - T100-T139: configuration
//   - T140-T159: command line
//   - T160-T179: demo backend storage
//   - T180-T199: view host
package errors
