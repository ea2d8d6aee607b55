// Package errors provides coded, actionable errors for the relayed CLI.
//
// Each error has a code (e.g. "R010") registered with a category, a short
// message, and a longer detail. Call sites add location, suggestion, and
// the wrapped cause:
//
//	err := errors.New("R011").
//	    WithLocation("board.go", 12, 5).
//	    WithSuggestion("Fix the syntax error and run relayed gen again").
//	    Wrap(parseErr)
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// ERROR R011: Failed to parse Go source
//	//
//	//   board.go:12:5
//	//   ...
//
// Library packages (pkg/...) return plain sentinel errors; these coded
// errors are for the command line and its configuration.
package errors
