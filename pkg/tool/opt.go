package tool

import (
	// Packages
	gemini "github.com/mutablelogic/go-gemini"
)

// WithToolkit makes the toolkit's functions available to a model
func WithToolkit(toolkit *Toolkit) gemini.Opt {
	return func(m *gemini.GenerativeModel) error {
		if toolkit == nil {
			return gemini.ErrClient.With("toolkit required")
		}
		declarations, err := toolkit.Declarations()
		if err != nil {
			return err
		}
		return gemini.WithFunctionDeclarations(declarations...)(m)
	}
}
