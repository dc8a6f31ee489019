package nav

import (
	_ "embed"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns a fresh copy of the bundled default document.
// It panics if the embedded file is broken, which a test guards against.
func Default() *Document {
	doc, err := Parse(defaultYAML)
	if err != nil {
		panic("nav: bundled default document: " + err.Error())
	}
	return doc
}
