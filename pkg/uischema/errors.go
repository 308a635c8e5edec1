package uischema

import (
	"fmt"
	"strings"
)

// DocumentError reports malformed UI hint documents. Path names the offending
// file when known.
type DocumentError struct {
	Path    string
	Message string
}

func (e DocumentError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "invalid document"
	}
	if strings.TrimSpace(e.Path) == "" {
		return "uischema: " + msg
	}
	return fmt.Sprintf("uischema: %s (%s)", msg, e.Path)
}
