package helpers

import (
	"strings"

	"github.com/juju/errors"
)

// FoldErrors drops nil entries. Single error is returned as is so callers
// can still check it with errors.Cause/IsNotValid, several are joined one per line.
func FoldErrors(errs []error) error {
	var first error
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		if e == nil {
			continue
		}
		if first == nil {
			first = e
		}
		lines = append(lines, e.Error())
	}
	switch len(lines) {
	case 0:
		return nil
	case 1:
		return first
	}
	return errors.New(strings.Join(lines, "\n"))
}
