// Package format renders CLI command output. All scriptable commands emit
// strict JSON so agents and shell pipelines can consume them.
package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write writes v as a single JSON document followed by a newline.
func Write(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
