// Package view is the representation layer: it converts between persisted
// entities and wire payloads in both directions. Read shapes nest related
// objects (a song carries its genre objects, not ids), write shapes accept
// flat id lists under *_ids field names so both can coexist on one payload.
// Mini variants exist for embedding without circular nesting, and password
// fields are write-only. File and image fields stay opaque path strings;
// resolving them to URLs is not this layer's job.
package view

import "time"

// dateLayout renders DATE columns (release_date, created_at) the way the
// API has always exposed them.
const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FieldErrors maps field names to human-readable validation messages. An
// empty map means the payload is valid. Handlers serialize it under an
// "errors" key with HTTP 400.
type FieldErrors map[string]string

// Ok reports whether no field failed validation.
func (e FieldErrors) Ok() bool { return len(e) == 0 }

const msgRequired = "this field is required"
