package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// idNamespace scopes content-derived ids so they never collide with ids minted
// elsewhere in the finance tracker.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/FACorreiaa/statement-ingest/transactions"))

// HashID derives a stable id from the format tag and the parsed row fields.
// Rows whose parsed fields serialize identically get the same id.
func HashID(format Format, fields any) string {
	payload, err := json.Marshal(struct {
		Format Format `json:"format"`
		Fields any    `json:"fields"`
	}{format, fields})
	if err != nil {
		// Only unsupported field types fail; fall back to their printed form.
		payload = []byte(fmt.Sprintf("%s|%+v", format, fields))
	}
	return uuid.NewSHA1(idNamespace, payload).String()
}

// IDAssigner hands out record ids for a single parse. It is not safe for
// concurrent use and must not outlive the parse.
type IDAssigner struct {
	format Format
	seen   map[string]struct{}
}

// NewIDAssigner returns an assigner scoped to one file.
func NewIDAssigner(format Format) *IDAssigner {
	return &IDAssigner{format: format, seen: make(map[string]struct{})}
}

// Assign returns the first candidate that is non-empty and unused in this file,
// otherwise the hash of fields.
func (a *IDAssigner) Assign(fields any, candidates ...string) string {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := a.seen[c]; dup {
			continue
		}
		a.seen[c] = struct{}{}
		return c
	}
	id := HashID(a.format, fields)
	a.seen[id] = struct{}{}
	return id
}
