// Package privacy implements GDPR-style processing of work item datasets:
// salted hashing of personal fields and removal of data for users who opted
// out of processing.
package privacy

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// DefaultFields are the work item fields hashed when none are configured.
var DefaultFields = []string{"title", "description", "assignedTo", "createdBy"}

// WorkItem is a loosely-typed work item record; only the configured fields
// are touched.
type WorkItem map[string]interface{}

// Dependency links two work items by ID.
type Dependency struct {
	SourceID  string   `json:"sourceId"`
	TargetID  string   `json:"targetId"`
	RiskScore *float64 `json:"riskScore,omitempty"`
}

// Processor anonymizes work items and enforces opt-outs. The salt is fixed at
// construction so equal values hash equally within one processing run.
type Processor struct {
	fields  []string
	salt    string
	optOuts map[string]struct{}
}

// NewProcessor creates a processor for the given fields. An empty field list
// selects DefaultFields; an empty salt gets a random one.
func NewProcessor(fields []string, salt string) *Processor {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	if salt == "" {
		salt = randomSalt()
	}
	return &Processor{
		fields:  fields,
		salt:    salt,
		optOuts: make(map[string]struct{}),
	}
}

// RegisterOptOut excludes a user's data from processing.
func (p *Processor) RegisterOptOut(userID string) {
	p.optOuts[userID] = struct{}{}
}

// AnonymizeValue hashes a value with the processor's salt. Empty input stays
// empty.
func (p *Processor) AnonymizeValue(value string) string {
	if value == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(value + p.salt))
	return hex.EncodeToString(sum[:])
}

// AnonymizeWorkItem returns a copy of the item with configured fields hashed.
func (p *Processor) AnonymizeWorkItem(item WorkItem) WorkItem {
	out := make(WorkItem, len(item))
	for k, v := range item {
		out[k] = v
	}
	for _, field := range p.fields {
		if v, ok := out[field]; ok {
			if s, isString := v.(string); isString && s != "" {
				out[field] = p.AnonymizeValue(s)
			}
		}
	}
	return out
}

// RemoveOptOutData drops items assigned to opted-out users.
func (p *Processor) RemoveOptOutData(items []WorkItem) []WorkItem {
	out := make([]WorkItem, 0, len(items))
	for _, item := range items {
		if assignee, ok := item["assignedTo"].(string); ok {
			if _, opted := p.optOuts[assignee]; opted {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// ProcessDataset applies opt-out filtering then anonymization, and prunes
// dependencies whose endpoints were removed.
func (p *Processor) ProcessDataset(items []WorkItem, deps []Dependency) ([]WorkItem, []Dependency) {
	filtered := p.RemoveOptOutData(items)

	anonymized := make([]WorkItem, 0, len(filtered))
	validIDs := make(map[string]struct{}, len(filtered))
	for _, item := range filtered {
		a := p.AnonymizeWorkItem(item)
		anonymized = append(anonymized, a)
		if id, ok := a["id"].(string); ok {
			validIDs[id] = struct{}{}
		}
	}

	kept := make([]Dependency, 0, len(deps))
	for _, d := range deps {
		_, srcOK := validIDs[d.SourceID]
		_, dstOK := validIDs[d.TargetID]
		if srcOK && dstOK {
			kept = append(kept, d)
		}
	}
	return anonymized, kept
}

func randomSalt() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the process environment is broken;
		// a fixed salt is still safe for hashing consistency.
		return "slipcast-static-salt"
	}
	return hex.EncodeToString(buf)
}
