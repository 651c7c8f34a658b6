package action

import (
	"encoding/json"

	"github.com/agoraforum/agora/internal/rules"
)

// Status is the secondary outcome code, distinct from the permission.
// The numeric values are part of the wire contract.
type Status int

// Status codes. StatusCanceled doubles as "already done" on duplicate
// attempts, which is how the legacy wire used the value.
const (
	StatusApplied  Status = 0
	StatusCanceled Status = 1
	StatusTooOld   Status = 2
)

// Outcome is the structured result of one action. Denials travel here,
// never as errors: an error from PerformAction means the action could
// not be evaluated at all.
type Outcome struct {
	Allowed rules.Permission
	Applied bool
	Status  Status
	Count   int
	Message string
}

// wireOutcome is the legacy JSON shape: allowed carries the numeric
// permission code and success is 0/1
type wireOutcome struct {
	Allowed int    `json:"allowed"`
	Success int    `json:"success"`
	Status  int    `json:"status"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// MarshalJSON preserves the legacy response_data shape field-for-field
func (o Outcome) MarshalJSON() ([]byte, error) {
	success := 0
	if o.Applied {
		success = 1
	}
	return json.Marshal(wireOutcome{
		Allowed: o.Allowed.WireCode(),
		Success: success,
		Status:  int(o.Status),
		Count:   o.Count,
		Message: o.Message,
	})
}

// denied builds the outcome for a permission denial
func denied(perm rules.Permission, count int) *Outcome {
	return &Outcome{
		Allowed: perm,
		Applied: false,
		Status:  StatusApplied,
		Count:   count,
		Message: perm.Message(),
	}
}
