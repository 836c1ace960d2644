package oura

import "encoding/json"

// ListResponse is the envelope returned by every Oura collection
// endpoint: a page of records plus a pagination continuation token.
// Records are forwarded verbatim; this layer never transforms, filters,
// or aggregates them.
type ListResponse struct {
	Data      []json.RawMessage `json:"data"`
	NextToken *string           `json:"next_token"`
}

// PersonalInfo is the authenticated user's profile. Unlike the
// collection payloads it is decoded into named fields because the
// authenticator reads Email for session identity.
type PersonalInfo struct {
	ID            string  `json:"id"`
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	BiologicalSex string  `json:"biological_sex"`
	Email         string  `json:"email"`
}
