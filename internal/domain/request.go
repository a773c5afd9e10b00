package domain

// RequestHeader carries the three required fields every wire request must
// declare under its "header" key (spec §3).
type RequestHeader struct {
	Token   string `json:"token"`
	Element string `json:"element"`
	Action  string `json:"action"`
}

// Request is a decoded ingress message: the raw field map plus, once
// authorization succeeds, the verified Token attached to it (spec §3).
// The zero value is not valid; use NewRequest.
type Request struct {
	fields          map[string]interface{}
	header          RequestHeader
	authorizedToken *Token
}

// NewRequest wraps a decoded JSON object and its already-extracted header
// into a Request. It is the sanitizer's responsibility to have validated
// the header's presence and shape before calling this.
func NewRequest(fields map[string]interface{}, header RequestHeader) *Request {
	return &Request{fields: fields, header: header}
}

// Fields returns the full decoded field map, including "header".
func (r *Request) Fields() map[string]interface{} {
	return r.fields
}

// Header returns the request's header.
func (r *Request) Header() RequestHeader {
	return r.header
}

// AuthorizedToken returns the Token attached by the authorizer, and
// whether one has been attached yet. A Request only carries a Token once
// authorization has succeeded (spec §3 invariant).
func (r *Request) AuthorizedToken() (*Token, bool) {
	if r.authorizedToken == nil {
		return nil, false
	}
	return r.authorizedToken, true
}

// WithAuthorizedToken returns a copy of the request with token attached.
// The authorizer uses this to produce the authorized Request without
// mutating the one it received (spec §4.2 step 4).
func (r *Request) WithAuthorizedToken(token *Token) *Request {
	cp := *r
	cp.authorizedToken = token
	return &cp
}
