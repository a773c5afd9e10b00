package domain

import "fmt"

// Token is an immutable, verified principal: the decoded claim map plus a
// precomputed permission list (spec §3).
type Token struct {
	claims      map[string]interface{}
	permissions []string
}

// NewToken builds a Token from a verified claim map. Permissions are
// derived from the "permissions" claim; if that claim is absent or empty,
// the singular "permission" claim is used as a fallback. Both claims go
// through the same string-list decode (see original_source's token.rs
// get_permissions_from_claim): a bare string is a type mismatch, not a
// single-element list. Absence of both claims, or a claim present but not
// a list of strings, is a construction failure.
func NewToken(claims map[string]interface{}) (*Token, error) {
	permissions, err := permissionsFromClaims(claims)
	if err != nil {
		return nil, err
	}
	return &Token{claims: claims, permissions: permissions}, nil
}

func permissionsFromClaims(claims map[string]interface{}) ([]string, error) {
	list, present, err := stringListClaim(claims, "permissions")
	if err != nil {
		return nil, err
	}
	if present && len(list) > 0 {
		return list, nil
	}

	list, present, err = stringListClaim(claims, "permission")
	if err != nil {
		return nil, err
	}
	if present && len(list) > 0 {
		return list, nil
	}

	return nil, NewError(KindTokenDecodingFailure, "token has neither a usable \"permissions\" nor \"permission\" claim")
}

// stringListClaim decodes claims[key] as a list of strings. A claim that
// is present but isn't a list of strings (including a bare string) is a
// MalformedToken failure, matching the original source's Vec<String>
// decode for both the "permissions" and "permission" claims.
func stringListClaim(claims map[string]interface{}, key string) (list []string, present bool, err error) {
	raw, found := claims[key]
	if !found {
		return nil, false, nil
	}

	switch v := raw.(type) {
	case []string:
		return v, true, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, true, NewError(KindMalformedToken, fmt.Sprintf("%q claim is not a list of strings", key))
			}
			out = append(out, s)
		}
		return out, true, nil
	default:
		return nil, true, NewError(KindMalformedToken, fmt.Sprintf("%q claim is not a list of strings", key))
	}
}

// Claims returns the decoded claim map the token was built from.
func (t *Token) Claims() map[string]interface{} {
	return t.claims
}

// Permissions returns the token's precomputed permission list.
func (t *Token) Permissions() []string {
	return t.permissions
}

// HasPermission reports whether permission is present in the token's
// permission list.
func (t *Token) HasPermission(permission string) bool {
	for _, p := range t.permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// RequiredPermission computes the permission string an action on an
// element requires: "{action}:{element}" (spec §4.2, literal colon).
func RequiredPermission(action, element string) string {
	return fmt.Sprintf("%s:%s", action, element)
}
