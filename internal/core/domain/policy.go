package domain

// Rule is one authorization predicate over the caller.
type Rule func(Identity) bool

// HasRole passes when the caller holds role.
func HasRole(role Role) Rule {
	return func(id Identity) bool {
		return !id.Anonymous() && id.Role == role
	}
}

// OwnedBy passes when the caller is the owner with the given id. Ids are
// compared as hex strings.
func OwnedBy(ownerID string) Rule {
	return func(id Identity) bool {
		return !id.Anonymous() && ownerID != "" && id.ID == ownerID
	}
}

// AnyOf passes when at least one rule passes.
func AnyOf(rules ...Rule) Rule {
	return func(id Identity) bool {
		for _, r := range rules {
			if r(id) {
				return true
			}
		}
		return false
	}
}

// Allowed reports whether every rule passes for the caller.
func Allowed(id Identity, rules ...Rule) bool {
	for _, r := range rules {
		if !r(id) {
			return false
		}
	}
	return true
}

// Authorize returns an authorization error carrying message unless every
// rule passes.
func Authorize(id Identity, message string, rules ...Rule) error {
	if Allowed(id, rules...) {
		return nil
	}
	return AuthorizationError(message)
}
