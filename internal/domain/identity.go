package domain

// Identity is the opaque authenticated-user handle exposed by the identity
// provider, plus optional display attributes. No credential material ever
// reaches this type.
type Identity struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// UnsignedSignature is the display signature applied when a poem is
// submitted with no author override and no local fallback name.
const UnsignedSignature = "無署名"

// DefaultSignature returns the display name to pre-fill a composition
// signature with: the identity's display name, else its contact address,
// else the empty string. A nil identity (signed out) yields "".
func DefaultSignature(ident *Identity) string {
	if ident == nil {
		return ""
	}
	if ident.DisplayName != "" {
		return ident.DisplayName
	}
	return ident.Email
}

// CanMutate reports whether the given identity may edit or delete the poem.
// True iff an identity is present and its handle matches the poem's owner.
//
// This predicate is deliberately the only place the ownership rule is
// written down. The client uses it to gate edit/delete before issuing a
// request; the server applies the same function when enforcing the rule
// for real.
func CanMutate(p *Poem, ident *Identity) bool {
	if p == nil || ident == nil || ident.Handle == "" {
		return false
	}
	return p.OwnerID != "" && ident.Handle == p.OwnerID
}
