package drive

import "fmt"

const (
	granteeTypeUser   = "user"
	granteeTypeGroup  = "group"
	granteeTypeDomain = "domain"
	granteeTypeAnyone = "anyone"
)

// Grantee represents an entity that can be granted access to a form or folder.
// This is a sealed interface - use the constructor functions User, Group, Domain, or Anyone.
type Grantee interface {
	doNotImplement(Grantee)
}

func User(email string) Grantee {
	return GranteeUser{Email: email}
}

func Group(email string) Grantee {
	return GranteeGroup{Email: email}
}

func Domain(domain string) Grantee {
	return GranteeDomain{Domain: domain}
}

func Anyone() Grantee {
	return GranteeAnyone{}
}

// ParseGrantee builds a Grantee from its Drive API type name.
// address is the email for users and groups, the domain name for domains, and ignored for anyone.
func ParseGrantee(granteeType, address string) (Grantee, error) {
	switch granteeType {
	case granteeTypeUser:
		return User(address), nil
	case granteeTypeGroup:
		return Group(address), nil
	case granteeTypeDomain:
		return Domain(address), nil
	case granteeTypeAnyone:
		return Anyone(), nil
	}
	return nil, fmt.Errorf("unknown grantee type %q", granteeType)
}

type GranteeUser struct {
	Email string
}

func (GranteeUser) doNotImplement(Grantee) {}

type GranteeGroup struct {
	Email string
}

func (GranteeGroup) doNotImplement(Grantee) {}

type GranteeDomain struct {
	Domain string
}

func (GranteeDomain) doNotImplement(Grantee) {}

type GranteeAnyone struct{}

func (GranteeAnyone) doNotImplement(Grantee) {}
