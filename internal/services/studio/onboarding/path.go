package onboarding

// Path is the commerce-path classification derived from answers.
// The zero value means no path has been derived yet.
type Path string

const (
	PathNone            Path = ""
	PathIndividual      Path = "INDIVIDUAL"
	PathSellerStarter   Path = "SELLER_STARTER"
	PathSellerExpanding Path = "SELLER_EXPANDING"
	PathArtist          Path = "ARTIST"
	PathNonProfit       Path = "NON_PROFIT"
)

// Valid reports whether p is one of the known paths, including PathNone.
func (p Path) Valid() bool {
	switch p {
	case PathNone, PathIndividual, PathSellerStarter, PathSellerExpanding, PathArtist, PathNonProfit:
		return true
	default:
		return false
	}
}

// Role names granted when onboarding completes on a path.
const (
	RoleCustomer = "CUSTOMER"
	RoleSeller   = "SELLER"
	RoleCreator  = "CREATOR"
)

// RoleForPath returns the role a user earns by completing onboarding on p.
func RoleForPath(p Path) (string, bool) {
	switch p {
	case PathIndividual:
		return RoleCustomer, true
	case PathSellerStarter, PathSellerExpanding, PathNonProfit:
		return RoleSeller, true
	case PathArtist:
		return RoleCreator, true
	default:
		return "", false
	}
}
