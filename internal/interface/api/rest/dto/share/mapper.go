package share

import (
	"fileshare-api/internal/domain/grant"
)

func ToResponseGrant(g grant.Grant) Grant {
	return Grant{Email: g.Email, CreatedAt: g.CreatedAt}
}

func ToResponseGrants(gs grant.Grants) Grants {
	out := make(Grants, len(gs))
	for idx, g := range gs {
		out[idx] = ToResponseGrant(*g)
	}

	return out
}
