// Package resolve turns invocation-level identifiers into platform
// resources: an external numeric identity into exactly one platform
// user, a template name into a template, and a preset request into a
// preset id.
//
// Resolution never guesses: zero users linked to an identity is
// NOT_FOUND, more than one is CONFLICT.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/issueops/taskbridge/errors"
	"github.com/issueops/taskbridge/platform"
)

// UserFinder is the platform capability identity resolution needs.
// *platform.Client satisfies it.
type UserFinder interface {
	UserByExternalID(ctx context.Context, externalID int64) ([]platform.User, error)
}

// User resolves an external numeric identity to the unique platform
// user linked to it.
func User(ctx context.Context, finder UserFinder, externalID int64) (*platform.User, error) {
	if externalID <= 0 {
		return nil, errors.Validationf("external user id must be positive, got %d", externalID)
	}

	users, err := finder.UserByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	switch len(users) {
	case 0:
		return nil, errors.NotFound(
			fmt.Sprintf("no platform user is linked to external id %d", externalID))
	case 1:
		return &users[0], nil
	default:
		names := make([]string, len(users))
		for i, u := range users {
			names[i] = u.Username
		}
		return nil, errors.Conflict(
			fmt.Sprintf("external id %d is linked to %d platform users", externalID, len(users)),
			errors.WithDetail("usernames", strings.Join(names, ",")))
	}
}
