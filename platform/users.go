package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// UserByExternalID searches for users whose linked external identity
// matches the given numeric id. The platform returns a list; callers
// own the exactly-one invariant.
func (c *Client) UserByExternalID(ctx context.Context, externalID int64) ([]User, error) {
	path := "/users?q=" + url.QueryEscape(fmt.Sprintf("external_id:%d", externalID))

	var users []User
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if err := users[i].Validate(); err != nil {
			return nil, malformed(http.MethodGet, path, err)
		}
	}
	return users, nil
}
