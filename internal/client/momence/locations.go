package momence

import "strings"

// ResolveLocationID translates a human-readable studio name into the
// provider's location identifier: exact match first, then case-insensitive
// substring match on the table keys. An unresolvable name returns "" which
// means "no location filter applied", not an error.
func (c *Client) ResolveLocationID(name string) string {
	if name == "" || len(c.locations) == 0 {
		return ""
	}

	if id, ok := c.locations[name]; ok {
		return id
	}

	lowered := strings.ToLower(name)
	for key, id := range c.locations {
		if strings.Contains(strings.ToLower(key), lowered) {
			return id
		}
	}

	c.logger.WithField("location", name).Debug("Unresolvable location name, applying no filter")
	return ""
}
