package types

import "fmt"

// IntervalRole classifies an interval as a compression or tension member.
type IntervalRole int

// Interval roles.
const (
	RolePush IntervalRole = iota // compression member (strut)
	RolePull                     // tension member (cable)
)

func (r IntervalRole) String() string {
	switch r {
	case RolePush:
		return "push"
	case RolePull:
		return "pull"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Valid reports whether r is RolePush or RolePull.
func (r IntervalRole) Valid() bool {
	return r == RolePush || r == RolePull
}

// ParseRole maps "push" or "pull" to its role.
func ParseRole(name string) (IntervalRole, error) {
	switch name {
	case "push":
		return RolePush, nil
	case "pull":
		return RolePull, nil
	default:
		return RolePush, fmt.Errorf("%w: %q", ErrInvalidRole, name)
	}
}

// MarshalText encodes the role by name.
func (r IntervalRole) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name.
func (r *IntervalRole) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
