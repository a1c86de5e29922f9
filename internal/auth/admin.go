package auth

// AdminSet is the static allow-list of identities permitted to run
// privileged commands. It is built once at startup and never mutated,
// so concurrent reads need no synchronization.
type AdminSet struct {
	ids map[int64]struct{}
}

func NewAdminSet(ids []int64) AdminSet {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return AdminSet{ids: set}
}

// Contains reports whether the identity may invoke privileged commands.
func (s AdminSet) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of admins, for startup logging.
func (s AdminSet) Len() int {
	return len(s.ids)
}
