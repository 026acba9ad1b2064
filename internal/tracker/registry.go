package tracker

import "fmt"

// DefaultUser is the single user present on a fresh (or fully reset) session.
const DefaultUser = "User 1"

// Registry holds the ordered set of gym partner names. Order matters: it is
// the iteration order for personal-record tie-breaks, so it is preserved
// across restarts.
type Registry struct {
	users []string
}

func NewRegistry(users []string) *Registry {
	if len(users) == 0 {
		users = []string{DefaultUser}
	}
	return &Registry{users: users}
}

func (r *Registry) List() []string {
	users := make([]string, len(r.users))
	copy(users, r.users)
	return users
}

func (r *Registry) Has(name string) bool {
	for _, user := range r.users {
		if user == name {
			return true
		}
	}
	return false
}

func (r *Registry) Count() int {
	return len(r.users)
}

func (r *Registry) Add(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if r.Has(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, name)
	}
	r.users = append(r.users, name)
	return nil
}

func (r *Registry) Rename(oldName, newName string) error {
	if newName == "" || newName == oldName || r.Has(newName) {
		return fmt.Errorf("%w: %s", ErrInvalidName, newName)
	}
	for i, user := range r.users {
		if user == oldName {
			r.users[i] = newName
			return nil
		}
	}
	return fmt.Errorf("%w: %s not found", ErrInvalidName, oldName)
}

func (r *Registry) Remove(name string) error {
	if len(r.users) <= 1 {
		return ErrLastUser
	}
	for i, user := range r.users {
		if user == name {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s not found", ErrInvalidName, name)
}

func (r *Registry) Reset() {
	r.users = []string{DefaultUser}
}
