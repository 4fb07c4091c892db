package registration

import (
	"sync"

	"github.com/corelearn/training-management/internal/user"
)

// AssignmentPolicy picks the LMS approver for a registration entering the
// pending_lms stage. Candidates are active lms_manager users in directory
// order; the policy must not mutate the slice.
type AssignmentPolicy interface {
	SelectApprover(candidates []*user.User) (*user.User, error)
}

// FirstAvailablePolicy assigns the first lms_manager in directory order.
// This is the baseline behavior when no policy is configured.
type FirstAvailablePolicy struct{}

func (FirstAvailablePolicy) SelectApprover(candidates []*user.User) (*user.User, error) {
	if len(candidates) == 0 {
		return nil, ErrNoApprover
	}
	return candidates[0], nil
}

// RoundRobinPolicy cycles through lms_managers to spread approval load.
type RoundRobinPolicy struct {
	mu   sync.Mutex
	next int
}

func (p *RoundRobinPolicy) SelectApprover(candidates []*user.User) (*user.User, error) {
	if len(candidates) == 0 {
		return nil, ErrNoApprover
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	selected := candidates[p.next%len(candidates)]
	p.next++
	return selected, nil
}

// PolicyFromName maps the configured policy name to an implementation,
// falling back to first_available.
func PolicyFromName(name string) AssignmentPolicy {
	switch name {
	case "round_robin":
		return &RoundRobinPolicy{}
	default:
		return FirstAvailablePolicy{}
	}
}
