package services

import (
	"github.com/cinescore/cinescorebackend/config"
	"github.com/cinescore/cinescorebackend/models"
)

// ReviewAction identifies the mutation an actor is attempting on a review.
type ReviewAction string

const (
	ReviewActionUpdate        ReviewAction = "update"
	ReviewActionPartialUpdate ReviewAction = "partial_update"
	ReviewActionDelete        ReviewAction = "delete"
)

// Decision is the explicit outcome of an authorization check. Callers branch
// on Allowed; Reason carries the fixed denial message when Allowed is false.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

const (
	groupOnlyDenialMessage    = "Only members of the Movies Administrators group can modify reviews."
	ownerOrGroupDenialMessage = "Only the review owner or a Movies Administrator can modify reviews."
)

// ReviewAccessPolicy decides whether an actor may perform a mutating action on
// a review. Review creation and ownership-filtered listings are not gated here.
type ReviewAccessPolicy interface {
	Authorize(actor *models.User, review *models.Review, action ReviewAction) Decision
}

// GroupOnlyPolicy grants update/delete exclusively to members of the Movies
// Administrators group. Ownership alone grants nothing.
type GroupOnlyPolicy struct{}

func (GroupOnlyPolicy) Authorize(actor *models.User, review *models.Review, action ReviewAction) Decision {
	if actor != nil && actor.InGroup(models.MoviesAdminGroupName) {
		return Allow()
	}
	return Deny(groupOnlyDenialMessage)
}

// OwnerOrGroupPolicy grants update/delete to the review's owner as well as to
// members of the Movies Administrators group.
type OwnerOrGroupPolicy struct{}

func (OwnerOrGroupPolicy) Authorize(actor *models.User, review *models.Review, action ReviewAction) Decision {
	if actor == nil {
		return Deny(ownerOrGroupDenialMessage)
	}
	if review != nil && review.UserID == actor.ID {
		return Allow()
	}
	if actor.InGroup(models.MoviesAdminGroupName) {
		return Allow()
	}
	return Deny(ownerOrGroupDenialMessage)
}

// PolicyFromConfig returns the access policy strategy selected by
// REVIEW_EDIT_POLICY. Unknown values fall back to the group-only policy, the
// stricter of the two.
func PolicyFromConfig(policy string) ReviewAccessPolicy {
	if policy == config.ReviewPolicyOwnerOrGroup {
		return OwnerOrGroupPolicy{}
	}
	return GroupOnlyPolicy{}
}
