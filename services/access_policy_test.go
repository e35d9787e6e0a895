package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinescore/cinescorebackend/config"
	"github.com/cinescore/cinescorebackend/models"
)

func policyTestUsers() (owner, stranger, admin *models.User, review *models.Review) {
	owner = &models.User{ID: 1, Username: "owner"}
	stranger = &models.User{ID: 2, Username: "stranger"}
	admin = &models.User{
		ID:       3,
		Username: "admin",
		Groups:   []*models.Group{{Name: models.MoviesAdminGroupName}},
	}
	review = &models.Review{ID: 10, MovieID: 5, UserID: owner.ID, Rating: 4}
	return
}

func TestGroupOnlyPolicy(t *testing.T) {
	owner, stranger, admin, review := policyTestUsers()
	policy := GroupOnlyPolicy{}

	tests := []struct {
		name    string
		actor   *models.User
		allowed bool
	}{
		{"admin allowed", admin, true},
		{"owner denied", owner, false},
		{"stranger denied", stranger, false},
		{"anonymous denied", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, action := range []ReviewAction{ReviewActionUpdate, ReviewActionPartialUpdate, ReviewActionDelete} {
				decision := policy.Authorize(tt.actor, review, action)
				assert.Equal(t, tt.allowed, decision.Allowed)
				if !tt.allowed {
					assert.Equal(t, "Only members of the Movies Administrators group can modify reviews.", decision.Reason)
				}
			}
		})
	}
}

func TestOwnerOrGroupPolicy(t *testing.T) {
	owner, stranger, admin, review := policyTestUsers()
	policy := OwnerOrGroupPolicy{}

	tests := []struct {
		name    string
		actor   *models.User
		allowed bool
	}{
		{"admin allowed", admin, true},
		{"owner allowed", owner, true},
		{"stranger denied", stranger, false},
		{"anonymous denied", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := policy.Authorize(tt.actor, review, ReviewActionUpdate)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.Equal(t, "Only the review owner or a Movies Administrator can modify reviews.", decision.Reason)
			}
		})
	}
}

func TestPolicyFromConfig(t *testing.T) {
	assert.IsType(t, GroupOnlyPolicy{}, PolicyFromConfig(config.ReviewPolicyGroupOnly))
	assert.IsType(t, OwnerOrGroupPolicy{}, PolicyFromConfig(config.ReviewPolicyOwnerOrGroup))
	// unknown values fall back to the stricter policy
	assert.IsType(t, GroupOnlyPolicy{}, PolicyFromConfig("something_else"))
}
