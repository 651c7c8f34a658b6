// Package rules holds the pure moderation decision functions. Nothing
// here mutates state: callers gather the counts and the rules return a
// Permission.
package rules

import (
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/config"
)

// Rules evaluates moderation permissions against the site policy
type Rules struct {
	policy *config.PolicyConfig
}

// New creates a rules evaluator
func New(policy *config.PolicyConfig) *Rules {
	return &Rules{policy: policy}
}

// CanVote decides whether actor may vote on post in the given
// direction. votesToday is the actor's total count of votes cast
// today, both directions combined: the daily cap is one shared budget.
func (r *Rules) CanVote(actor *models.User, post models.Post, direction int16, votesToday int) Permission {
	if actor == nil {
		return DeniedAnonymous
	}
	if post.PostAuthorID() == actor.ID {
		return DeniedSelfVote
	}

	threshold := r.policy.RepToVoteUp
	if direction == models.VoteDown {
		threshold = r.policy.RepToVoteDown
	}
	if actor.Reputation < threshold {
		return DeniedInsufficientReputation
	}

	if votesToday >= r.policy.MaxVotesPerDay {
		return DeniedDailyCapReached
	}
	if r.policy.MaxVotesPerDay-votesToday-1 <= r.policy.WarnVotesLeft {
		return AllowedWithWarning
	}
	return Allowed
}

// VotesLeft returns how many votes remain in the day after the current
// one, for the warning message
func (r *Rules) VotesLeft(votesToday int) int {
	left := r.policy.MaxVotesPerDay - votesToday - 1
	if left < 0 {
		left = 0
	}
	return left
}

// CanFlag decides whether actor may flag post as offensive
func (r *Rules) CanFlag(actor *models.User, flagsToday int, alreadyFlagged bool) Permission {
	if actor == nil {
		return DeniedAnonymous
	}
	if flagsToday >= r.policy.MaxFlagsPerDay {
		return DeniedDailyCapReached
	}
	if actor.Reputation < r.policy.RepToFlag {
		return DeniedInsufficientReputation
	}
	if alreadyFlagged {
		return DeniedAlreadyFlagged
	}
	return Allowed
}

// CanComment decides whether actor may comment on post. Post authors
// may always comment on their own posts; everyone else needs the
// comment reputation threshold. Moderators bypass the threshold.
func (r *Rules) CanComment(actor *models.User, post models.Post) Permission {
	if actor == nil {
		return DeniedAnonymous
	}
	if post.PostAuthorID() == actor.ID || actor.IsModerator() {
		return Allowed
	}
	if actor.Reputation < r.policy.RepToComment {
		return DeniedInsufficientReputation
	}
	return Allowed
}

// CanAcceptAnswer decides whether actor may accept answer on question
func (r *Rules) CanAcceptAnswer(actor *models.User, question *models.Question, answer *models.Answer) Permission {
	if actor == nil {
		return DeniedAnonymous
	}
	if question.AuthorID != actor.ID {
		return DeniedNotQuestionAuthor
	}
	if answer.AuthorID == question.AuthorID {
		return DeniedOwnAnswer
	}
	return Allowed
}

// CanDelete decides whether actor may soft-delete or restore post.
// Moderators may delete anything; authors may delete their own posts.
func (r *Rules) CanDelete(actor *models.User, post models.Post) Permission {
	if actor == nil {
		return DeniedAnonymous
	}
	if actor.IsModerator() || post.PostAuthorID() == actor.ID {
		return Allowed
	}
	return DeniedNotAuthorized
}
