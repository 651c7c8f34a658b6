package rules

// Permission is a decision result richer than a boolean: denials name
// the specific reason so callers can surface it.
type Permission int8

// Permission codes
const (
	Allowed Permission = iota
	AllowedWithWarning
	DeniedAnonymous
	DeniedSelfVote
	DeniedOwnAnswer
	DeniedNotQuestionAuthor
	DeniedInsufficientReputation
	DeniedDailyCapReached
	DeniedAlreadyFlagged
	DeniedNotAuthorized
)

// Granted reports whether the action may proceed
func (p Permission) Granted() bool {
	return p == Allowed || p == AllowedWithWarning
}

// WireCode maps the permission onto the numeric "allowed" codes the
// legacy clients expect: 1 allowed, 0 not allowed, -1 own post,
// -2 not enough reputation, -3 daily cap reached.
func (p Permission) WireCode() int {
	switch p {
	case Allowed, AllowedWithWarning:
		return 1
	case DeniedSelfVote, DeniedOwnAnswer:
		return -1
	case DeniedInsufficientReputation:
		return -2
	case DeniedDailyCapReached:
		return -3
	default:
		return 0
	}
}

// String returns the snake_case reason name
func (p Permission) String() string {
	switch p {
	case Allowed:
		return "allowed"
	case AllowedWithWarning:
		return "allowed_with_warning"
	case DeniedAnonymous:
		return "denied_anonymous"
	case DeniedSelfVote:
		return "denied_self_vote"
	case DeniedOwnAnswer:
		return "denied_own_answer"
	case DeniedNotQuestionAuthor:
		return "denied_not_question_author"
	case DeniedInsufficientReputation:
		return "denied_insufficient_reputation"
	case DeniedDailyCapReached:
		return "denied_daily_cap_reached"
	case DeniedAlreadyFlagged:
		return "denied_already_flagged"
	case DeniedNotAuthorized:
		return "denied_not_authorized"
	default:
		return "unknown"
	}
}

// Message returns the human-readable denial text carried in outcomes
func (p Permission) Message() string {
	switch p {
	case Allowed, AllowedWithWarning:
		return ""
	case DeniedAnonymous:
		return "you must be signed in to do that"
	case DeniedSelfVote:
		return "you cannot vote on your own post"
	case DeniedOwnAnswer:
		return "you cannot accept your own answer"
	case DeniedNotQuestionAuthor:
		return "only the question author can accept an answer"
	case DeniedInsufficientReputation:
		return "you do not have enough reputation to do that"
	case DeniedDailyCapReached:
		return "you have reached the daily limit for this action"
	case DeniedAlreadyFlagged:
		return "you have already flagged this post"
	case DeniedNotAuthorized:
		return "you are not allowed to do that"
	default:
		return "action not permitted"
	}
}
