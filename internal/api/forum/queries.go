package forum

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agoraforum/agora/internal/cache"
	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/internal/notify"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	reputationCacheTTL = time.Minute
	badgeCacheTTL      = 10 * time.Minute
)

// QueryAPI provides the read-side agora.* methods
type QueryAPI struct {
	posts    *db.PostStore
	users    *db.UserStore
	votes    *db.VoteBook
	ledger   *db.Ledger
	badges   *db.BadgeStore
	comments *db.CommentStore
	inbox    *notify.Inbox
	cache    *cache.Cache
}

// NewQueryAPI creates a new query API
func NewQueryAPI(repo *db.Repository, inbox *notify.Inbox, redisCache *cache.Cache) *QueryAPI {
	return &QueryAPI{
		posts:    db.NewPostStore(repo),
		users:    db.NewUserStore(repo),
		votes:    db.NewVoteBook(repo),
		ledger:   db.NewLedger(repo),
		badges:   db.NewBadgeStore(repo),
		comments: db.NewCommentStore(repo),
		inbox:    inbox,
		cache:    redisCache,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// cachedJSON runs fill on a cache miss and stores its JSON for ttl.
// A disabled or failing cache degrades to querying every time.
func (q *QueryAPI) cachedJSON(key string, ttl time.Duration, fill func() (interface{}, error)) (interface{}, error) {
	if raw, err := q.cache.Get(key); err == nil {
		var out interface{}
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out, nil
		}
	}

	value, err := fill()
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(value); err == nil {
		_ = q.cache.Set(key, string(encoded), ttl)
	}
	return value, nil
}

// GetPost handles agora.get_post
func (q *QueryAPI) GetPost(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		PostType string `json:"post_type"`
		PostID   int64  `json:"post_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	ref, err := parsePostRef(p.PostType, p.PostID)
	if err != nil {
		return nil, err
	}

	post, err := q.posts.Get(ctx.Request.Context(), ref)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}
	return renderPost(post), nil
}

func renderPost(post models.Post) map[string]interface{} {
	out := map[string]interface{}{
		"post_type":  post.Ref().Type.String(),
		"post_id":    post.Ref().ID,
		"author_id":  post.PostAuthorID(),
		"score":      post.PostScore(),
		"flag_count": post.PostFlagCount(),
		"deleted":    post.PostDeleted(),
	}
	switch v := post.(type) {
	case *models.Question:
		out["title"] = v.Title
		out["answer_count"] = v.AnswerCount
		out["answer_accepted"] = v.AnswerAccepted
		out["favourite_count"] = v.FavouriteCount
		out["comment_count"] = v.CommentCount
	case *models.Answer:
		out["question_id"] = v.QuestionID
		out["accepted"] = v.Accepted
		out["comment_count"] = v.CommentCount
	}
	return out
}

// GetComments handles agora.get_comments
func (q *QueryAPI) GetComments(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		PostType string `json:"post_type"`
		PostID   int64  `json:"post_id"`
		Limit    int    `json:"limit"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	ref, err := parsePostRef(p.PostType, p.PostID)
	if err != nil {
		return nil, err
	}

	comments, err := q.comments.ForPost(ctx.Request.Context(), ref, clampLimit(p.Limit))
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(comments))
	for _, c := range comments {
		out = append(out, map[string]interface{}{
			"comment_id": c.ID,
			"author_id":  c.AuthorID,
			"body":       c.Body,
			"added_at":   c.AddedAt,
		})
	}
	return out, nil
}

// GetUser handles agora.get_user
func (q *QueryAPI) GetUser(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID <= 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	user, err := q.users.GetByID(ctx.Request.Context(), p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return map[string]interface{}{
		"user_id":    user.ID,
		"username":   user.Username,
		"reputation": user.Reputation,
		"gold":       user.Gold,
		"silver":     user.Silver,
		"bronze":     user.Bronze,
		"moderator":  user.IsModerator(),
	}, nil
}

// GetReputationHistory handles agora.get_reputation_history
func (q *QueryAPI) GetReputationHistory(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID int64 `json:"user_id"`
		Limit  int   `json:"limit"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID <= 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}
	limit := clampLimit(p.Limit)

	key := cache.HashKey(cache.ReputationKey(p.UserID), fmt.Sprintf("%d", limit))
	return q.cachedJSON(key, reputationCacheTTL, func() (interface{}, error) {
		events, err := q.ledger.HistoryFor(ctx.Request.Context(), p.UserID, limit)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]interface{}, 0, len(events))
		for _, ev := range events {
			entry := map[string]interface{}{
				"id":         ev.ID,
				"kind":       ev.Kind.String(),
				"post_type":  ev.PostType.String(),
				"post_id":    ev.PostID,
				"applied":    ev.Applied(),
				"reputed_at": ev.ReputedAt,
			}
			if ev.ReversesID.Valid {
				entry["reverses_id"] = ev.ReversesID.Int64
			}
			out = append(out, entry)
		}
		return out, nil
	})
}

// GetBadges handles agora.get_badges
func (q *QueryAPI) GetBadges(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	return q.cachedJSON(cache.BadgesKey(), badgeCacheTTL, func() (interface{}, error) {
		badges, err := q.badges.List(ctx.Request.Context())
		if err != nil {
			return nil, err
		}
		out := make([]map[string]interface{}, 0, len(badges))
		for _, b := range badges {
			out = append(out, renderBadge(b))
		}
		return out, nil
	})
}

// GetBadge handles agora.get_badge
func (q *QueryAPI) GetBadge(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		BadgeID int64 `json:"badge_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.BadgeID <= 0 {
		return nil, fmt.Errorf("missing required parameter: badge_id")
	}

	badge, err := q.badges.GetByID(ctx.Request.Context(), p.BadgeID)
	if err != nil {
		return nil, err
	}
	if badge == nil {
		return nil, nil
	}
	return renderBadge(badge), nil
}

func renderBadge(b *models.Badge) map[string]interface{} {
	return map[string]interface{}{
		"badge_id":      b.ID,
		"name":          b.Name,
		"type":          int(b.Type),
		"description":   b.Description,
		"multiple":      b.Multiple,
		"awarded_count": b.AwardedCount,
	}
}

// GetUserAwards handles agora.get_user_awards
func (q *QueryAPI) GetUserAwards(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID <= 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	key := cache.HashKey(cache.AwardsKey(p.UserID))
	return q.cachedJSON(key, badgeCacheTTL, func() (interface{}, error) {
		awards, err := q.badges.AwardsFor(ctx.Request.Context(), p.UserID)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]interface{}, 0, len(awards))
		for _, a := range awards {
			out = append(out, map[string]interface{}{
				"badge_id":   a.BadgeID,
				"post_type":  a.PostType.String(),
				"post_id":    a.PostID,
				"awarded_at": a.AwardedAt,
			})
		}
		return out, nil
	})
}

// GetNotifications handles agora.get_notifications
func (q *QueryAPI) GetNotifications(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID int64 `json:"user_id"`
		Limit  int   `json:"limit"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID <= 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	rows, err := q.inbox.Unread(ctx.Request.Context(), p.UserID, clampLimit(p.Limit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(rows))
	for _, n := range rows {
		out = append(out, map[string]interface{}{
			"id":         n.ID,
			"kind":       n.KindName(),
			"actor_id":   n.ActorID,
			"post_type":  n.PostType.String(),
			"post_id":    n.PostID,
			"created_at": n.CreatedAt,
		})
	}
	return out, nil
}

// MarkNotificationsRead handles agora.mark_notifications_read
func (q *QueryAPI) MarkNotificationsRead(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID <= 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}
	if err := q.inbox.MarkRead(ctx.Request.Context(), p.UserID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return map[string]interface{}{"marked": true}, nil
}

// GetUserVotes handles agora.get_user_votes
func (q *QueryAPI) GetUserVotes(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID int64 `json:"user_id"`
		Limit  int   `json:"limit"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.UserID <= 0 {
		return nil, fmt.Errorf("missing required parameter: user_id")
	}

	votes, err := q.votes.ByUser(ctx.Request.Context(), p.UserID, clampLimit(p.Limit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(votes))
	for _, v := range votes {
		out = append(out, map[string]interface{}{
			"post_type": v.PostType.String(),
			"post_id":   v.PostID,
			"direction": v.Direction,
			"voted_at":  v.VotedAt,
		})
	}
	return out, nil
}
