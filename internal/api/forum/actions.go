// Package forum implements the agora.* JSON-RPC methods: the action
// endpoint and the read-side queries.
package forum

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/agoraforum/agora/internal/action"
	"github.com/agoraforum/agora/internal/models"
)

// ActionAPI exposes the action coordinator over JSON-RPC
type ActionAPI struct {
	coordinator *action.Coordinator
}

// NewActionAPI creates a new action API
func NewActionAPI(coordinator *action.Coordinator) *ActionAPI {
	return &ActionAPI{coordinator: coordinator}
}

type performActionParams struct {
	Action   string `json:"action"`
	UserID   int64  `json:"user_id"`
	PostType string `json:"post_type"`
	PostID   int64  `json:"post_id"`
	AnswerID int64  `json:"answer_id"`
	Body     string `json:"body"`
}

// parsePostRef resolves the wire post_type/post_id pair
func parsePostRef(postType string, postID int64) (models.PostRef, error) {
	if postID <= 0 {
		return models.PostRef{}, fmt.Errorf("missing required parameter: post_id")
	}
	switch postType {
	case "question":
		return models.PostRef{Type: models.PostTypeQuestion, ID: postID}, nil
	case "answer":
		return models.PostRef{Type: models.PostTypeAnswer, ID: postID}, nil
	default:
		return models.PostRef{}, fmt.Errorf("unknown post_type %q", postType)
	}
}

// PerformAction handles agora.perform_action
func (a *ActionAPI) PerformAction(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p performActionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}
	if p.Action == "" {
		return nil, fmt.Errorf("missing required parameter: action")
	}

	ref, err := parsePostRef(p.PostType, p.PostID)
	if err != nil {
		return nil, err
	}

	outcome, err := a.coordinator.PerformAction(ctx.Request.Context(), action.Request{
		ActorID:  p.UserID,
		Kind:     action.Kind(p.Action),
		Target:   ref,
		AnswerID: p.AnswerID,
		Body:     p.Body,
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
