// Package postsocial implements the post_social action.
package postsocial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/registry"
)

type Factory struct {
	social protocol.SocialPoster
}

func NewFactory(social protocol.SocialPoster) *Factory {
	return &Factory{social: social}
}

func (f *Factory) Type() models.ActionType {
	return models.ActionPostSocial
}

func (f *Factory) ParameterSchema() map[string]any {
	return registry.ObjectSchema("platform", "content")
}

func (f *Factory) Create(parameters map[string]any) (protocol.Action, error) {
	if f.social == nil {
		return nil, errors.New("social capability not configured")
	}

	return &Action{social: f.social, parameters: parameters}, nil
}

type Action struct {
	social     protocol.SocialPoster
	parameters map[string]any
}

func (a *Action) Execute(ctx context.Context, input map[string]any, logger *slog.Logger) (map[string]any, error) {
	platform, err := actions.StringParam(a.parameters, "platform", input)
	if err != nil {
		return nil, err
	}

	content, err := actions.StringParam(a.parameters, "content", input)
	if err != nil {
		return nil, err
	}

	logger.Info("Posting to social platform", "platform", platform)

	postID, err := a.social.PostSocial(ctx, platform, content)
	if err != nil {
		return nil, fmt.Errorf("failed to post to %s: %w", platform, err)
	}

	return map[string]any{
		"posted":   true,
		"platform": platform,
		"content":  content,
		"postId":   postID,
		"postedAt": actions.Timestamp(),
	}, nil
}
