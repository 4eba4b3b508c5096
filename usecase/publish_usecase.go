package usecase

import (
	"context"
	"encoding/json"

	"social-relay/domain/dto"
	"social-relay/domain/model"
	"social-relay/domain/repository"
)

type IPublishUsecase interface {
	PublishText(ctx context.Context, req dto.TextPostRequest) (json.RawMessage, error)
	PublishPagePost(ctx context.Context, req dto.PagePostRequest) (json.RawMessage, error)
	UploadVideo(ctx context.Context, accessToken string, video *dto.VideoUpload) (json.RawMessage, error)
}

type publishUsecase struct {
	providers map[model.Platform]repository.IProvider
}

func NewPublishUsecase(providers []repository.IProvider) IPublishUsecase {
	m := make(map[model.Platform]repository.IProvider, len(providers))
	for _, p := range providers {
		m[p.Platform()] = p
	}
	return &publishUsecase{providers: m}
}

func (u *publishUsecase) provider(platform model.Platform) (repository.IProvider, error) {
	p, ok := u.providers[platform]
	if !ok {
		return nil, &model.ValidationError{Field: "platform", Reason: "is not configured: " + string(platform)}
	}
	return p, nil
}

func (u *publishUsecase) PublishText(ctx context.Context, req dto.TextPostRequest) (json.RawMessage, error) {
	if req.AccessToken == "" {
		return nil, &model.ValidationError{Field: "accessToken"}
	}
	if req.Text == "" {
		return nil, &model.ValidationError{Field: "text"}
	}
	p, err := u.provider(model.PlatformLinkedIn)
	if err != nil {
		return nil, err
	}
	return p.Publish(ctx, req.AccessToken, dto.PublishContent{Text: req.Text})
}

func (u *publishUsecase) PublishPagePost(ctx context.Context, req dto.PagePostRequest) (json.RawMessage, error) {
	if req.AccessToken == "" {
		return nil, &model.ValidationError{Field: "accessToken"}
	}
	if req.PageID == "" {
		return nil, &model.ValidationError{Field: "pageId"}
	}
	if req.Message == "" {
		return nil, &model.ValidationError{Field: "message"}
	}
	p, err := u.provider(model.PlatformFacebook)
	if err != nil {
		return nil, err
	}
	return p.Publish(ctx, req.AccessToken, dto.PublishContent{PageID: req.PageID, Message: req.Message})
}

func (u *publishUsecase) UploadVideo(ctx context.Context, accessToken string, video *dto.VideoUpload) (json.RawMessage, error) {
	if accessToken == "" {
		return nil, &model.ValidationError{Field: "accessToken"}
	}
	if video == nil || len(video.Bytes) == 0 {
		return nil, &model.ValidationError{Field: "video"}
	}
	if video.Title == "" {
		return nil, &model.ValidationError{Field: "title"}
	}
	p, err := u.provider(model.PlatformYouTube)
	if err != nil {
		return nil, err
	}
	return p.Publish(ctx, accessToken, dto.PublishContent{Video: video})
}
