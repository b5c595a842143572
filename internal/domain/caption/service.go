package caption

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"captionstudio/internal/domain/upload"
	"captionstudio/internal/platform/instagram"
	"captionstudio/internal/platform/openai"
)

// ProfileFetcher reads public account data from the scraping provider.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, handle string) (*instagram.Profile, error)
	GetRecentCaptions(ctx context.Context, handle string) ([]string, error)
}

// UploadStore persists the incoming photo and reads it back for encoding.
type UploadStore interface {
	Save(ctx context.Context, handle string, fileHeader *multipart.FileHeader) (*upload.Upload, error)
	ReadBack(u *upload.Upload) ([]byte, error)
	Discard(ctx context.Context, u *upload.Upload) error
}

// Service runs the generation chain: save photo, fetch profile and recent
// captions, one free-form multimodal call, one schema-constrained call.
// Each step is sequential; the first failure aborts the whole request.
type Service struct {
	profiles ProfileFetcher
	model    openai.Client
	uploads  UploadStore
	records  Repository
}

func NewService(profiles ProfileFetcher, model openai.Client, uploads UploadStore, records Repository) *Service {
	return &Service{
		profiles: profiles,
		model:    model,
		uploads:  uploads,
		records:  records,
	}
}

func (s *Service) Generate(ctx context.Context, handle string, fileHeader *multipart.FileHeader) (*CaptionResult, error) {
	u, err := s.uploads.Save(ctx, handle, fileHeader)
	if err != nil {
		return nil, err
	}

	imageData, err := s.uploads.ReadBack(u)
	if err != nil {
		return nil, err
	}
	// The image is always framed as JPEG, whatever its actual type.
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData)

	profile, err := s.profiles.GetProfile(ctx, handle)
	if err != nil {
		return nil, err
	}

	recentCaptions, err := s.profiles.GetRecentCaptions(ctx, handle)
	if err != nil {
		return nil, err
	}

	log.Printf("generating captions: handle=%s name=%q verified=%t followers=%d recent_captions=%d",
		handle, profile.FullName, profile.IsVerified, profile.FollowerCount, len(recentCaptions))

	prompt := buildGenerationPrompt(profile, recentCaptions)

	rawText, err := s.model.GenerateTextWithImages(ctx, "", prompt, []openai.ImageInput{
		{ImageURL: dataURL, Detail: "high"},
	})
	if err != nil {
		return nil, err
	}

	structured, err := s.model.GenerateJSON(ctx, structurerSystemPrompt, rawText, "captions", captionSchema())
	if err != nil {
		return nil, err
	}

	result, err := resultFromObject(structured)
	if err != nil {
		return nil, err
	}

	rec := &CaptionRecord{
		ID:            uuid.New().String(),
		UploadID:      u.ID,
		Handle:        handle,
		ShortCaption:  result.ShortCaption,
		MediumCaption: result.MediumCaption,
		LongCaption:   result.LongCaption,
		CreatedAt:     time.Now(),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("save caption record: %w", err)
	}

	if err := s.uploads.Discard(ctx, u); err != nil {
		// The captions were produced; a failed cleanup should not fail
		// the request.
		log.Printf("discard upload %s failed: %v", u.ID, err)
	}

	return result, nil
}

// History returns previously generated captions for a handle, newest first.
func (s *Service) History(ctx context.Context, handle string, limit int) ([]*CaptionRecord, error) {
	return s.records.ListByHandle(ctx, handle, limit)
}

func resultFromObject(obj map[string]any) (*CaptionResult, error) {
	result := &CaptionResult{
		ShortCaption:  stringField(obj, "shortCaption"),
		MediumCaption: stringField(obj, "mediumCaption"),
		LongCaption:   stringField(obj, "longCaption"),
	}
	if result.ShortCaption == "" || result.MediumCaption == "" || result.LongCaption == "" {
		return nil, ErrIncompleteResult
	}
	return result, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
