// Package advisory serves crop recommendations and expert consultation
// tickets, and keeps an append-only record of both.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cropdesk/internal/kv"
	"cropdesk/internal/logger"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid"
)

var ErrInvalidInput = errors.New("invalid advisory input")

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type Consultation struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	UserID    string    `json:"userId"`
	Question  string    `json:"question"`
	Category  string    `json:"category"`
	Urgency   string    `json:"urgency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type ConsultationInput struct {
	Question string `json:"question"`
	Category string `json:"category"`
	Urgency  string `json:"urgency"`
}

// RequestLog is what gets written for every recommendation request.
type RequestLog struct {
	Location        string           `json:"location"`
	Season          string           `json:"season"`
	SoilType        string           `json:"soilType"`
	Recommendations []Recommendation `json:"recommendations"`
	Timestamp       time.Time        `json:"timestamp"`
}

type Service struct {
	Store     kv.Store
	Generator Generator
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Recommend returns the generator's list. Failing to record the request is
// logged and never reaches the caller.
func (s *Service) Recommend(ctx context.Context, userID string, req Request) ([]Recommendation, error) {
	req.Location = strings.TrimSpace(req.Location)
	req.Season = strings.TrimSpace(req.Season)
	req.SoilType = strings.TrimSpace(req.SoilType)
	if req.Location == "" || req.Season == "" {
		return nil, fmt.Errorf("%w: location and season are required", ErrInvalidInput)
	}

	recs, err := s.Generator.Recommend(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	now := s.now()
	key := kv.Key("recommendation_request", userID, strconv.FormatInt(now.UnixMilli(), 10))
	entry := RequestLog{
		Location:        req.Location,
		Season:          req.Season,
		SoilType:        req.SoilType,
		Recommendations: recs,
		Timestamp:       now,
	}
	if err := s.Store.Set(ctx, key, entry); err != nil {
		logger.Warn("recommendation request log write failed", "user", userID, "key", key, "error", err)
	}
	return recs, nil
}

func (s *Service) Consult(ctx context.Context, userID string, in ConsultationInput) (Consultation, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return Consultation{}, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	ref, err := gonanoid.Generate(referenceAlphabet, 8)
	if err != nil {
		return Consultation{}, fmt.Errorf("generate reference: %w", err)
	}

	c := Consultation{
		ID:        uuid.NewString(),
		Reference: "CN-" + ref,
		UserID:    userID,
		Question:  question,
		Category:  orDefault(in.Category, "general"),
		Urgency:   orDefault(in.Urgency, "medium"),
		Status:    "pending",
		CreatedAt: s.now(),
	}
	if err := s.Store.Set(ctx, kv.Key("consultation", c.ID), c); err != nil {
		return Consultation{}, fmt.Errorf("save consultation: %w", err)
	}
	return c, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
