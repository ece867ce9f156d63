// Package types provides type definitions for structured data used throughout the content engine.
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContentType identifies the format of a generated piece of copy
type ContentType string

// Supported content types
const (
	ContentBlog      ContentType = "blog"
	ContentInstagram ContentType = "instagram"
	ContentYouTube   ContentType = "youtube"
	ContentEmail     ContentType = "email"
	ContentAd        ContentType = "ad"
)

// AllContentTypes lists the supported content types in display order
var AllContentTypes = []ContentType{
	ContentBlog,
	ContentInstagram,
	ContentYouTube,
	ContentEmail,
	ContentAd,
}

// ParseContentType converts a raw string into a ContentType
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllContentTypes {
		if ct == known {
			return ct, nil
		}
	}
	return "", fmt.Errorf("unknown content type: %q", s)
}

// HasTitle reports whether the format carries a headline that is scored on its own
func (c ContentType) HasTitle() bool {
	return c == ContentBlog || c == ContentYouTube
}

// HasSEO reports whether search optimization applies to the format
func (c ContentType) HasSEO() bool {
	switch c {
	case ContentInstagram, ContentAd:
		return false
	default:
		return true
	}
}

// GenerationDetails carries brand context shared across content types
type GenerationDetails struct {
	Team        string `json:"team,omitempty" validate:"omitempty,oneof=content sales"`
	BrandVoice  string `json:"brand_voice,omitempty" validate:"max=1000"`
	GlobalRules string `json:"global_rules,omitempty" validate:"max=2000"`
}

// GenerateRequest represents a request to generate and score copy for one keyword
type GenerateRequest struct {
	Keyword        string            `json:"keyword" validate:"required,min=1,max=200"`
	Types          []ContentType     `json:"types" validate:"omitempty,max=5,dive,oneof=blog instagram youtube email ad"`
	Tone           string            `json:"tone,omitempty" validate:"omitempty,oneof=professional friendly humorous urgent luxurious"`
	Industry       string            `json:"industry,omitempty" validate:"max=100"`
	TargetAudience string            `json:"target_audience,omitempty" validate:"max=200"`
	Details        GenerationDetails `json:"details"`
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	validate := validator.New()
	if strings.TrimSpace(r.Keyword) == "" {
		return fmt.Errorf("keyword is required")
	}
	return validate.Struct(r)
}

// AnalyzeRequest represents a request to score already-written copy
type AnalyzeRequest struct {
	Content string      `json:"content" validate:"required"`
	Title   string      `json:"title,omitempty"`
	Keyword string      `json:"keyword,omitempty" validate:"max=200"`
	Type    ContentType `json:"type,omitempty" validate:"omitempty,oneof=blog instagram youtube email ad"`
	Tone    string      `json:"tone,omitempty"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// GeneratedContent is one generated piece of copy with its quality report
type GeneratedContent struct {
	Type    ContentType    `json:"type"`
	Title   string         `json:"title,omitempty"`
	Content string         `json:"content"`
	Report  *QualityReport `json:"report"`
}

// GenerateResponse is the response body of a generation request
type GenerateResponse struct {
	Results   map[ContentType]*GeneratedContent `json:"results"`
	PoweredBy string                            `json:"powered_by"`
	Remaining int                               `json:"remaining"`
}
