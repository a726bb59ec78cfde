package domain

import (
	"strings"
	"time"
)

// Design is the persisted record of one generated landscape transformation.
// IsPublic is deliberately a *bool: nil means "never set", which counts as
// visible in the public gallery. Only an explicit false hides a design.
type Design struct {
	ID               string         `json:"id,omitempty" firestore:"-"`
	PublicID         string         `json:"publicId,omitempty" firestore:"publicId"`
	OwnerID          string         `json:"ownerId,omitempty" firestore:"ownerId"`
	IsPublic         *bool          `json:"isPublic,omitempty" firestore:"isPublic,omitempty"`
	CreatedAt        time.Time      `json:"createdAt,omitempty" firestore:"createdAt,serverTimestamp"`
	OriginalImageURL string         `json:"originalImageUrl,omitempty" firestore:"originalImageUrl,omitempty"`
	RenderImageURLs  []string       `json:"renderImageUrls" firestore:"renderImageUrls"`
	PlanImageURL     string         `json:"planImageUrl" firestore:"planImageUrl"`
	CostEstimate     *CostEstimate  `json:"costEstimate,omitempty" firestore:"costEstimate,omitempty"`
	Analysis         map[string]any `json:"analysis,omitempty" firestore:"analysis,omitempty"`
}

// CostEstimate is the structured line-item breakdown attached to a design.
type CostEstimate struct {
	TotalLowUSD  float64        `json:"totalLowUsd" firestore:"totalLowUsd"`
	TotalHighUSD float64        `json:"totalHighUsd" firestore:"totalHighUsd"`
	Items        []CostLineItem `json:"items" firestore:"items"`
}

type CostLineItem struct {
	Name         string  `json:"name" firestore:"name"`
	Category     string  `json:"category,omitempty" firestore:"category,omitempty"`
	Size         string  `json:"size,omitempty" firestore:"size,omitempty"`
	Quantity     int     `json:"quantity" firestore:"quantity"`
	UnitPrice    string  `json:"unitPrice,omitempty" firestore:"unitPrice,omitempty"`
	TotalLowUSD  float64 `json:"totalLowUsd,omitempty" firestore:"totalLowUsd,omitempty"`
	TotalHighUSD float64 `json:"totalHighUsd,omitempty" firestore:"totalHighUsd,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
}

// Visible reports whether the design belongs in the public gallery.
// Unset visibility counts as visible for backward compatibility.
func (d Design) Visible() bool {
	return d.IsPublic == nil || *d.IsPublic
}

// Complete reports whether the design has at least one render image.
// Designs without renders are treated as corrupt and never listed publicly.
func (d Design) Complete() bool {
	return len(d.RenderImageURLs) > 0
}

// HasInlineImages reports whether any image field still carries an
// inline-encoded value instead of a remote URL.
func (d Design) HasInlineImages() bool {
	if IsInlineImage(d.OriginalImageURL) || IsInlineImage(d.PlanImageURL) {
		return true
	}
	for _, img := range d.RenderImageURLs {
		if IsInlineImage(img) {
			return true
		}
	}
	if d.CostEstimate != nil {
		for _, item := range d.CostEstimate.Items {
			if IsInlineImage(item.ImageURL) {
				return true
			}
		}
	}
	return false
}

// IsInlineImage reports whether the value is an inline-encoded image
// (data URL) or an ephemeral browser blob reference.
func IsInlineImage(v string) bool {
	return strings.HasPrefix(v, "data:") || strings.HasPrefix(v, "blob:")
}

// IsRemoteURL reports whether the value is already a durable remote URL.
func IsRemoteURL(v string) bool {
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}
