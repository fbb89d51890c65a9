package collabs

import (
	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/terms"
)

// ProposeRequest creates a new collaboration. The caller must be the hotel
// or the creator it names.
type ProposeRequest struct {
	HotelID   string      `json:"hotel_id" binding:"required"`
	CreatorID string      `json:"creator_id" binding:"required"`
	ListingID string      `json:"listing_id" binding:"required"`
	Terms     terms.Terms `json:"terms" binding:"required"`
}

// RespondRequest accepts or declines a pending proposal as-is
type RespondRequest struct {
	Accept               bool `json:"accept"`
	ExpectedTermsVersion *int `json:"expected_terms_version"`
}

// SuggestChangesRequest submits replacement terms
type SuggestChangesRequest struct {
	Terms                terms.Terms `json:"terms" binding:"required"`
	ExpectedTermsVersion *int        `json:"expected_terms_version"`
}

// ApproveRequest approves the current terms version
type ApproveRequest struct {
	ExpectedTermsVersion *int `json:"expected_terms_version"`
}

// CancelRequest ends the collaboration with an optional reason
type CancelRequest struct {
	Reason string `json:"reason"`
}

type CollaborationResponse struct {
	Collaboration *collabs.Collaboration `json:"collaboration"`
}

type ListResponse struct {
	Collaborations []*collabs.Collaboration `json:"collaborations"`
}
