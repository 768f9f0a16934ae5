package marketapi

import (
	"strings"
	"time"
)

// AuctionStatus is the console's canonical auction state.
type AuctionStatus string

const (
	AuctionLive      AuctionStatus = "live"
	AuctionScheduled AuctionStatus = "scheduled"
	AuctionEnded     AuctionStatus = "ended"
	AuctionPending   AuctionStatus = "pending"
	AuctionUnknown   AuctionStatus = "unknown"
)

// AuctionStatuses lists the tab order used by the auctions board.
var AuctionStatuses = []AuctionStatus{AuctionLive, AuctionScheduled, AuctionEnded, AuctionPending}

// ParseAuctionStatus reads a canonical status value such as a tab query
// parameter. Unrecognised values return AuctionUnknown.
func ParseAuctionStatus(raw string) AuctionStatus {
	switch AuctionStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case AuctionLive:
		return AuctionLive
	case AuctionScheduled:
		return AuctionScheduled
	case AuctionEnded:
		return AuctionEnded
	case AuctionPending:
		return AuctionPending
	default:
		return AuctionUnknown
	}
}

// AuctionStatusFields are the overlapping upstream fields that describe an
// auction's state.
type AuctionStatusFields struct {
	Status      string
	Type        string
	AdType      string
	IsStreaming bool
	StartAt     time.Time
	EndAt       time.Time
}

var (
	terminalWords  = wordSet("ended", "finished", "closed", "completed", "complete", "cancelled", "canceled", "expired", "sold")
	pendingWords   = wordSet("pending", "awaiting_approval", "under_review", "draft", "review")
	liveWords      = wordSet("live", "active", "running", "ongoing", "started", "in_progress", "streaming")
	scheduledWords = wordSet("scheduled", "upcoming", "approved", "not_started", "planned")
	liveTypes      = wordSet("live", "live_auction")
)

// ResolveAuctionStatus is the single mapping from upstream fields to the
// canonical status. Rules apply in order; the first match wins:
//
//  1. a terminal status word is ended
//  2. a pending status word is pending
//  3. an on-air stream is live
//  4. a live status word is live
//  5. a known end time at or before now is ended
//  6. a scheduled status word is scheduled
//  7. a known start time after now is scheduled
//  8. type or ad_type live (or live_auction) is live
//  9. a known start time at or before now is live
//  10. otherwise unknown
func ResolveAuctionStatus(f AuctionStatusFields, now time.Time) AuctionStatus {
	status := normalizeWord(f.Status)
	switch {
	case terminalWords[status]:
		return AuctionEnded
	case pendingWords[status]:
		return AuctionPending
	case f.IsStreaming:
		return AuctionLive
	case liveWords[status]:
		return AuctionLive
	case !f.EndAt.IsZero() && !now.Before(f.EndAt):
		return AuctionEnded
	case scheduledWords[status]:
		return AuctionScheduled
	case !f.StartAt.IsZero() && now.Before(f.StartAt):
		return AuctionScheduled
	case liveTypes[normalizeWord(f.Type)] || liveTypes[normalizeWord(f.AdType)]:
		return AuctionLive
	case !f.StartAt.IsZero():
		return AuctionLive
	default:
		return AuctionUnknown
	}
}

// ListingStatus is the moderation state of a listing.
type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingApproved ListingStatus = "approved"
	ListingRejected ListingStatus = "rejected"
	ListingDraft    ListingStatus = "draft"
)

// ListingStatuses lists the filter options in display order.
var ListingStatuses = []ListingStatus{ListingPending, ListingApproved, ListingRejected, ListingDraft}

// ParseListingStatus maps approval_status, falling back to status. Anything
// unrecognised is pending so it stays in the moderation queue.
func ParseListingStatus(approval, status string) ListingStatus {
	for _, raw := range []string{approval, status} {
		switch normalizeWord(raw) {
		case "approved", "accepted", "active", "published":
			return ListingApproved
		case "rejected", "declined", "refused":
			return ListingRejected
		case "draft":
			return ListingDraft
		case "pending", "under_review", "awaiting_approval":
			return ListingPending
		}
	}
	return ListingPending
}

// Valid reports whether s is one of the known listing statuses.
func (s ListingStatus) Valid() bool {
	for _, known := range ListingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func normalizeWord(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, "-", "_")
	return strings.ReplaceAll(value, " ", "_")
}

func wordSet(words ...string) map[string]bool {
	out := make(map[string]bool, len(words))
	for _, w := range words {
		out[w] = true
	}
	return out
}
