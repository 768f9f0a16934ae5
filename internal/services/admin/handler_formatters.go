package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/atlasdata/alfurij-admin/internal/services/admin/calendar"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
)

// formatMoney renders an amount with locale digit grouping and its currency.
func formatMoney(loc *message.Printer, amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = marketapi.DefaultCurrency
	}
	value := amount.Round(2).InexactFloat64()
	return loc.Sprint(number.Decimal(value, number.MaxFractionDigits(2))) + " " + currency
}

// formatDate renders an upstream timestamp in the operator zone, or the raw
// value when it cannot be parsed.
func formatDate(raw string, zone *time.Location) string {
	t, ok := calendar.ParseEventDate(raw, zone)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return t.In(zone).Format(displayDateLayout)
}

// formatCount renders an integer with locale digit grouping.
func formatCount(loc *message.Printer, n int) string {
	return loc.Sprint(number.Decimal(n))
}

func auctionStatusLabel(loc *message.Printer, status marketapi.AuctionStatus) string {
	return loc.Sprintf("auctions.status." + string(status))
}

func listingStatusLabel(loc *message.Printer, status marketapi.ListingStatus) string {
	if !status.Valid() {
		return loc.Sprintf("listings.status.pending")
	}
	return loc.Sprintf("listings.status." + string(status))
}

// adTypeLabel translates known ad types and passes others through.
func adTypeLabel(loc *message.Printer, adType string) string {
	switch adType = strings.ToLower(strings.TrimSpace(adType)); adType {
	case "ad", "live_auction", "scheduled_auction":
		return loc.Sprintf("listings.ad_type." + adType)
	default:
		return adType
	}
}

func monthLabel(loc *message.Printer, month time.Time) string {
	return loc.Sprintf("calendar.month."+strconv.Itoa(int(month.Month()))) + " " + strconv.Itoa(month.Year())
}

func weekdayLabel(loc *message.Printer, day time.Weekday) string {
	return loc.Sprintf("calendar.weekday." + strings.ToLower(day.String()[:3]))
}

// truncate shortens text to limit runes for table cells.
func truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
