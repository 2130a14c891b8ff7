package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"bargain/internal/domain/entity"
	"bargain/internal/domain/service/negotiation"
)

const StartMessage = `🤝 <b>Bargain operator bot</b>

/haggle <code>item/rate reference target [currency]</code>: ask for a price
/status: live sessions and rate reloads`

const HaggleUsage = "❌ Usage: /haggle <code>item/rate reference target [currency]</code>\n\n" +
	"Example: /haggle <code>hotel-42/deluxe 32168 14000</code>"

func Status(sessions int, ratesReloading bool) string {
	reloads := "🔴 off"
	if ratesReloading {
		reloads = "🟢 on"
	}

	return fmt.Sprintf("📊 <b>Status</b>\n\n🧾 <b>Live sessions:</b> %d\n💱 <b>Rate reloads:</b> %s",
		sessions, reloads)
}

func Offer(state entity.SessionState, checkout negotiation.Checkout) string {
	offer := state.CounterOffer

	var sb strings.Builder

	if offer.Accepted() {
		sb.WriteString("✅ <b>Accepted</b>\n\n")
	} else {
		sb.WriteString("↩️ <b>Counter-offer</b>\n\n")
	}

	fmt.Fprintf(&sb, "🏷 <b>Unit:</b> <code>%s</code>\n", html.EscapeString(state.Unit.String()))
	fmt.Fprintf(&sb, "💬 <b>Asked:</b> %s\n", offer.RequestedPrice.StringFixed(2))
	fmt.Fprintf(&sb, "💰 <b>Price:</b> %s (reference %s)\n",
		offer.SettledPrice.StringFixed(2), offer.ReferencePrice.StringFixed(2))
	fmt.Fprintf(&sb, "🧮 <b>Total:</b> %s %s\n",
		checkout.GrandTotal.StringFixed(2), html.EscapeString(checkout.Context.Currency.String()))
	if stay := checkout.Context.Stay; stay.Nights() > 0 {
		fmt.Fprintf(&sb, "🛏 <b>Stay:</b> %d nights, %d guests\n", stay.Nights(), stay.Guests())
	}
	fmt.Fprintf(&sb, "⏳ <b>Valid until:</b> %s", checkout.ValidUntil.Format(time.TimeOnly))

	return sb.String()
}

func Booked(booking *entity.Booking) string {
	return fmt.Sprintf("🎉 <b>Booked</b> <code>%s</code>\n🧮 <b>Total:</b> %s %s",
		html.EscapeString(booking.ID), booking.GrandTotal.StringFixed(2), html.EscapeString(booking.Currency.String()))
}

func Dropped(sessionID string) string {
	return fmt.Sprintf("🗑 Session <code>%s</code> dropped", html.EscapeString(sessionID))
}

// Failure renders an error code and message for the chat.
func Failure(code, message string) string {
	if code == "" {
		return "❌ " + html.EscapeString(message)
	}

	return fmt.Sprintf("❌ <b>%s</b>\n%s", html.EscapeString(code), html.EscapeString(message))
}
