package services

import (
	"fmt"
	"net/url"
	"strings"
)

// WhatsAppLink builds a wa.me deep link that opens a chat with the studio
// number, prefilled with an order-scoped message. Returns "" when no number
// is configured; callers treat the link as optional.
func WhatsAppLink(number, orderNumber string) string {
	number = strings.TrimLeft(strings.TrimSpace(number), "+")
	if number == "" {
		return ""
	}
	text := fmt.Sprintf("مرحباً، استفسار بخصوص الطلب رقم %s", orderNumber)
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(text))
}
