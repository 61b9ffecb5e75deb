package mailer

import (
	"fmt"

	"go-cinema-ticketing/internal/model"
)

// OrderSettledMail builds the subject and body for a settlement outcome.
func OrderSettledMail(orderID int64, status model.OrderStatus) (subject string, html string) {
	switch status {
	case model.OrderStatusPayed:
		subject = fmt.Sprintf("Your order #%d is confirmed", orderID)
		html = fmt.Sprintf(`
			<h1>Thank you for your purchase!</h1>
			<p>Your order <strong>#%d</strong> has been paid and your seats are booked.</p>
			<p>Show this mail at the cinema entrance.</p>`, orderID)
	default:
		subject = fmt.Sprintf("Your order #%d was cancelled", orderID)
		html = fmt.Sprintf(`
			<h1>Order cancelled</h1>
			<p>Your order <strong>#%d</strong> could not be completed. No charge was made.</p>
			<p>Seats may have sold out before your payment went through.</p>`, orderID)
	}
	return subject, html
}
