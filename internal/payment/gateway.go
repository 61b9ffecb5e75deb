package payment

import "context"

// LineItem is one priced position of a checkout; UnitAmount is in the
// processor's minor currency unit (cents).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int
}

// Session is a provider-hosted checkout the customer is redirected to.
type Session struct {
	ID  string
	URL string
}

// Gateway is the contract the order pipeline depends on. OpenSession
// authorizes (holds) the total without capturing it; Reconcile settles the
// hold once the customer returns. With shouldCapture=false the hold is
// released and settled=false. With shouldCapture=true the hold is captured,
// unless the session is already paid or the intent is no longer capturable,
// in which case the call is a no-op reporting settled=true. A capture must
// never be attempted twice.
type Gateway interface {
	OpenSession(ctx context.Context, items []LineItem, customerEmail string) (*Session, error)
	Reconcile(ctx context.Context, sessionID string, shouldCapture bool) (bool, error)
}
