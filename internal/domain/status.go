package domain

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	// PENDING - new order, awaiting admin confirmation
	OrderStatusPending OrderStatus = "pending"
	// CONFIRMED - order accepted by admin
	OrderStatusConfirmed OrderStatus = "confirmed"
	// PROCESSING - order being prepared
	OrderStatusProcessing OrderStatus = "processing"
	// PAID - payment verified before/instead of the main flow
	OrderStatusPaid OrderStatus = "paid"
	// SHIPPED - order handed to courier
	OrderStatusShipped OrderStatus = "shipped"
	// DELIVERED - order received by customer
	OrderStatusDelivered OrderStatus = "delivered"
	// CANCELLED - cancelled by customer or admin
	OrderStatusCancelled OrderStatus = "cancelled"
	// REJECTED - rejected by admin
	OrderStatusRejected OrderStatus = "rejected"
	// REFUNDED - payment returned
	OrderStatusRefunded OrderStatus = "refunded"
)

// IsValid checks if the order status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusPaid,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRejected,
		OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid.
// Re-asserting the current status is handled by the caller, not here.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed ||
			next == OrderStatusRejected ||
			next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusProcessing ||
			next == OrderStatusCancelled ||
			next == OrderStatusRejected
	case OrderStatusProcessing:
		return next == OrderStatusShipped ||
			next == OrderStatusCancelled
	case OrderStatusPaid:
		return next == OrderStatusProcessing ||
			next == OrderStatusShipped ||
			next == OrderStatusRefunded ||
			next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered ||
			next == OrderStatusRefunded
	case OrderStatusDelivered:
		return next == OrderStatusRefunded
	case OrderStatusCancelled, OrderStatusRejected, OrderStatusRefunded:
		return false // Terminal states
	default:
		return false
	}
}

// IsTerminal reports whether no outgoing transitions exist from this status.
// Delivered is not terminal: it still allows a refund.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCancelled, OrderStatusRejected, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// Label returns the customer-facing name of the status, used in notifications.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Order Received"
	case OrderStatusConfirmed:
		return "Confirmed"
	case OrderStatusProcessing:
		return "Processing"
	case OrderStatusPaid:
		return "Paid"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	case OrderStatusRejected:
		return "Rejected"
	case OrderStatusRefunded:
		return "Refunded"
	default:
		return string(s)
	}
}

// PaymentStatus represents the manual-payment verification state of an order.
// It is independent of the fulfilment status.
type PaymentStatus string

const (
	PaymentStatusNotRequired PaymentStatus = "not_required"
	PaymentStatusUnpaid      PaymentStatus = "unpaid"
	PaymentStatusSubmitted   PaymentStatus = "submitted"
	PaymentStatusVerified    PaymentStatus = "verified"
	PaymentStatusRejected    PaymentStatus = "rejected"
)

// RefundStatus tracks whether a refund has been requested for a cancelled order
type RefundStatus string

const (
	RefundStatusNone      RefundStatus = "none"
	RefundStatusRequested RefundStatus = "requested"
)

// Actor identifies who triggered an order event
type Actor string

const (
	ActorUser   Actor = "user"
	ActorAdmin  Actor = "admin"
	ActorSystem Actor = "system"
)

// PaymentMethod is how the customer pays. COD needs no verification;
// the mobile-wallet methods are verified manually by admin review.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodBkash  PaymentMethod = "bkash"
	PaymentMethodNagad  PaymentMethod = "nagad"
	PaymentMethodRocket PaymentMethod = "rocket"
)

// IsManual reports whether the method requires human payment verification
func (m PaymentMethod) IsManual() bool {
	switch m {
	case PaymentMethodBkash, PaymentMethodNagad, PaymentMethodRocket:
		return true
	default:
		return false
	}
}

// DefaultPaymentStatus is the payment state assigned at order creation
func (m PaymentMethod) DefaultPaymentStatus() PaymentStatus {
	if m == PaymentMethodCOD {
		return PaymentStatusNotRequired
	}
	return PaymentStatusUnpaid
}

// DeliveryArea selects the flat shipping rate
type DeliveryArea string

const (
	DeliveryAreaDhaka   DeliveryArea = "dhaka"
	DeliveryAreaOutside DeliveryArea = "outside"
)
