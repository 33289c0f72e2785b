package enums

// PaymentMethod enumerates how an order is paid. Only cash on delivery is supported.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cod"
)
