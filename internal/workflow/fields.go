package workflow

// Canonical purchase order field names. Validation reports missing
// fields in this order, and tracking writes sheet columns in this order.
const (
	FieldOrderID          = "order_id"
	FieldCustomer         = "customer"
	FieldPickupLocation   = "pickup_location"
	FieldDeliveryLocation = "delivery_location"
	FieldDeliveryDatetime = "delivery_datetime"
	FieldDriverName       = "driver_name"
	FieldDriverPhone      = "driver_phone"
)

// FieldNames is the canonical field ordering.
var FieldNames = []string{
	FieldOrderID,
	FieldCustomer,
	FieldPickupLocation,
	FieldDeliveryLocation,
	FieldDeliveryDatetime,
	FieldDriverName,
	FieldDriverPhone,
}

// ExtractedFields mirrors the JSON shape the extraction model returns,
// with nullable entries for fields absent from the source text.
type ExtractedFields struct {
	OrderID          *string `json:"order_id"`
	Customer         *string `json:"customer"`
	PickupLocation   *string `json:"pickup_location"`
	DeliveryLocation *string `json:"delivery_location"`
	DeliveryDatetime *string `json:"delivery_datetime"`
	DriverName       *string `json:"driver_name"`
	DriverPhone      *string `json:"driver_phone"`
}

// Map flattens the extraction into a field map, dropping null entries.
func (f ExtractedFields) Map() map[string]string {
	fields := make(map[string]string)

	set := func(name string, value *string) {
		if value != nil {
			fields[name] = *value
		}
	}

	set(FieldOrderID, f.OrderID)
	set(FieldCustomer, f.Customer)
	set(FieldPickupLocation, f.PickupLocation)
	set(FieldDeliveryLocation, f.DeliveryLocation)
	set(FieldDeliveryDatetime, f.DeliveryDatetime)
	set(FieldDriverName, f.DriverName)
	set(FieldDriverPhone, f.DriverPhone)

	return fields
}
