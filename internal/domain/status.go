package domain

import (
	"strings"
	"time"
)

// OrderCycle identifies one of the two weekly ordering windows
type OrderCycle string

const (
	CycleMonday OrderCycle = "MONDAY"
	CycleFriday OrderCycle = "FRIDAY"
)

// Deliveries land the day after the order goes out.
var cycleDeliveryDays = map[OrderCycle]time.Weekday{
	CycleMonday: time.Tuesday,
	CycleFriday: time.Saturday,
}

// ParseOrderCycle returns the cycle for a label (case-insensitive).
func ParseOrderCycle(label string) (OrderCycle, error) {
	cycle := OrderCycle(strings.ToUpper(strings.TrimSpace(label)))
	if _, ok := cycleDeliveryDays[cycle]; !ok {
		return "", ErrInvalidCycle
	}
	return cycle, nil
}

// Valid reports whether c is a supported cycle.
func (c OrderCycle) Valid() bool {
	_, ok := cycleDeliveryDays[c]
	return ok
}

// DeliveryWeekday returns the weekday the cycle's delivery arrives.
func (c OrderCycle) DeliveryWeekday() time.Weekday {
	return cycleDeliveryDays[c]
}

// NextDelivery returns the first delivery date for the cycle strictly after now.
func (c OrderCycle) NextDelivery(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := c.DeliveryWeekday()
	for i := 1; i <= 7; i++ {
		candidate := day.AddDate(0, 0, i)
		if candidate.Weekday() == target {
			return candidate
		}
	}
	return day.AddDate(0, 0, 7)
}

// OrderStatus is the lifecycle state of a persisted order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
)

var orderStatusCodes = map[string]OrderStatus{
	"draft":     OrderStatusDraft,
	"confirmed": OrderStatusConfirmed,
}

// ParseOrderStatus returns the status for a label (case-insensitive). Empty labels default to DRAFT.
func ParseOrderStatus(label string) (OrderStatus, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return OrderStatusDraft, true
	}
	status, ok := orderStatusCodes[strings.ToLower(label)]
	return status, ok
}
