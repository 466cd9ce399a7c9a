package booking

import "docportal/models"

// FreeSlots returns the slots of svc not consumed by any booking for
// that treatment, preserving the order of the service schedule. Slot
// assignment is set membership over discrete labels, not time
// arithmetic.
func FreeSlots(svc models.Service, bookings []models.Booking) []string {
	booked := map[string]bool{}
	for _, b := range bookings {
		if b.Treatment == svc.Name {
			booked[b.Slot] = true
		}
	}

	free := []string{}
	for _, slot := range svc.Slots {
		if !booked[slot] {
			free = append(free, slot)
		}
	}
	return free
}
