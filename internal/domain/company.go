package domain

// Company компания, за счёт которой бронируются места
type Company struct {
	ID                    int64
	Name                  string
	AllocatedParkingSlots int
}
