// Package catalog maps room numbers to room-type pricing and capacity, and
// derives stay pricing from catalog rates. Everything here is a pure lookup
// or calculation; the catalog itself holds no mutable state.
package catalog

// RoomType groups a set of room numbers under one nightly rate.
type RoomType struct {
	ID            string
	Name          string
	Description   string
	Rooms         []string
	PricePerNight float64
	Capacity      int
}

// Catalog is a static collection of room types.
type Catalog struct {
	types []RoomType
}

// New builds a catalog from the given room types.
func New(types []RoomType) *Catalog {
	return &Catalog{types: types}
}

// Default returns the built-in room configuration.
func Default() *Catalog {
	return New([]RoomType{
		{
			ID:            "standard",
			Name:          "Standard",
			PricePerNight: 1500,
			Rooms:         []string{"101", "102", "103", "104", "105"},
			Description:   "ห้องพักมาตรฐาน",
			Capacity:      2,
		},
		{
			ID:            "deluxe",
			Name:          "Deluxe",
			PricePerNight: 2500,
			Rooms:         []string{"201", "202", "203", "204"},
			Description:   "ห้องพักระดับดีลักซ์",
			Capacity:      2,
		},
		{
			ID:            "suite",
			Name:          "Suite",
			PricePerNight: 4000,
			Rooms:         []string{"301", "302"},
			Description:   "ห้องสวีท",
			Capacity:      4,
		},
		{
			ID:            "villa",
			Name:          "Villa",
			PricePerNight: 6000,
			Rooms:         []string{"V1", "V2", "V3"},
			Description:   "วิลล่าส่วนตัว",
			Capacity:      6,
		},
	})
}

// Lookup returns the room type containing the given room number. The second
// return is false when the number is not in any type's room list; an unknown
// room is not an error at this layer.
func (c *Catalog) Lookup(roomNumber string) (RoomType, bool) {
	for _, rt := range c.types {
		for _, r := range rt.Rooms {
			if r == roomNumber {
				return rt, true
			}
		}
	}
	return RoomType{}, false
}

// Types returns all room types in catalog order.
func (c *Catalog) Types() []RoomType {
	return c.types
}
