package products

import "time"

type Doc struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Touch overwrites name and price and refreshes UpdatedAt.
func (d *Doc) Touch(name string, price float64, now time.Time) {
	d.Name = name
	d.Price = price
	d.UpdatedAt = now
}

// Stamp sets both timestamps, discarding whatever the caller supplied.
func (d *Doc) Stamp(now time.Time) {
	d.CreatedAt = now
	d.UpdatedAt = now
}

// indexMapping mirrors the field types of the product document.
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "category":    {"type": "keyword"},
      "price":       {"type": "double"},
      "description": {"type": "text"},
      "createdAt":   {"type": "date", "format": "date_time||strict_date_optional_time"},
      "updatedAt":   {"type": "date", "format": "date_time||strict_date_optional_time"}
    }
  }
}`
