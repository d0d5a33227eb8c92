package domain

import "time"

// ItemKind identifies which catalog table an item came from
type ItemKind string

const (
	KindBook      ItemKind = "book"
	KindAudioBook ItemKind = "audiobook"
	KindCourse    ItemKind = "course"
	KindGear      ItemKind = "gear"
)

// Book is a printed or digital title sold through the store
type Book struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	CoverPath         string    `json:"cover_path,omitempty"`
	InstallmentMonths int       `json:"installment_months,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AudioBook is a narrated title with playback metadata
type AudioBook struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Narrator        string    `json:"narrator"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	CoverPath       string    `json:"cover_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Course is an enrollable class with a teaching assignment
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	TeacherName string    `json:"teacher_name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	DurationWks int       `json:"duration_weeks"`
	Seats       int       `json:"seats"`
	CoverPath   string    `json:"cover_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GearItem is physical merchandise with stock tracking
type GearItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImagePath   string    `json:"image_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CatalogItem is the read-time projection that unifies the four item
// families. OrderConfirmation is filled per requesting user from their
// purchase records; empty means not purchased.
type CatalogItem struct {
	ID                string   `json:"id"`
	Kind              ItemKind `json:"kind"`
	Title             string   `json:"title"`
	Subtitle          string   `json:"subtitle,omitempty"`
	Description       string   `json:"description"`
	Price             float64  `json:"price"`
	CoverPath         string   `json:"cover_path,omitempty"`
	OrderConfirmation string   `json:"order_confirmation,omitempty"`
}

// Purchased reports whether the requesting user owns the item
func (c CatalogItem) Purchased() bool {
	return c.OrderConfirmation != ""
}

// AsCatalogItem projects a book into the unified shape
func (b Book) AsCatalogItem() CatalogItem {
	return CatalogItem{
		ID:          b.ID,
		Kind:        KindBook,
		Title:       b.Title,
		Subtitle:    b.Author,
		Description: b.Description,
		Price:       b.Price,
		CoverPath:   b.CoverPath,
	}
}

// AsCatalogItem projects an audiobook into the unified shape
func (a AudioBook) AsCatalogItem() CatalogItem {
	return CatalogItem{
		ID:          a.ID,
		Kind:        KindAudioBook,
		Title:       a.Title,
		Subtitle:    a.Narrator,
		Description: a.Description,
		Price:       a.Price,
		CoverPath:   a.CoverPath,
	}
}

// AsCatalogItem projects a course into the unified shape
func (c Course) AsCatalogItem() CatalogItem {
	return CatalogItem{
		ID:          c.ID,
		Kind:        KindCourse,
		Title:       c.Title,
		Subtitle:    c.TeacherName,
		Description: c.Description,
		Price:       c.Price,
		CoverPath:   c.CoverPath,
	}
}

// AsCatalogItem projects a gear item into the unified shape
func (g GearItem) AsCatalogItem() CatalogItem {
	return CatalogItem{
		ID:          g.ID,
		Kind:        KindGear,
		Title:       g.Title,
		Description: g.Description,
		Price:       g.Price,
		CoverPath:   g.ImagePath,
	}
}
