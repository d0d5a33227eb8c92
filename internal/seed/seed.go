// Package seed loads the first-run catalog snapshot. It runs only
// against an empty catalog so a reinstall never clobbers live data.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"campusmart/internal/domain"
	"campusmart/internal/repository"
)

//go:embed seed.yaml
var embeddedSnapshot []byte

// SnapshotYAML represents the seed file structure
type SnapshotYAML struct {
	Version    string          `yaml:"version"`
	Books      []BookYAML      `yaml:"books,omitempty"`
	AudioBooks []AudioBookYAML `yaml:"audiobooks,omitempty"`
	Courses    []CourseYAML    `yaml:"courses,omitempty"`
	Gear       []GearYAML      `yaml:"gear,omitempty"`
	Admin      *AdminYAML      `yaml:"admin,omitempty"`
}

// BookYAML represents a book in the seed file
type BookYAML struct {
	ID                string  `yaml:"id"`
	Title             string  `yaml:"title"`
	Author            string  `yaml:"author"`
	Description       string  `yaml:"description,omitempty"`
	Price             float64 `yaml:"price"`
	CoverPath         string  `yaml:"cover_path,omitempty"`
	InstallmentMonths int     `yaml:"installment_months,omitempty"`
}

// AudioBookYAML represents an audiobook in the seed file
type AudioBookYAML struct {
	ID              string  `yaml:"id"`
	Title           string  `yaml:"title"`
	Author          string  `yaml:"author"`
	Narrator        string  `yaml:"narrator,omitempty"`
	Description     string  `yaml:"description,omitempty"`
	Price           float64 `yaml:"price"`
	DurationMinutes int     `yaml:"duration_minutes,omitempty"`
	CoverPath       string  `yaml:"cover_path,omitempty"`
}

// CourseYAML represents a course in the seed file
type CourseYAML struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Teacher     string  `yaml:"teacher,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Price       float64 `yaml:"price"`
	DurationWks int     `yaml:"duration_weeks,omitempty"`
	Seats       int     `yaml:"seats,omitempty"`
	CoverPath   string  `yaml:"cover_path,omitempty"`
}

// GearYAML represents a gear item in the seed file
type GearYAML struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description,omitempty"`
	Price       float64 `yaml:"price"`
	Stock       int     `yaml:"stock,omitempty"`
	ImagePath   string  `yaml:"image_path,omitempty"`
}

// AdminYAML represents the bootstrap admin account
type AdminYAML struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Apply seeds the store from the given file, or from the embedded
// snapshot when path is empty. It is a no-op when any catalog table
// already has rows.
func Apply(ctx context.Context, repo repository.Repository, path string) error {
	data := embeddedSnapshot
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
	}
	return ApplyBytes(ctx, repo, data)
}

// ApplyBytes seeds the store from YAML bytes.
func ApplyBytes(ctx context.Context, repo repository.Repository, data []byte) error {
	empty, err := catalogEmpty(ctx, repo)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	var snap SnapshotYAML
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse seed snapshot: %w", err)
	}

	for _, b := range snap.Books {
		book := &domain.Book{
			ID:                b.ID,
			Title:             b.Title,
			Author:            b.Author,
			Description:       b.Description,
			Price:             b.Price,
			CoverPath:         b.CoverPath,
			InstallmentMonths: b.InstallmentMonths,
		}
		if err := repo.UpsertBook(ctx, book); err != nil {
			return fmt.Errorf("seed book %s: %w", b.ID, err)
		}
	}
	for _, a := range snap.AudioBooks {
		ab := &domain.AudioBook{
			ID:              a.ID,
			Title:           a.Title,
			Author:          a.Author,
			Narrator:        a.Narrator,
			Description:     a.Description,
			Price:           a.Price,
			DurationMinutes: a.DurationMinutes,
			CoverPath:       a.CoverPath,
		}
		if err := repo.UpsertAudioBook(ctx, ab); err != nil {
			return fmt.Errorf("seed audiobook %s: %w", a.ID, err)
		}
	}
	for _, c := range snap.Courses {
		course := &domain.Course{
			ID:          c.ID,
			Title:       c.Title,
			TeacherName: c.Teacher,
			Description: c.Description,
			Price:       c.Price,
			DurationWks: c.DurationWks,
			Seats:       c.Seats,
			CoverPath:   c.CoverPath,
		}
		if err := repo.UpsertCourse(ctx, course); err != nil {
			return fmt.Errorf("seed course %s: %w", c.ID, err)
		}
	}
	for _, g := range snap.Gear {
		gear := &domain.GearItem{
			ID:          g.ID,
			Title:       g.Title,
			Description: g.Description,
			Price:       g.Price,
			Stock:       g.Stock,
			ImagePath:   g.ImagePath,
		}
		if err := repo.UpsertGearItem(ctx, gear); err != nil {
			return fmt.Errorf("seed gear item %s: %w", g.ID, err)
		}
	}

	if snap.Admin != nil {
		if err := seedAdmin(ctx, repo, snap.Admin); err != nil {
			return err
		}
	}

	log.Printf("seeded catalog: %d books, %d audiobooks, %d courses, %d gear items",
		len(snap.Books), len(snap.AudioBooks), len(snap.Courses), len(snap.Gear))
	return nil
}

func seedAdmin(ctx context.Context, repo repository.Repository, a *AdminYAML) error {
	existing, err := repo.GetUserByEmail(ctx, a.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	admin := domain.NewUser(a.Name, a.Email, domain.RoleAdmin)
	if err := admin.SetPassword(a.Password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := repo.UpsertUser(ctx, admin); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}

func catalogEmpty(ctx context.Context, repo repository.Repository) (bool, error) {
	books, err := repo.ListBooks(ctx)
	if err != nil {
		return false, err
	}
	audioBooks, err := repo.ListAudioBooks(ctx)
	if err != nil {
		return false, err
	}
	courses, err := repo.ListCourses(ctx)
	if err != nil {
		return false, err
	}
	gear, err := repo.ListGearItems(ctx)
	if err != nil {
		return false, err
	}
	return len(books) == 0 && len(audioBooks) == 0 && len(courses) == 0 && len(gear) == 0, nil
}
