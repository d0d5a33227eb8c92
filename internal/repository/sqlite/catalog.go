package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campusmart/internal/domain"
	"campusmart/internal/service"
)

func stamp(createdAt *time.Time, updatedAt *time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

// UpsertBook inserts or replaces a book by ID
func (r *Repository) UpsertBook(ctx context.Context, b *domain.Book) error {
	stamp(&b.CreatedAt, &b.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO books (id, title, author, description, price, cover_path, installment_months, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			description = excluded.description,
			price = excluded.price,
			cover_path = excluded.cover_path,
			installment_months = excluded.installment_months,
			updated_at = excluded.updated_at
	`, b.ID, b.Title, b.Author, b.Description, b.Price, b.CoverPath, b.InstallmentMonths, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert book: %w", err)
	}
	r.notify.TableChanged(service.TopicBooks)
	return nil
}

// GetBook returns a book by ID, or nil when absent
func (r *Repository) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	var b domain.Book
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, author, description, price, cover_path, installment_months, created_at, updated_at
		FROM books WHERE id = ?
	`, id).Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.CoverPath, &b.InstallmentMonths, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query book: %w", err)
	}
	return &b, nil
}

// ListBooks returns all books ordered by title
func (r *Repository) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, author, description, price, cover_path, installment_months, created_at, updated_at
		FROM books ORDER BY title ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.CoverPath, &b.InstallmentMonths, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// UpsertAudioBook inserts or replaces an audiobook by ID
func (r *Repository) UpsertAudioBook(ctx context.Context, a *domain.AudioBook) error {
	stamp(&a.CreatedAt, &a.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audiobooks (id, title, author, narrator, description, price, cover_path, duration_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			narrator = excluded.narrator,
			description = excluded.description,
			price = excluded.price,
			cover_path = excluded.cover_path,
			duration_minutes = excluded.duration_minutes,
			updated_at = excluded.updated_at
	`, a.ID, a.Title, a.Author, a.Narrator, a.Description, a.Price, a.CoverPath, a.DurationMinutes, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert audiobook: %w", err)
	}
	r.notify.TableChanged(service.TopicAudioBooks)
	return nil
}

// GetAudioBook returns an audiobook by ID, or nil when absent
func (r *Repository) GetAudioBook(ctx context.Context, id string) (*domain.AudioBook, error) {
	var a domain.AudioBook
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, author, narrator, description, price, cover_path, duration_minutes, created_at, updated_at
		FROM audiobooks WHERE id = ?
	`, id).Scan(&a.ID, &a.Title, &a.Author, &a.Narrator, &a.Description, &a.Price, &a.CoverPath, &a.DurationMinutes, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query audiobook: %w", err)
	}
	return &a, nil
}

// ListAudioBooks returns all audiobooks ordered by title
func (r *Repository) ListAudioBooks(ctx context.Context) ([]domain.AudioBook, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, author, narrator, description, price, cover_path, duration_minutes, created_at, updated_at
		FROM audiobooks ORDER BY title ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query audiobooks: %w", err)
	}
	defer rows.Close()

	var items []domain.AudioBook
	for rows.Next() {
		var a domain.AudioBook
		if err := rows.Scan(&a.ID, &a.Title, &a.Author, &a.Narrator, &a.Description, &a.Price, &a.CoverPath, &a.DurationMinutes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan audiobook: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// UpsertCourse inserts or replaces a course by ID
func (r *Repository) UpsertCourse(ctx context.Context, c *domain.Course) error {
	stamp(&c.CreatedAt, &c.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO courses (id, title, teacher_name, description, price, cover_path, seats, duration_weeks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			teacher_name = excluded.teacher_name,
			description = excluded.description,
			price = excluded.price,
			cover_path = excluded.cover_path,
			seats = excluded.seats,
			duration_weeks = excluded.duration_weeks,
			updated_at = excluded.updated_at
	`, c.ID, c.Title, c.TeacherName, c.Description, c.Price, c.CoverPath, c.Seats, c.DurationWks, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}
	r.notify.TableChanged(service.TopicCourses)
	return nil
}

// GetCourse returns a course by ID, or nil when absent
func (r *Repository) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	var c domain.Course
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, teacher_name, description, price, cover_path, seats, duration_weeks, created_at, updated_at
		FROM courses WHERE id = ?
	`, id).Scan(&c.ID, &c.Title, &c.TeacherName, &c.Description, &c.Price, &c.CoverPath, &c.Seats, &c.DurationWks, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query course: %w", err)
	}
	return &c, nil
}

// ListCourses returns all courses ordered by title
func (r *Repository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, teacher_name, description, price, cover_path, seats, duration_weeks, created_at, updated_at
		FROM courses ORDER BY title ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var items []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.TeacherName, &c.Description, &c.Price, &c.CoverPath, &c.Seats, &c.DurationWks, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpsertGearItem inserts or replaces a gear item by ID
func (r *Repository) UpsertGearItem(ctx context.Context, g *domain.GearItem) error {
	stamp(&g.CreatedAt, &g.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO gear_items (id, title, description, price, image_path, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			price = excluded.price,
			image_path = excluded.image_path,
			stock = excluded.stock,
			updated_at = excluded.updated_at
	`, g.ID, g.Title, g.Description, g.Price, g.ImagePath, g.Stock, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert gear item: %w", err)
	}
	r.notify.TableChanged(service.TopicGearItems)
	return nil
}

// GetGearItem returns a gear item by ID, or nil when absent
func (r *Repository) GetGearItem(ctx context.Context, id string) (*domain.GearItem, error) {
	var g domain.GearItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, price, image_path, stock, created_at, updated_at
		FROM gear_items WHERE id = ?
	`, id).Scan(&g.ID, &g.Title, &g.Description, &g.Price, &g.ImagePath, &g.Stock, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query gear item: %w", err)
	}
	return &g, nil
}

// ListGearItems returns all gear items ordered by title
func (r *Repository) ListGearItems(ctx context.Context) ([]domain.GearItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, price, image_path, stock, created_at, updated_at
		FROM gear_items ORDER BY title ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query gear items: %w", err)
	}
	defer rows.Close()

	var items []domain.GearItem
	for rows.Next() {
		var g domain.GearItem
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Price, &g.ImagePath, &g.Stock, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan gear item: %w", err)
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// DeleteCatalogItem removes one item from its family table
func (r *Repository) DeleteCatalogItem(ctx context.Context, kind domain.ItemKind, id string) error {
	var table string
	switch kind {
	case domain.KindBook:
		table = "books"
	case domain.KindAudioBook:
		table = "audiobooks"
	case domain.KindCourse:
		table = "courses"
	case domain.KindGear:
		table = "gear_items"
	default:
		return fmt.Errorf("unknown catalog item kind %q", kind)
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s not found", kind, id)
	}
	r.notify.TableChanged(table)
	return nil
}
