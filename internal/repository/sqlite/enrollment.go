package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campusmart/internal/domain"
	"campusmart/internal/service"
)

const enrollmentColumns = "id, user_id, course_id, status, motivation, full_name, phone, submitted_at"

// UpsertEnrollment stores a course application. The free-text fields
// are captured at submission; re-upserting the same application key
// replaces the row wholesale, which callers only do before review.
func (r *Repository) UpsertEnrollment(ctx context.Context, e *domain.EnrollmentApplication) error {
	if !e.Status.Valid() {
		return fmt.Errorf("unknown enrollment status %q", e.Status)
	}
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO enrollment_applications (`+enrollmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			motivation = excluded.motivation,
			full_name = excluded.full_name,
			phone = excluded.phone
	`, e.ID, e.UserID, e.CourseID, string(e.Status), e.Motivation, e.FullName, e.Phone, e.SubmittedAt)
	if err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}
	r.notify.TableChanged(service.TopicEnrollments)
	return nil
}

func scanEnrollment(row interface{ Scan(...any) error }) (*domain.EnrollmentApplication, error) {
	var e domain.EnrollmentApplication
	var status string
	if err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &status, &e.Motivation, &e.FullName, &e.Phone, &e.SubmittedAt); err != nil {
		return nil, err
	}
	e.Status = domain.EnrollmentStatus(status)
	return &e, nil
}

// GetEnrollment returns an application by its composite ID, or nil
func (r *Repository) GetEnrollment(ctx context.Context, id string) (*domain.EnrollmentApplication, error) {
	e, err := scanEnrollment(r.db.QueryRowContext(ctx, "SELECT "+enrollmentColumns+" FROM enrollment_applications WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query enrollment: %w", err)
	}
	return e, nil
}

// SetEnrollmentStatus advances an application through review. Only the
// status column changes; the submitted fields stay immutable.
func (r *Repository) SetEnrollmentStatus(ctx context.Context, id string, status domain.EnrollmentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown enrollment status %q", status)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE enrollment_applications SET status = ? WHERE id = ?
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("set enrollment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("enrollment %s not found", id)
	}
	r.notify.TableChanged(service.TopicEnrollments)
	return nil
}

// ListEnrollments returns a course's applications, oldest first
func (r *Repository) ListEnrollments(ctx context.Context, courseID string) ([]domain.EnrollmentApplication, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+enrollmentColumns+` FROM enrollment_applications
		WHERE course_id = ? ORDER BY submitted_at ASC
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	var apps []domain.EnrollmentApplication
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		apps = append(apps, *e)
	}
	return apps, rows.Err()
}
